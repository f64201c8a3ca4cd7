package booking

import (
	"context"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	Reserve(ctx context.Context, res repository.Reservation) (*domain.Booking, error)
	Transition(ctx context.Context, bookingID int64, from []domain.BookingStatus, next domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CompleteDeparted(ctx context.Context, now time.Time) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]domain.BookingDetails, error)
	ListForDriver(ctx context.Context, driverID int64, status domain.BookingStatus) ([]domain.BookingDetails, error)
	SeatsHeld(ctx context.Context, tripID int64) (int, error)
}

// TripRepository defines the trip lookups the engine needs
type TripRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SubscriptionGate interface {
	Require(ctx context.Context, userID int64) error
}

type NotificationSender interface {
	NotifyBookingReceived(ctx context.Context, passengerID int64, summary domain.TripSummary) error
	NotifyBookingRequested(ctx context.Context, driverID int64, summary domain.TripSummary, passengerName string) error
	NotifyBookingApproved(ctx context.Context, passengerID int64, summary domain.TripSummary) error
	NotifyBookingRejected(ctx context.Context, passengerID int64, summary domain.TripSummary) error
}
