package payment

import (
	"context"

	"rideshare/internal/domain"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ConfirmWithPayment(ctx context.Context, bookingID int64, p *domain.PaymentTransaction) (*domain.Booking, error)
}

type PaymentStore interface {
	GetByID(ctx context.Context, id int64) (*domain.PaymentDetails, error)
	GetByBooking(ctx context.Context, bookingID int64) (*domain.PaymentDetails, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]domain.PaymentDetails, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.PaymentDetails, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NotificationSender interface {
	NotifyBookingConfirmed(ctx context.Context, passengerID int64, summary domain.TripSummary) error
	NotifyPaymentRecorded(ctx context.Context, driverID int64, summary domain.TripSummary, passengerName string) error
}
