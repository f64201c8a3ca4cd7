package trip

import (
	"context"
	"time"

	"rideshare/internal/domain"
)

// TripStore is implemented by repository.TripRepository.
type TripStore interface {
	Create(ctx context.Context, t *domain.Trip) error
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	GetListing(ctx context.Context, id int64) (*domain.TripListing, error)
	UpdateDetails(ctx context.Context, t *domain.Trip) error
	Deactivate(ctx context.Context, id int64) error
	ListActive(ctx context.Context, f domain.TripFilter) ([]domain.TripListing, error)
	ListByDriver(ctx context.Context, driverID int64) ([]domain.TripListing, error)
	MostBooked(ctx context.Context, limit int) ([]domain.TripListing, error)
	Upcoming(ctx context.Context, now time.Time, limit int) ([]domain.TripListing, error)
}

type SubscriptionGate interface {
	Require(ctx context.Context, userID int64) error
}

type VerificationChecker interface {
	IsVerified(ctx context.Context, userID int64) (bool, error)
}
