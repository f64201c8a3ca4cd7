package admin

import (
	"context"

	"rideshare/internal/domain"
	"rideshare/internal/domain/verification"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	CountByRole(ctx context.Context) (map[domain.UserRole]int64, error)
	List(ctx context.Context, role domain.UserRole, limit, offset int) ([]domain.User, int64, error)
	SetActive(ctx context.Context, userID int64, active bool) error
}

type TripRepository interface {
	CountActive(ctx context.Context) (active int64, total int64, err error)
}

type BookingRepository interface {
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
}

type PaymentRepository interface {
	Totals(ctx context.Context) (count int64, sum domain.Money, err error)
}

type VerificationStats interface {
	Statistics(ctx context.Context) (*verification.Statistics, error)
}
