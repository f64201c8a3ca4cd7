package auth

import (
	"context"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/domain/subscription"

	"gorm.io/gorm"
)

// UserRepositoryInterface lists only the methods the auth service uses.
type UserRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, p *domain.Profile) error
	UpdateNames(ctx context.Context, userID int64, firstName, lastName string) error
	DB() *gorm.DB // account creation runs its own transaction
}

// TrialStarter opens the trial window inside the account-creation transaction.
type TrialStarter interface {
	StartTrialTx(ctx context.Context, tx *gorm.DB, userID int64) (*subscription.Subscription, error)
}

type RatingReader interface {
	Average(ctx context.Context, rateeID int64) (float64, int64, error)
}

type WelcomeNotifier interface {
	NotifyWelcome(ctx context.Context, userID int64, firstName string) error
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
	TTL() time.Duration
}
