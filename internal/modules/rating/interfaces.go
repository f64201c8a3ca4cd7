package rating

import (
	"context"

	"rideshare/internal/domain"
)

type RatingStore interface {
	Create(ctx context.Context, r *domain.Rating) error
	ListForRatee(ctx context.Context, rateeID int64) ([]domain.Rating, error)
	Average(ctx context.Context, rateeID int64) (float64, int64, error)
}

// ParticipationChecker reports whether a user drove a trip or holds a paid booking on it.
type ParticipationChecker interface {
	HasParticipated(ctx context.Context, tripID, userID int64) (bool, error)
}
