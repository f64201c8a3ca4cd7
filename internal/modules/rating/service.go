package rating

import (
	"context"
	"errors"
	"strings"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

type Service struct {
	ratings RatingStore
	trips   ParticipationChecker
	loggerf func(format string, args ...interface{})
}

func NewService(ratings RatingStore, trips ParticipationChecker, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{ratings: ratings, trips: trips, loggerf: loggerf}
}

// Rate records one participant's score for another. Each (trip, rater, ratee)
// can be rated once.
func (s *Service) Rate(ctx context.Context, raterID int64, req CreateRatingRequest) (*domain.Rating, error) {
	if req.TripID <= 0 || req.RateeID <= 0 {
		return nil, domain.InvalidRequest("trip and rated user are required")
	}
	if req.Score < domain.MinRatingScore || req.Score > domain.MaxRatingScore {
		return nil, domain.InvalidRequest("score must be between %d and %d", domain.MinRatingScore, domain.MaxRatingScore)
	}
	if raterID == req.RateeID {
		return nil, domain.InvalidRequest("you cannot rate yourself")
	}

	ok, err := s.trips.HasParticipated(ctx, req.TripID, raterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("trip")
		}
		return nil, err
	}
	if !ok {
		return nil, domain.Forbidden("only trip participants can leave ratings")
	}

	ok, err = s.trips.HasParticipated(ctx, req.TripID, req.RateeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.InvalidRequest("the rated user did not take part in this trip")
	}

	r := &domain.Rating{
		TripID:  req.TripID,
		RaterID: raterID,
		RateeID: req.RateeID,
		Score:   req.Score,
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := s.ratings.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflict("you have already rated this user for this trip")
		}
		return nil, err
	}
	s.loggerf("rating_created rating_id=%d trip_id=%d rater_id=%d ratee_id=%d score=%d", r.ID, r.TripID, raterID, r.RateeID, r.Score)
	return r, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) (*UserRatings, error) {
	list, err := s.ratings.ListForRatee(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.AverageFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserRatings{UserID: userID, Average: avg, Count: count, Ratings: list}, nil
}

// AverageFor returns the rounded mean score, or the default profile rating
// when the user has none yet.
func (s *Service) AverageFor(ctx context.Context, userID int64) (float64, int64, error) {
	avg, count, err := s.ratings.Average(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return domain.DefaultProfileRating, 0, nil
	}
	return domain.RoundRating(avg), count, nil
}
