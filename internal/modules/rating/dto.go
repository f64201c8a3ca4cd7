package rating

import "rideshare/internal/domain"

type CreateRatingRequest struct {
	TripID  int64  `json:"trip_id" binding:"required,gt=0"`
	RateeID int64  `json:"ratee_id" binding:"required,gt=0"`
	Score   int    `json:"score" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty" binding:"max=1000"`
}

// UserRatings is what GET /users/:id/ratings returns.
type UserRatings struct {
	UserID  int64           `json:"user_id"`
	Average float64         `json:"average"`
	Count   int64           `json:"count"`
	Ratings []domain.Rating `json:"ratings"`
}
