package domain

import (
	"math"
	"time"
)

// Rating is a score one trip participant gives another.
type Rating struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	RaterID   int64     `json:"rater_id"`
	RateeID   int64     `json:"ratee_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	RaterName string `json:"rater_name,omitempty"`
}

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// RoundRating rounds an average score to one decimal.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
