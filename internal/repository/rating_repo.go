package repository

import (
	"context"

	"rideshare/internal/domain"

	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rt *domain.Rating) error {
	m := ratingModel{
		TripID:  rt.TripID,
		RaterID: rt.RaterID,
		RateeID: rt.RateeID,
		Score:   rt.Score,
		Comment: strPtr(rt.Comment),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	rt.ID = m.ID
	rt.CreatedAt = m.CreatedAt
	return nil
}

func (r *RatingRepository) ListForRatee(ctx context.Context, rateeID int64) ([]domain.Rating, error) {
	var rows []ratingModel
	err := r.db.WithContext(ctx).
		Preload("Rater").
		Where("ratee_id = ?", rateeID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Rating, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomainRating(&rows[i]))
	}
	return out, nil
}

// Average returns the rounded mean score and how many ratings it covers.
func (r *RatingRepository) Average(ctx context.Context, rateeID int64) (float64, int64, error) {
	var row struct {
		Average float64
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&ratingModel{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS total").
		Where("ratee_id = ?", rateeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return domain.RoundRating(row.Average), row.Total, nil
}
