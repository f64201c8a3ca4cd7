package verification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("verification not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*DriverVerification, error)
	GetByUserID(ctx context.Context, userID int64) (*DriverVerification, error)
	Create(ctx context.Context, v *DriverVerification) error
	Save(ctx context.Context, v *DriverVerification) error
	List(ctx context.Context, status Status) ([]DriverVerification, error)
	Review(ctx context.Context, id int64, next Status, adminID int64, reason string, at time.Time) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*DriverVerification, error) {
	var v DriverVerification
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetByUserID returns nil, nil when the user never submitted.
func (r *gormRepository) GetByUserID(ctx context.Context, userID int64) (*DriverVerification, error) {
	var v DriverVerification
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *gormRepository) Create(ctx context.Context, v *DriverVerification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *gormRepository) Save(ctx context.Context, v *DriverVerification) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *gormRepository) List(ctx context.Context, status Status) ([]DriverVerification, error) {
	var out []DriverVerification
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("submitted_at DESC, id DESC").Find(&out).Error
	return out, err
}

// Review moves a pending verification to next and reports false when it was
// no longer pending.
func (r *gormRepository) Review(ctx context.Context, id int64, next Status, adminID int64, reason string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&DriverVerification{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":           next,
			"reviewed_by":      adminID,
			"reviewed_at":      at,
			"rejection_reason": reason,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *gormRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&DriverVerification{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
