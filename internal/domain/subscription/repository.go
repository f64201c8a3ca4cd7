package subscription

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("subscription record not found")

// Repository handles persistence for subscription data
type Repository interface {
	// Plans
	ListPlans(ctx context.Context, role string) ([]Plan, error)
	GetPlan(ctx context.Context, id int64) (*Plan, error)
	CheapestPlanFor(ctx context.Context, role string) (*Plan, error)
	CreatePlan(ctx context.Context, p *Plan) error

	// Subscriptions
	GetByUserID(ctx context.Context, userID int64) (*Subscription, error)
	CreateIfAbsent(ctx context.Context, sub *Subscription) error
	Save(ctx context.Context, sub *Subscription) error
	ExpireDue(ctx context.Context, now time.Time) (int64, error)

	// Transactions
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	ListTransactions(ctx context.Context, status TransactionStatus) ([]Transaction, error)
	ReviewTransaction(ctx context.Context, id int64, next TransactionStatus, adminID int64, reason string) (bool, error)

	// WithTx binds the repository to an open transaction.
	WithTx(tx *gorm.DB) Repository
	Transaction(ctx context.Context, fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) ListPlans(ctx context.Context, role string) ([]Plan, error) {
	var plans []Plan
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if role != "" {
		q = q.Where("target_role IN ?", []string{role, TargetAll})
	}
	err := q.Order("price ASC, id ASC").Find(&plans).Error
	return plans, err
}

func (r *gormRepository) GetPlan(ctx context.Context, id int64) (*Plan, error) {
	var plan Plan
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// CheapestPlanFor returns nil when no plan targets the role.
func (r *gormRepository) CheapestPlanFor(ctx context.Context, role string) (*Plan, error) {
	plans, err := r.ListPlans(ctx, role)
	if err != nil || len(plans) == 0 {
		return nil, err
	}
	return &plans[0], nil
}

func (r *gormRepository) CreatePlan(ctx context.Context, p *Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByUserID returns nil, nil when the user has no subscription row yet.
func (r *gormRepository) GetByUserID(ctx context.Context, userID int64) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// CreateIfAbsent inserts sub unless the user already has a row.
func (r *gormRepository) CreateIfAbsent(ctx context.Context, sub *Subscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(sub).Error
}

func (r *gormRepository) Save(ctx context.Context, sub *Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *gormRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	result := r.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("(status = ? AND trial_ends_at < ?) OR (status = ? AND subscription_ends_at IS NOT NULL AND subscription_ends_at < ?)",
			StatusTrial, now, StatusActive, now).
		Updates(map[string]any{
			"status":     StatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *gormRepository) CreateTransaction(ctx context.Context, t *Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *gormRepository) GetTransaction(ctx context.Context, id int64) (*Transaction, error) {
	var t Transaction
	if err := r.db.WithContext(ctx).Preload("Plan").First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *gormRepository) ListTransactions(ctx context.Context, status TransactionStatus) ([]Transaction, error) {
	var out []Transaction
	q := r.db.WithContext(ctx).Preload("Plan")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// ReviewTransaction moves a pending transaction to next. It reports false when
// the row was no longer pending.
func (r *gormRepository) ReviewTransaction(ctx context.Context, id int64, next TransactionStatus, adminID int64, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ? AND status = ?", id, TransactionPending).
		Updates(map[string]any{
			"status":           next,
			"reviewed_by":      adminID,
			"reviewed_at":      time.Now().UTC(),
			"rejection_reason": reason,
		})
	return res.RowsAffected == 1, res.Error
}
