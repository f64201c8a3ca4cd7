package subscription

import (
	"math"
	"time"

	"rideshare/internal/domain"
)

// Status of a subscription
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// TargetAll marks plans offered to every role.
const TargetAll = "all"

// Plan is a priced access window a user can buy.
type Plan struct {
	ID           int64        `gorm:"column:id;primaryKey" json:"id"`
	Name         string       `gorm:"column:name;size:100;not null" json:"name"`
	Price        domain.Money `gorm:"column:price;not null" json:"price"`
	DurationDays int          `gorm:"column:duration_days;not null" json:"duration_days"`
	Description  string       `gorm:"column:description;type:text" json:"description,omitempty"`
	TargetRole   string       `gorm:"column:target_role;size:20;not null;default:all" json:"target_role"`
	IsActive     bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Plan) TableName() string { return "subscription_plans" }

// Subscription is the single access window of a user. A user starts on a
// trial and moves to active once a payment is recorded or approved.
type Subscription struct {
	ID               string       `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID           int64        `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	PlanID           *int64       `gorm:"column:plan_id" json:"plan_id,omitempty"`
	Status           Status       `gorm:"column:status;size:20;not null;index" json:"status"`
	TrialStartedAt   *time.Time   `gorm:"column:trial_started_at" json:"trial_started_at,omitempty"`
	TrialEndsAt      *time.Time   `gorm:"column:trial_ends_at" json:"trial_ends_at,omitempty"`
	StartedAt        *time.Time   `gorm:"column:subscription_started_at" json:"subscription_started_at,omitempty"`
	EndsAt           *time.Time   `gorm:"column:subscription_ends_at" json:"subscription_ends_at,omitempty"`
	AmountPaid       domain.Money `gorm:"column:amount_paid;not null;default:0" json:"amount_paid"`
	PaymentMethod    string       `gorm:"column:payment_method;size:50" json:"payment_method,omitempty"`
	PaymentReference string       `gorm:"column:payment_reference;size:100" json:"payment_reference,omitempty"`
	LastPaymentAt    *time.Time   `gorm:"column:last_payment_at" json:"last_payment_at,omitempty"`
	CreatedAt        time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// IsActiveAt reports whether the window is open at now.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	switch s.Status {
	case StatusTrial:
		return s.TrialEndsAt != nil && now.Before(*s.TrialEndsAt)
	case StatusActive:
		return s.EndsAt == nil || now.Before(*s.EndsAt)
	default:
		return false
	}
}

// endAt is the end of the window that currently applies, nil when open-ended.
func (s *Subscription) endAt() *time.Time {
	if s.Status == StatusTrial {
		return s.TrialEndsAt
	}
	return s.EndsAt
}

// DaysRemainingAt returns whole days left, floored at zero. An open-ended
// active subscription reports -1.
func (s *Subscription) DaysRemainingAt(now time.Time) int {
	if s.Status != StatusTrial && s.Status != StatusActive {
		return 0
	}
	end := s.endAt()
	if end == nil {
		if s.Status == StatusTrial {
			return 0
		}
		return -1
	}
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Floor(left.Hours() / 24))
}

// TransactionStatus tracks the admin review of a submitted payment.
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionApproved TransactionStatus = "approved"
	TransactionRejected TransactionStatus = "rejected"
)

// Transaction is a mobile-money payment a user reports for a plan.
type Transaction struct {
	ID              int64             `gorm:"column:id;primaryKey" json:"id"`
	UserID          int64             `gorm:"column:user_id;not null;index" json:"user_id"`
	PlanID          int64             `gorm:"column:plan_id;not null" json:"plan_id"`
	Amount          domain.Money      `gorm:"column:amount;not null" json:"amount"`
	Reference       string            `gorm:"column:reference;size:50;not null;uniqueIndex" json:"reference"`
	Status          TransactionStatus `gorm:"column:status;size:20;not null;index" json:"status"`
	ReviewedBy      *int64            `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time        `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	RejectionReason string            `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Plan *Plan `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
}

func (Transaction) TableName() string { return "subscription_transactions" }

// Models lists the tables owned by this package.
func Models() []any {
	return []any{&Plan{}, &Subscription{}, &Transaction{}}
}
