package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleResolver is implemented by the user repository.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID int64) (domain.UserRole, error)
}

// Notifier is the part of the notification sink this service uses.
type Notifier interface {
	NotifySubscriptionActivated(ctx context.Context, userID int64, endsAt time.Time) error
}

// Settings are the configured trial and pricing defaults.
type Settings struct {
	TrialDays        int
	SubscriptionDays int
	DriverPrice      domain.Money
	PassengerPrice   domain.Money
}

// Service is the subscription gate: it decides whether a user's trial or paid
// window currently allows paid actions.
type Service struct {
	repo     Repository
	roles    RoleResolver
	notifier Notifier
	settings Settings
	now      func() time.Time
	loggerf  func(format string, args ...interface{})
}

func NewService(repo Repository, roles RoleResolver, notifier Notifier, settings Settings, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		repo:     repo,
		roles:    roles,
		notifier: notifier,
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
		loggerf:  loggerf,
	}
}

// StatusView is what a user sees about their access.
type StatusView struct {
	HasAccess     bool            `json:"has_access"`
	DaysRemaining int             `json:"days_remaining"`
	Status        Status          `json:"status"`
	Price         domain.Money    `json:"price"`
	Role          domain.UserRole `json:"role"`
	Subscription  *Subscription   `json:"subscription"`
}

func (s *Service) newTrial(userID int64) *Subscription {
	now := s.now()
	ends := now.AddDate(0, 0, s.settings.TrialDays)
	return &Subscription{
		ID:             uuid.NewString(),
		UserID:         userID,
		Status:         StatusTrial,
		TrialStartedAt: &now,
		TrialEndsAt:    &ends,
	}
}

// StartTrialTx creates the trial row inside an account-creation transaction.
func (s *Service) StartTrialTx(ctx context.Context, tx *gorm.DB, userID int64) (*Subscription, error) {
	sub := s.newTrial(userID)
	if err := s.repo.WithTx(tx).CreateIfAbsent(ctx, sub); err != nil {
		return nil, fmt.Errorf("start trial: %w", err)
	}
	return sub, nil
}

// Ensure returns the user's subscription, creating a trial on first access.
func (s *Service) Ensure(ctx context.Context, userID int64) (*Subscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}

	if err := s.repo.CreateIfAbsent(ctx, s.newTrial(userID)); err != nil {
		return nil, fmt.Errorf("create trial: %w", err)
	}
	sub, err = s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("subscription for user %d missing after create", userID)
	}
	s.loggerf("subscription_trial_started user_id=%d ends_at=%s", userID, sub.TrialEndsAt.Format(time.RFC3339))
	return sub, nil
}

func (s *Service) IsActive(ctx context.Context, userID int64) (bool, error) {
	sub, err := s.Ensure(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsActiveAt(s.now()), nil
}

func (s *Service) DaysRemaining(ctx context.Context, userID int64) (int, error) {
	sub, err := s.Ensure(ctx, userID)
	if err != nil {
		return 0, err
	}
	return sub.DaysRemainingAt(s.now()), nil
}

// PriceFor is the cheapest plan offered to the user's role, or the configured
// default for that role when no plan exists.
func (s *Service) PriceFor(ctx context.Context, userID int64) (domain.Money, error) {
	role, err := s.roles.RoleOf(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.priceForRole(ctx, role)
}

func (s *Service) priceForRole(ctx context.Context, role domain.UserRole) (domain.Money, error) {
	plan, err := s.repo.CheapestPlanFor(ctx, string(role))
	if err != nil {
		return 0, err
	}
	if plan != nil {
		return plan.Price, nil
	}
	if role == domain.RoleDriver {
		return s.settings.DriverPrice, nil
	}
	return s.settings.PassengerPrice, nil
}

// Require returns a SUBSCRIPTION_EXPIRED error carrying remediation data when
// the user's window is closed.
func (s *Service) Require(ctx context.Context, userID int64) error {
	ok, err := s.IsActive(ctx, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	days, err := s.DaysRemaining(ctx, userID)
	if err != nil {
		return err
	}
	price, err := s.PriceFor(ctx, userID)
	if err != nil {
		return err
	}
	return domain.SubscriptionExpired(days, price)
}

func (s *Service) Status(ctx context.Context, userID int64) (*StatusView, error) {
	sub, err := s.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.RoleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	price, err := s.priceForRole(ctx, role)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &StatusView{
		HasAccess:     sub.IsActiveAt(now),
		DaysRemaining: sub.DaysRemainingAt(now),
		Status:        sub.Status,
		Price:         price,
		Role:          role,
		Subscription:  sub,
	}, nil
}

// Pay records a manual mobile-money payment and opens a paid window of the
// configured length from now.
func (s *Service) Pay(ctx context.Context, userID int64, phone, method string) (*Subscription, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, domain.InvalidRequest("phone number is required")
	}
	if method = strings.TrimSpace(method); method == "" {
		method = "mobile_money"
	}

	sub, err := s.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	price, err := s.PriceFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ends := now.AddDate(0, 0, s.settings.SubscriptionDays)
	sub.Status = StatusActive
	sub.StartedAt = &now
	sub.EndsAt = &ends
	sub.AmountPaid = price
	sub.PaymentMethod = method
	sub.PaymentReference = fmt.Sprintf("SUB-%d-%d", userID, now.Unix())
	sub.LastPaymentAt = &now

	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.loggerf("subscription_paid user_id=%d reference=%s ends_at=%s", userID, sub.PaymentReference, ends.Format(time.RFC3339))
	s.notify(ctx, userID, ends)
	return sub, nil
}

// ListPlans returns plans for the user's role plus plans open to everyone.
func (s *Service) ListPlans(ctx context.Context, userID int64) ([]Plan, error) {
	role, err := s.roles.RoleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPlans(ctx, string(role))
}

// SubmitPayment files a pending transaction for admin review.
func (s *Service) SubmitPayment(ctx context.Context, userID, planID int64, reference string) (*Transaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.InvalidRequest("transaction reference is required")
	}
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.NotFound("plan")
		}
		return nil, err
	}

	t := &Transaction{
		UserID:    userID,
		PlanID:    plan.ID,
		Amount:    plan.Price,
		Reference: reference,
		Status:    TransactionPending,
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.Conflict("this transaction reference has already been used")
		}
		return nil, err
	}
	t.Plan = plan
	return t, nil
}

func (s *Service) ListTransactions(ctx context.Context, status TransactionStatus) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, status)
}

// ApproveTransaction marks a pending transaction approved and opens the user's
// paid window for the plan's duration, in one unit.
func (s *Service) ApproveTransaction(ctx context.Context, id, adminID int64) (*Transaction, error) {
	var (
		approved *Transaction
		endsAt   time.Time
	)
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		t, err := repo.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		ok, err := repo.ReviewTransaction(ctx, id, TransactionApproved, adminID, "")
		if err != nil {
			return err
		}
		if !ok {
			return domain.Conflict("transaction is already %s", t.Status)
		}

		days := s.settings.SubscriptionDays
		if t.Plan != nil && t.Plan.DurationDays > 0 {
			days = t.Plan.DurationDays
		}
		now := s.now()
		endsAt = now.AddDate(0, 0, days)

		sub, err := repo.GetByUserID(ctx, t.UserID)
		if err != nil {
			return err
		}
		if sub == nil {
			sub = &Subscription{ID: uuid.NewString(), UserID: t.UserID}
		}
		planID := t.PlanID
		sub.PlanID = &planID
		sub.Status = StatusActive
		sub.StartedAt = &now
		sub.EndsAt = &endsAt
		sub.AmountPaid = t.Amount
		sub.PaymentMethod = "mobile_money"
		sub.PaymentReference = t.Reference
		sub.LastPaymentAt = &now
		if err := repo.Save(ctx, sub); err != nil {
			return err
		}

		t.Status = TransactionApproved
		t.ReviewedBy = &adminID
		t.ReviewedAt = &now
		approved = t
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.NotFound("transaction")
		}
		return nil, err
	}

	s.loggerf("subscription_transaction_approved id=%d user_id=%d admin_id=%d", id, approved.UserID, adminID)
	s.notify(ctx, approved.UserID, endsAt)
	return approved, nil
}

func (s *Service) RejectTransaction(ctx context.Context, id, adminID int64, reason string) (*Transaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.InvalidRequest("rejection reason is required")
	}
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.NotFound("transaction")
		}
		return nil, err
	}
	ok, err := s.repo.ReviewTransaction(ctx, id, TransactionRejected, adminID, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Conflict("transaction is already %s", t.Status)
	}
	now := s.now()
	t.Status = TransactionRejected
	t.ReviewedBy = &adminID
	t.ReviewedAt = &now
	t.RejectionReason = reason
	return t, nil
}

// BulkApproveTransactions approves each id independently.
func (s *Service) BulkApproveTransactions(ctx context.Context, ids []int64, adminID int64) []domain.BulkResult {
	out := make([]domain.BulkResult, 0, len(ids))
	for _, id := range ids {
		if _, err := s.ApproveTransaction(ctx, id, adminID); err != nil {
			out = append(out, domain.BulkFailed(id, err))
			continue
		}
		out = append(out, domain.BulkOK(id))
	}
	return out
}

// ExpireSubscriptions closes trial and paid windows whose end has passed.
func (s *Service) ExpireSubscriptions(ctx context.Context) (int64, error) {
	return s.repo.ExpireDue(ctx, s.now())
}

func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.InvalidRequest("plan name is required")
	}
	if p.Price <= 0 || p.DurationDays <= 0 {
		return domain.InvalidRequest("plan price and duration must be positive")
	}
	if p.TargetRole == "" {
		p.TargetRole = TargetAll
	}
	p.IsActive = true
	return s.repo.CreatePlan(ctx, p)
}

func (s *Service) notify(ctx context.Context, userID int64, endsAt time.Time) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifySubscriptionActivated(ctx, userID, endsAt); err != nil {
		s.loggerf("subscription_notify_failed user_id=%d error=%v", userID, err)
	}
}
