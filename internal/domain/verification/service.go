package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/pkg/validator"
	"rideshare/internal/repository"
)

type Notifier interface {
	NotifyVerificationApproved(ctx context.Context, userID int64) error
	NotifyVerificationRejected(ctx context.Context, userID int64, reason string) error
}

type SubmitInput struct {
	FullName    string `json:"full_name" binding:"required,min=3,max=150"`
	NationalID  string `json:"national_id" binding:"required,national_id"`
	PhoneNumber string `json:"phone_number" binding:"required,rw_phone"`
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
	loggerf  func(format string, args ...interface{})
}

func NewService(repo Repository, notifier Notifier, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		loggerf:  loggerf,
	}
}

func validateSubmission(in *SubmitInput) error {
	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if len(in.FullName) < 3 || len(strings.Fields(in.FullName)) < 2 {
		return domain.InvalidRequest("full name must include first and last name")
	}
	if !validator.IsNationalID(in.NationalID) {
		return domain.InvalidRequest("national ID must be exactly 16 digits")
	}
	if !validator.IsPhone(in.PhoneNumber) {
		return domain.InvalidRequest("phone number must be +250 followed by 9 digits")
	}
	return nil
}

// Submit files the driver's identity details for review.
func (s *Service) Submit(ctx context.Context, userID int64, in SubmitInput) (*DriverVerification, error) {
	if err := validateSubmission(&in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != StatusRejected {
		return nil, domain.Conflict("verification is already %s", existing.Status)
	}

	v := existing
	if v == nil {
		v = &DriverVerification{UserID: userID}
	}
	v.FullName = in.FullName
	v.NationalID = in.NationalID
	v.PhoneNumber = in.PhoneNumber
	v.Status = StatusPending
	v.SubmittedAt = s.now()
	v.ReviewedAt = nil
	v.ReviewedBy = nil
	v.RejectionReason = ""

	if existing == nil {
		err = s.repo.Create(ctx, v)
	} else {
		err = s.repo.Save(ctx, v)
	}
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.Conflict("this national ID is already registered")
		}
		return nil, err
	}

	s.loggerf("verification_submitted id=%d user_id=%d", v.ID, userID)
	return v, nil
}

func (s *Service) StatusFor(ctx context.Context, userID int64) (*StatusView, error) {
	v, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return &StatusView{Status: StatusNotSubmitted}, nil
	}
	submitted := v.SubmittedAt
	return &StatusView{
		IsVerified:      v.Status == StatusApproved,
		Status:          v.Status,
		SubmittedAt:     &submitted,
		ReviewedAt:      v.ReviewedAt,
		RejectionReason: v.RejectionReason,
	}, nil
}

func (s *Service) IsVerified(ctx context.Context, userID int64) (bool, error) {
	v, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return v != nil && v.Status == StatusApproved, nil
}

func (s *Service) ListPending(ctx context.Context) ([]DriverVerification, error) {
	return s.repo.List(ctx, StatusPending)
}

func (s *Service) ListAll(ctx context.Context, status Status) ([]DriverVerification, error) {
	return s.repo.List(ctx, status)
}

func (s *Service) Get(ctx context.Context, id int64) (*DriverVerification, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.NotFound("verification")
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) review(ctx context.Context, id, adminID int64, next Status, reason string) (*DriverVerification, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	ok, err := s.repo.Review(ctx, id, next, adminID, reason, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Conflict("verification is already %s", v.Status)
	}
	v.Status = next
	v.ReviewedBy = &adminID
	v.ReviewedAt = &now
	v.RejectionReason = reason
	return v, nil
}

func (s *Service) Approve(ctx context.Context, id, adminID int64) (*DriverVerification, error) {
	v, err := s.review(ctx, id, adminID, StatusApproved, "")
	if err != nil {
		return nil, err
	}
	s.loggerf("verification_approved id=%d user_id=%d admin_id=%d", id, v.UserID, adminID)
	if s.notifier != nil {
		if err := s.notifier.NotifyVerificationApproved(ctx, v.UserID); err != nil {
			s.loggerf("verification_notify_failed id=%d error=%v", id, err)
		}
	}
	return v, nil
}

func (s *Service) Reject(ctx context.Context, id, adminID int64, reason string) (*DriverVerification, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.InvalidRequest("rejection reason is required")
	}
	v, err := s.review(ctx, id, adminID, StatusRejected, reason)
	if err != nil {
		return nil, err
	}
	s.loggerf("verification_rejected id=%d user_id=%d admin_id=%d", id, v.UserID, adminID)
	if s.notifier != nil {
		if err := s.notifier.NotifyVerificationRejected(ctx, v.UserID, reason); err != nil {
			s.loggerf("verification_notify_failed id=%d error=%v", id, err)
		}
	}
	return v, nil
}

// BulkApprove approves each id on its own; one failure does not stop the rest.
func (s *Service) BulkApprove(ctx context.Context, ids []int64, adminID int64) []domain.BulkResult {
	out := make([]domain.BulkResult, 0, len(ids))
	for _, id := range ids {
		if _, err := s.Approve(ctx, id, adminID); err != nil {
			out = append(out, domain.BulkFailed(id, err))
			continue
		}
		out = append(out, domain.BulkOK(id))
	}
	return out
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	st := &Statistics{
		Pending:  counts[StatusPending],
		Approved: counts[StatusApproved],
		Rejected: counts[StatusRejected],
	}
	st.Total = st.Pending + st.Approved + st.Rejected
	return st, nil
}
