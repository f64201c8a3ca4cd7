package admin

import (
	"context"
	"errors"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

type Service struct {
	userRepo     UserRepository
	tripRepo     TripRepository
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	verification VerificationStats
	loggerf      func(format string, args ...interface{})
}

func NewService(
	userRepo UserRepository,
	tripRepo TripRepository,
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	verification VerificationStats,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		userRepo:     userRepo,
		tripRepo:     tripRepo,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		verification: verification,
		loggerf:      loggerf,
	}
}

// -------------------- Statistics --------------------

func (s *Service) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	users, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	active, total, err := s.tripRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	payments, paid, err := s.paymentRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	verifications, err := s.verification.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	out := &StatisticsResponse{
		Users:                users,
		ActiveTrips:          active,
		TotalTrips:           total,
		Bookings:             bookings,
		Payments:             payments,
		PaymentsTotal:        paid,
		PendingVerifications: verifications.Pending,
	}
	for _, n := range users {
		out.TotalUsers += n
	}
	for _, n := range bookings {
		out.TotalBookings += n
	}
	return out, nil
}

// -------------------- Users moderation --------------------

func (s *Service) ListUsers(ctx context.Context, filter UserListFilter) (*UserListResponse, error) {
	role := domain.UserRole(filter.Role)
	if role != "" && !role.Valid() {
		return nil, domain.InvalidRequest("unknown role %q", filter.Role)
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	users, total, err := s.userRepo.List(ctx, role, filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, err
	}
	return &UserListResponse{Users: users, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// BlockUser disables an account; a blocked user can no longer log in.
// Admin accounts cannot be blocked here.
func (s *Service) BlockUser(ctx context.Context, userID, adminID int64, reason string) (*domain.User, error) {
	return s.setActive(ctx, userID, adminID, false, reason)
}

func (s *Service) UnblockUser(ctx context.Context, userID, adminID int64) (*domain.User, error) {
	return s.setActive(ctx, userID, adminID, true, "")
}

func (s *Service) setActive(ctx context.Context, userID, adminID int64, active bool, reason string) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("user")
		}
		return nil, err
	}
	if u.Role == domain.RoleAdmin {
		return nil, domain.Forbidden("admin accounts cannot be blocked")
	}
	if u.IsActive == active {
		return u, nil
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	u.IsActive = active
	s.loggerf("user_active_changed user_id=%d admin_id=%d active=%t reason=%q", userID, adminID, active, reason)
	return u, nil
}
