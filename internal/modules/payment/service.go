package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"

	"github.com/google/uuid"
)

const defaultNotifyTimeout = 5 * time.Second

type Service struct {
	bookings BookingStore
	payments PaymentStore
	users    UserReader
	notifs   NotificationSender

	notifyTimeout time.Duration
	dispatch      func(func())
	now           func() time.Time
	newReference  func() string
	loggerf       func(format string, args ...interface{})
}

func NewService(
	bookings BookingStore,
	payments PaymentStore,
	users UserReader,
	notifs NotificationSender,
	notifyTimeout time.Duration,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &Service{
		bookings:      bookings,
		payments:      payments,
		users:         users,
		notifs:        notifs,
		notifyTimeout: notifyTimeout,
		dispatch:      func(f func()) { go f() },
		now:           func() time.Time { return time.Now().UTC() },
		newReference:  manualReference,
		loggerf:       loggerf,
	}
}

// manualReference builds the external reference for an out-of-band transfer.
func manualReference() string {
	return "MANUAL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// RecordPayment confirms an approved booking against a manual transfer. The
// payment row and the approved → confirmed flip commit together.
func (s *Service) RecordPayment(ctx context.Context, payerID int64, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	if req.BookingID <= 0 {
		return nil, domain.InvalidRequest("booking is required")
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, domain.InvalidRequest("amount must be positive")
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("booking")
		}
		return nil, err
	}
	if b.PassengerID != payerID {
		return nil, domain.NotFound("booking")
	}
	if err := payableStatus(b.Status); err != nil {
		return nil, err
	}

	amount := b.TotalPrice
	if req.Amount != nil {
		amount = *req.Amount
	}
	paidAt := s.now()
	p := &domain.PaymentTransaction{
		Amount:                amount,
		Provider:              domain.ProviderManualTransfer,
		ProviderTransactionID: s.newReference(),
		Status:                domain.PaymentConfirmed,
		PaidAt:                &paidAt,
	}

	confirmed, err := s.bookings.ConfirmWithPayment(ctx, b.ID, p)
	if err != nil {
		return nil, mapConfirmError(err)
	}
	confirmed.Trip = b.Trip

	s.loggerf("payment_recorded payment_id=%d booking_id=%d passenger_id=%d amount=%s ref=%s",
		p.ID, b.ID, payerID, p.Amount, p.ProviderTransactionID)

	result := &RecordPaymentResult{Payment: p, Booking: confirmed}
	var summary domain.TripSummary
	if b.Trip != nil {
		summary = b.Trip.Summary()
		if driver, err := s.users.GetByID(ctx, b.Trip.DriverID); err == nil {
			result.DriverContact.Name = driver.FullName()
			if driver.Profile != nil {
				result.DriverContact.Phone = driver.Profile.PhoneNumber
			}
		}
	}
	summary.BookingID = b.ID
	summary.Seats = b.SeatsBooked
	summary.TotalPrice = p.Amount

	if s.notifs != nil && b.Trip != nil {
		driverID := b.Trip.DriverID
		s.dispatch(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
			defer cancel()
			if err := s.notifs.NotifyBookingConfirmed(ctx, payerID, summary); err != nil {
				s.loggerf("notify_failed event=booking_confirmed booking_id=%d error=%v", b.ID, err)
			}
			name := "A passenger"
			if u, err := s.users.GetByID(ctx, payerID); err == nil {
				name = u.FullName()
			}
			if err := s.notifs.NotifyPaymentRecorded(ctx, driverID, summary, name); err != nil {
				s.loggerf("notify_failed event=payment_recorded booking_id=%d error=%v", b.ID, err)
			}
		})
	}
	return result, nil
}

func payableStatus(status domain.BookingStatus) error {
	if status.CanTransitionTo(domain.BookingConfirmed) {
		return nil
	}
	switch status {
	case domain.BookingPending:
		return domain.Conflict("booking is awaiting driver approval, await approval before paying")
	case domain.BookingCancelled:
		return domain.Conflict("booking is cancelled")
	case domain.BookingConfirmed, domain.BookingCompleted:
		return domain.Conflict("booking is already paid")
	default:
		return domain.Conflict("booking cannot be paid while %s", status)
	}
}

func mapConfirmError(err error) error {
	var status *repository.StatusError
	switch {
	case errors.Is(err, repository.ErrAlreadyPaid):
		return domain.Conflict("booking is already paid")
	case errors.As(err, &status):
		if perr := payableStatus(domain.BookingStatus(status.Current)); perr != nil {
			return perr
		}
		return domain.Conflict("booking status changed, please retry")
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound("booking")
	default:
		return fmt.Errorf("record payment: %w", err)
	}
}

func (s *Service) ListMyPayments(ctx context.Context, passengerID int64) ([]domain.PaymentDetails, error) {
	return s.payments.ListByPassenger(ctx, passengerID)
}

// GetPayment returns a payment visible to its passenger only.
func (s *Service) GetPayment(ctx context.Context, paymentID, passengerID int64) (*domain.PaymentDetails, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	return ownPayment(p, err, passengerID)
}

func (s *Service) GetByBooking(ctx context.Context, bookingID, passengerID int64) (*domain.PaymentDetails, error) {
	p, err := s.payments.GetByBooking(ctx, bookingID)
	return ownPayment(p, err, passengerID)
}

func ownPayment(p *domain.PaymentDetails, err error, passengerID int64) (*domain.PaymentDetails, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("payment")
		}
		return nil, err
	}
	if p.PassengerID != passengerID {
		return nil, domain.NotFound("payment")
	}
	return p, nil
}

func (s *Service) ListAllPayments(ctx context.Context, limit, offset int) ([]domain.PaymentDetails, error) {
	return s.payments.ListAll(ctx, limit, offset)
}

// Receipt renders a PDF receipt for one of the passenger's payments.
func (s *Service) Receipt(ctx context.Context, paymentID, passengerID int64) ([]byte, string, error) {
	p, err := s.GetPayment(ctx, paymentID, passengerID)
	if err != nil {
		return nil, "", err
	}
	data, err := buildReceiptPDF(p, s.now())
	if err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}
	return data, fmt.Sprintf("receipt-%s.pdf", p.ProviderTransactionID), nil
}
