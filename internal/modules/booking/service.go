package booking

import (
	"context"
	"errors"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

const defaultNotifyTimeout = 5 * time.Second

// Service is the booking engine. All seat arithmetic happens inside the
// repository transaction; the service decides who may do what and in which order.
type Service struct {
	bookings      BookingRepository
	trips         TripRepository
	users         UserRepository
	subscriptions SubscriptionGate
	notifs        NotificationSender

	notifyTimeout time.Duration
	dispatch      func(func())
	now           func() time.Time
	loggerf       func(format string, args ...interface{})
}

func NewService(
	bookings BookingRepository,
	trips TripRepository,
	users UserRepository,
	subscriptions SubscriptionGate,
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
		trips:         trips,
		users:         users,
		subscriptions: subscriptions,
		notifs:        notifs,
		notifyTimeout: notifyTimeout,
		dispatch:      func(f func()) { go f() },
		now:           func() time.Time { return time.Now().UTC() },
		loggerf:       loggerf,
	}
}

// RequestBooking reserves seats for a passenger. Checks run in a fixed order:
// trip reference, subscription, trip state, self-booking, then capacity and
// duplicates under the trip lock.
func (s *Service) RequestBooking(ctx context.Context, passengerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.TripID <= 0 {
		return nil, domain.InvalidRequest("trip is required")
	}
	seats := req.SeatsBooked
	if seats == 0 {
		seats = 1
	}
	if seats < 1 {
		return nil, domain.InvalidRequest("at least one seat must be requested")
	}

	if err := s.subscriptions.Require(ctx, passengerID); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, req.TripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("trip")
		}
		return nil, err
	}
	if !trip.IsActive {
		return nil, domain.InvalidRequest("this trip is no longer accepting bookings")
	}
	if trip.HasDeparted(s.now()) {
		return nil, domain.InvalidRequest("this trip has already departed")
	}
	if trip.DriverID == passengerID {
		return nil, domain.InvalidRequest("you cannot book your own trip")
	}

	b, err := s.bookings.Reserve(ctx, repository.Reservation{
		TripID:      trip.ID,
		PassengerID: passengerID,
		Seats:       seats,
	})
	if err != nil {
		return nil, mapRepoError(err, "reserve")
	}

	s.loggerf("booking_created booking_id=%d trip_id=%d passenger_id=%d seats=%d total=%s",
		b.ID, trip.ID, passengerID, seats, b.TotalPrice)

	summary := bookingSummary(trip, b)
	s.notify("booking_requested", b.ID, func(ctx context.Context) error {
		if err := s.notifs.NotifyBookingReceived(ctx, passengerID, summary); err != nil {
			return err
		}
		name := "A passenger"
		if u, err := s.users.GetByID(ctx, passengerID); err == nil {
			name = u.FullName()
		}
		return s.notifs.NotifyBookingRequested(ctx, trip.DriverID, summary, name)
	})
	return b, nil
}

// driverBooking loads a booking and checks that actingUserID drives its trip.
func (s *Service) driverBooking(ctx context.Context, bookingID, actingUserID int64, verb string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("booking")
		}
		return nil, err
	}
	if b.Trip == nil || b.Trip.DriverID != actingUserID {
		return nil, domain.Forbidden("only the trip's driver can %s this booking", verb)
	}
	return b, nil
}

func (s *Service) ApproveBooking(ctx context.Context, bookingID, actingUserID int64) (*domain.Booking, error) {
	b, err := s.driverBooking(ctx, bookingID, actingUserID, "approve")
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(domain.BookingApproved) {
		return nil, statusConflict("approve", b.Status)
	}

	updated, err := s.bookings.Transition(ctx, bookingID, domain.StatusesInto(domain.BookingApproved), domain.BookingApproved)
	if err != nil {
		return nil, mapRepoError(err, "approve")
	}
	updated.Trip = b.Trip

	s.loggerf("booking_approved booking_id=%d driver_id=%d", bookingID, actingUserID)
	summary := bookingSummary(b.Trip, updated)
	s.notify("booking_approved", bookingID, func(ctx context.Context) error {
		return s.notifs.NotifyBookingApproved(ctx, updated.PassengerID, summary)
	})
	return updated, nil
}

// RejectBooking cancels a pending or approved booking on the driver's trip and
// returns its seats. A paid booking cannot be rejected.
func (s *Service) RejectBooking(ctx context.Context, bookingID, actingUserID int64) (*domain.Booking, error) {
	b, err := s.driverBooking(ctx, bookingID, actingUserID, "reject")
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(domain.BookingCancelled) {
		return nil, statusConflict("reject", b.Status)
	}

	updated, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		s.reportDrift(ctx, b, err)
		return nil, mapRepoError(err, "reject")
	}
	updated.Trip = b.Trip

	s.loggerf("booking_rejected booking_id=%d driver_id=%d seats_released=%d", bookingID, actingUserID, updated.SeatsBooked)
	summary := bookingSummary(b.Trip, updated)
	s.notify("booking_rejected", bookingID, func(ctx context.Context) error {
		return s.notifs.NotifyBookingRejected(ctx, updated.PassengerID, summary)
	})
	return updated, nil
}

// CancelBooking lets a passenger withdraw their own unpaid booking.
func (s *Service) CancelBooking(ctx context.Context, bookingID, passengerID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("booking")
		}
		return nil, err
	}
	if b.PassengerID != passengerID {
		return nil, domain.NotFound("booking")
	}
	if !b.Status.CanTransitionTo(domain.BookingCancelled) {
		return nil, statusConflict("cancel", b.Status)
	}

	updated, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		s.reportDrift(ctx, b, err)
		return nil, mapRepoError(err, "cancel")
	}
	updated.Trip = b.Trip
	s.loggerf("booking_cancelled booking_id=%d passenger_id=%d seats_released=%d", bookingID, passengerID, updated.SeatsBooked)
	return updated, nil
}

// reportDrift logs the held-seat total when a seat restore found the trip
// counter already at capacity.
func (s *Service) reportDrift(ctx context.Context, b *domain.Booking, err error) {
	if !errors.Is(err, repository.ErrSeatCounterDrift) {
		return
	}
	held, herr := s.bookings.SeatsHeld(ctx, b.TripID)
	if herr != nil {
		s.loggerf("seat_counter_drift booking_id=%d trip_id=%d seats_held_err=%v", b.ID, b.TripID, herr)
		return
	}
	s.loggerf("seat_counter_drift booking_id=%d trip_id=%d seats_booked=%d seats_held=%d", b.ID, b.TripID, b.SeatsBooked, held)
}

// GetBooking is visible to the passenger and to the trip's driver only.
func (s *Service) GetBooking(ctx context.Context, bookingID, userID int64) (*domain.BookingDetails, error) {
	d, err := s.bookings.GetDetails(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("booking")
		}
		return nil, err
	}
	if d.PassengerID != userID && d.DriverID != userID {
		return nil, domain.NotFound("booking")
	}
	return d, nil
}

func (s *Service) ListMyBookings(ctx context.Context, passengerID int64) ([]domain.BookingDetails, error) {
	return s.bookings.ListByPassenger(ctx, passengerID)
}

func (s *Service) ListIncomingRequests(ctx context.Context, driverID int64, status domain.BookingStatus) ([]domain.BookingDetails, error) {
	if status != "" && !status.Valid() {
		return nil, domain.InvalidRequest("unknown booking status %q", status)
	}
	return s.bookings.ListForDriver(ctx, driverID, status)
}

// CompleteDepartedTrips closes confirmed bookings whose trip has left.
func (s *Service) CompleteDepartedTrips(ctx context.Context) (int64, error) {
	n, err := s.bookings.CompleteDeparted(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.loggerf("bookings_completed count=%d", n)
	}
	return n, nil
}

// notify runs send outside the request. Failures are logged and never
// reach the caller.
func (s *Service) notify(event string, bookingID int64, send func(ctx context.Context) error) {
	if s.notifs == nil {
		return
	}
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.loggerf("notify_failed event=%s booking_id=%d error=%v", event, bookingID, err)
		}
	})
}

func bookingSummary(trip *domain.Trip, b *domain.Booking) domain.TripSummary {
	var summary domain.TripSummary
	if trip != nil {
		summary = trip.Summary()
	}
	summary.BookingID = b.ID
	summary.Seats = b.SeatsBooked
	summary.TotalPrice = b.TotalPrice
	return summary
}
