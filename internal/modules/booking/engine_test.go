package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"rideshare/internal/database"
	"rideshare/internal/domain"
	"rideshare/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type engine struct {
	db       *gorm.DB
	svc      *Service
	bookings *repository.BookingRepository
	trips    *repository.TripRepository
	notifs   *recordingNotifier
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory(name)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, repository.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	gate := new(mockGate)
	gate.On("Require", mock.Anything).Return(nil)

	e := &engine{
		db:       db,
		bookings: repository.NewBookingRepository(db),
		trips:    repository.NewTripRepository(db),
		notifs:   &recordingNotifier{},
	}
	e.svc = NewService(e.bookings, e.trips, repository.NewUserRepository(db), gate, e.notifs, time.Second, t.Logf)
	e.svc.dispatch = func(fn func()) { fn() }
	return e
}

func (e *engine) user(t *testing.T, email string, role domain.UserRole) int64 {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "x", FirstName: strings.Split(email, "@")[0], Role: role, IsActive: true}
	require.NoError(t, repository.NewUserRepository(e.db).Create(context.Background(), u, &domain.Profile{}))
	return u.ID
}

func (e *engine) trip(t *testing.T, driverID int64, seats int, price domain.Money) *domain.Trip {
	t.Helper()
	tr := &domain.Trip{
		DriverID:          driverID,
		StartLocationName: "Kigali",
		DestinationName:   "Rubavu",
		DepartureTime:     time.Now().UTC().Add(72 * time.Hour),
		SeatCapacity:      seats,
		AvailableSeats:    seats,
		PricePerSeat:      price,
		IsActive:          true,
		NoSmoking:         true,
	}
	require.NoError(t, e.trips.Create(context.Background(), tr))
	return tr
}

func (e *engine) availableSeats(t *testing.T, tripID int64) int {
	t.Helper()
	tr, err := e.trips.GetByID(context.Background(), tripID)
	require.NoError(t, err)
	return tr.AvailableSeats
}

func (e *engine) pay(t *testing.T, b *domain.Booking) error {
	t.Helper()
	now := time.Now().UTC()
	_, err := e.bookings.ConfirmWithPayment(context.Background(), b.ID, &domain.PaymentTransaction{
		Amount:                b.TotalPrice,
		Provider:              domain.ProviderManualTransfer,
		ProviderTransactionID: fmt.Sprintf("REF-%d", b.ID),
		Status:                domain.PaymentConfirmed,
		PaidAt:                &now,
	})
	return err
}

func TestEngine_RejectReleasesSeatsForOthers(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	p1 := e.user(t, "p1@example.com", domain.RolePassenger)
	p2 := e.user(t, "p2@example.com", domain.RolePassenger)
	trip := e.trip(t, driver, 2, domain.NewMoney(2000, 0))

	b1, err := e.svc.RequestBooking(ctx, p1, CreateBookingRequest{TripID: trip.ID, SeatsBooked: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.NewMoney(4000, 0), b1.TotalPrice)
	assert.Equal(t, 0, e.availableSeats(t, trip.ID))

	_, err = e.svc.RequestBooking(ctx, p2, CreateBookingRequest{TripID: trip.ID, SeatsBooked: 1})
	assert.True(t, domain.IsKind(err, domain.KindCapacityExceeded), "got %v", err)

	rejected, err := e.svc.RejectBooking(ctx, b1.ID, driver)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, rejected.Status)
	assert.Equal(t, 2, e.availableSeats(t, trip.ID))

	b2, err := e.svc.RequestBooking(ctx, p2, CreateBookingRequest{TripID: trip.ID, SeatsBooked: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b2.Status)
	assert.Equal(t, 1, e.availableSeats(t, trip.ID))

	assert.Contains(t, e.notifs.kinds(), "rejected")
}

func TestEngine_RejectTwiceRestoresOnce(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	p := e.user(t, "p@example.com", domain.RolePassenger)
	trip := e.trip(t, driver, 3, domain.NewMoney(1500, 0))

	b, err := e.svc.RequestBooking(ctx, p, CreateBookingRequest{TripID: trip.ID, SeatsBooked: 2})
	require.NoError(t, err)

	_, err = e.svc.RejectBooking(ctx, b.ID, driver)
	require.NoError(t, err)
	_, err = e.svc.RejectBooking(ctx, b.ID, driver)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	assert.Equal(t, 3, e.availableSeats(t, trip.ID))
}

func TestEngine_DuplicateBookingUntilCancelled(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	p := e.user(t, "p@example.com", domain.RolePassenger)
	trip := e.trip(t, driver, 4, domain.NewMoney(1000, 0))

	first, err := e.svc.RequestBooking(ctx, p, CreateBookingRequest{TripID: trip.ID})
	require.NoError(t, err)

	_, err = e.svc.RequestBooking(ctx, p, CreateBookingRequest{TripID: trip.ID})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindDuplicateBooking))
	assert.Equal(t, 3, e.availableSeats(t, trip.ID))

	_, err = e.svc.CancelBooking(ctx, first.ID, p)
	require.NoError(t, err)

	_, err = e.svc.RequestBooking(ctx, p, CreateBookingRequest{TripID: trip.ID, SeatsBooked: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, e.availableSeats(t, trip.ID))
}

func TestEngine_SelfBookingRejected(t *testing.T) {
	e := newEngine(t)
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	trip := e.trip(t, driver, 2, domain.NewMoney(1000, 0))

	_, err := e.svc.RequestBooking(context.Background(), driver, CreateBookingRequest{TripID: trip.ID})
	assert.True(t, domain.IsKind(err, domain.KindInvalidRequest))
	assert.Equal(t, 2, e.availableSeats(t, trip.ID))
}

func TestEngine_TotalPriceFixedAtBookingTime(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	p := e.user(t, "p@example.com", domain.RolePassenger)
	trip := e.trip(t, driver, 3, domain.NewMoney(2500, 0))

	b, err := e.svc.RequestBooking(ctx, p, CreateBookingRequest{TripID: trip.ID, SeatsBooked: 2})
	require.NoError(t, err)

	trip.PricePerSeat = domain.NewMoney(9000, 0)
	require.NoError(t, e.trips.UpdateDetails(ctx, trip))

	details, err := e.svc.GetBooking(ctx, b.ID, p)
	require.NoError(t, err)
	assert.Equal(t, domain.NewMoney(5000, 0), details.TotalPrice)
}

func TestEngine_PaidBookingCannotBeRejectedOrCancelled(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	p := e.user(t, "p@example.com", domain.RolePassenger)
	trip := e.trip(t, driver, 3, domain.NewMoney(2000, 0))

	b, err := e.svc.RequestBooking(ctx, p, CreateBookingRequest{TripID: trip.ID})
	require.NoError(t, err)

	approved, err := e.svc.ApproveBooking(ctx, b.ID, driver)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, approved.Status)

	_, err = e.svc.ApproveBooking(ctx, b.ID, driver)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	require.NoError(t, e.pay(t, approved))
	assert.ErrorIs(t, e.pay(t, approved), repository.ErrAlreadyPaid)

	_, err = e.svc.RejectBooking(ctx, b.ID, driver)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.Contains(t, err.Error(), "cannot reject a paid booking")

	_, err = e.svc.CancelBooking(ctx, b.ID, p)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	assert.Equal(t, 2, e.availableSeats(t, trip.ID))
}

func TestEngine_LastSeatGoesToExactlyOnePassenger(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	trip := e.trip(t, driver, 1, domain.NewMoney(1000, 0))

	const contenders = 8
	passengers := make([]int64, contenders)
	for i := range passengers {
		passengers[i] = e.user(t, fmt.Sprintf("p%d@example.com", i), domain.RolePassenger)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		shortages int
	)
	for _, id := range passengers {
		wg.Add(1)
		go func(passengerID int64) {
			defer wg.Done()
			_, err := e.svc.RequestBooking(ctx, passengerID, CreateBookingRequest{TripID: trip.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case domain.IsKind(err, domain.KindCapacityExceeded):
				shortages++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, contenders-1, shortages)
	assert.Equal(t, 0, e.availableSeats(t, trip.ID))

	held, err := e.bookings.SeatsHeld(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, held)
}

func TestEngine_VisibilityAndListings(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	p := e.user(t, "p@example.com", domain.RolePassenger)
	stranger := e.user(t, "s@example.com", domain.RolePassenger)
	trip := e.trip(t, driver, 3, domain.NewMoney(1000, 0))

	b, err := e.svc.RequestBooking(ctx, p, CreateBookingRequest{TripID: trip.ID})
	require.NoError(t, err)

	d, err := e.svc.GetBooking(ctx, b.ID, driver)
	require.NoError(t, err)
	assert.Equal(t, "p", d.PassengerName)
	assert.Equal(t, driver, d.DriverID)
	assert.False(t, d.HasPayment)

	_, err = e.svc.GetBooking(ctx, b.ID, stranger)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = e.svc.CancelBooking(ctx, b.ID, stranger)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	mine, err := e.svc.ListMyBookings(ctx, p)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	incoming, err := e.svc.ListIncomingRequests(ctx, driver, domain.BookingPending)
	require.NoError(t, err)
	assert.Len(t, incoming, 1)

	none, err := e.svc.ListIncomingRequests(ctx, driver, domain.BookingApproved)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEngine_CompleteDepartedTrips(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	driver := e.user(t, "driver@example.com", domain.RoleDriver)
	paid := e.user(t, "paid@example.com", domain.RolePassenger)
	unpaid := e.user(t, "unpaid@example.com", domain.RolePassenger)
	trip := e.trip(t, driver, 3, domain.NewMoney(1000, 0))

	b, err := e.svc.RequestBooking(ctx, paid, CreateBookingRequest{TripID: trip.ID})
	require.NoError(t, err)
	approved, err := e.svc.ApproveBooking(ctx, b.ID, driver)
	require.NoError(t, err)
	require.NoError(t, e.pay(t, approved))

	_, err = e.svc.RequestBooking(ctx, unpaid, CreateBookingRequest{TripID: trip.ID})
	require.NoError(t, err)

	n, err := e.svc.CompleteDepartedTrips(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	e.svc.now = func() time.Time { return trip.DepartureTime.Add(time.Hour) }
	n, err = e.svc.CompleteDepartedTrips(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	d, err := e.svc.GetBooking(ctx, b.ID, paid)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, d.Status)
	assert.True(t, d.HasPayment)
}
