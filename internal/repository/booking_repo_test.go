package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"rideshare/internal/database"
	"rideshare/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory(name)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedTrip(t *testing.T, db *gorm.DB, seats int) (driverID int64, trip *domain.Trip) {
	t.Helper()
	ctx := context.Background()
	users := NewUserRepository(db)
	driver := &domain.User{Email: "driver@example.com", PasswordHash: "x", FirstName: "Jean", Role: domain.RoleDriver}
	require.NoError(t, users.Create(ctx, driver, &domain.Profile{}))

	trip = &domain.Trip{
		DriverID:          driver.ID,
		StartLocationName: "Kigali",
		DestinationName:   "Huye",
		DepartureTime:     time.Now().UTC().Add(48 * time.Hour),
		SeatCapacity:      seats,
		AvailableSeats:    seats,
		PricePerSeat:      domain.NewMoney(2000, 0),
		IsActive:          true,
	}
	require.NoError(t, NewTripRepository(db).Create(ctx, trip))
	return driver.ID, trip
}

func seedPassenger(t *testing.T, db *gorm.DB, email string) int64 {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "x", FirstName: "Pat", Role: domain.RolePassenger}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u, &domain.Profile{}))
	return u.ID
}

func TestBookingRepository_ReserveChecksCapacityBeforeDuplicates(t *testing.T) {
	db := setupDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	_, trip := seedTrip(t, db, 2)
	p := seedPassenger(t, db, "p@example.com")

	b, err := repo.Reserve(ctx, Reservation{TripID: trip.ID, PassengerID: p, Seats: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.NewMoney(2000, 0), b.TotalPrice)
	require.NotNil(t, b.Trip)
	assert.Equal(t, 1, b.Trip.AvailableSeats)

	// Too many seats and already booked: capacity is reported first.
	_, err = repo.Reserve(ctx, Reservation{TripID: trip.ID, PassengerID: p, Seats: 5})
	var shortage *SeatShortageError
	require.True(t, errors.As(err, &shortage), "got %v", err)
	assert.Equal(t, 1, shortage.Available)
	assert.Equal(t, 5, shortage.Requested)

	_, err = repo.Reserve(ctx, Reservation{TripID: trip.ID, PassengerID: p, Seats: 1})
	var active *ActiveBookingError
	require.True(t, errors.As(err, &active), "got %v", err)
	assert.Equal(t, b.ID, active.BookingID)
	assert.ErrorIs(t, err, ErrActiveBookingExists)

	_, err = repo.Reserve(ctx, Reservation{TripID: 999, PassengerID: p, Seats: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingRepository_ReserveOnInactiveTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	_, trip := seedTrip(t, db, 2)
	p := seedPassenger(t, db, "p@example.com")
	require.NoError(t, NewTripRepository(db).Deactivate(ctx, trip.ID))

	_, err := NewBookingRepository(db).Reserve(ctx, Reservation{TripID: trip.ID, PassengerID: p, Seats: 1})
	assert.ErrorIs(t, err, ErrTripInactive)
}

func TestBookingRepository_ReserveRejectsOverflowingTotal(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	_, trip := seedTrip(t, db, 60)
	p := seedPassenger(t, db, "p@example.com")
	huge := domain.NewMoney(92233720368547757, 0)
	require.NoError(t, db.Model(&tripModel{}).Where("id = ?", trip.ID).Update("price_per_seat", huge).Error)

	_, err := NewBookingRepository(db).Reserve(ctx, Reservation{TripID: trip.ID, PassengerID: p, Seats: 60})
	assert.ErrorIs(t, err, domain.ErrMoneyOverflow)

	got, err := NewTripRepository(db).GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.AvailableSeats)
}

func TestBookingRepository_CancelRefusesToOverfillTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	_, trip := seedTrip(t, db, 2)
	p := seedPassenger(t, db, "p@example.com")

	b, err := repo.Reserve(ctx, Reservation{TripID: trip.ID, PassengerID: p, Seats: 2})
	require.NoError(t, err)

	// Corrupt the counter so a restore would exceed capacity.
	require.NoError(t, db.Model(&tripModel{}).Where("id = ?", trip.ID).Update("available_seats", 1).Error)

	_, err = repo.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrSeatCounterDrift)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, got.Status, "failed cancel must roll back the status flip")
}

func TestBookingRepository_TransitionAndHeldSeats(t *testing.T) {
	db := setupDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	driverID, trip := seedTrip(t, db, 3)
	p := seedPassenger(t, db, "p@example.com")

	b, err := repo.Reserve(ctx, Reservation{TripID: trip.ID, PassengerID: p, Seats: 2})
	require.NoError(t, err)

	_, err = repo.Transition(ctx, b.ID, []domain.BookingStatus{domain.BookingApproved}, domain.BookingConfirmed)
	var status *StatusError
	require.True(t, errors.As(err, &status))
	assert.Equal(t, "pending", status.Current)

	approved, err := repo.Transition(ctx, b.ID, []domain.BookingStatus{domain.BookingPending}, domain.BookingApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingApproved, approved.Status)

	held, err := repo.SeatsHeld(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, held)

	participated, err := repo.HasParticipated(ctx, trip.ID, p)
	require.NoError(t, err)
	assert.False(t, participated, "approval alone is not participation")

	participated, err = repo.HasParticipated(ctx, trip.ID, driverID)
	require.NoError(t, err)
	assert.True(t, participated)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.BookingApproved])
}

// Postgres dialect: the capacity check reads the trip under FOR UPDATE and the
// status flip is a guarded UPDATE whose row count decides the outcome.

func newPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestBookingRepository_Postgres_ReserveLocksTripRow(t *testing.T) {
	db, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "trips" WHERE "trips"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "driver_id", "seat_capacity", "available_seats", "price_per_seat", "is_active"}).
			AddRow(7, 1, 3, 0, int64(200000), true))
	mock.ExpectRollback()

	_, err := NewBookingRepository(db).Reserve(context.Background(), Reservation{TripID: 7, PassengerID: 2, Seats: 1})
	var shortage *SeatShortageError
	require.True(t, errors.As(err, &shortage), "got %v", err)
	assert.Zero(t, shortage.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Postgres_TransitionLostRace(t *testing.T) {
	db, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`) + `.*WHERE id = \$\d+ AND status IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "passenger_id", "seats_booked", "status", "total_price"}).
			AddRow(3, 7, 2, 1, "cancelled", int64(200000)))
	mock.ExpectRollback()

	_, err := NewBookingRepository(db).Transition(context.Background(), 3,
		[]domain.BookingStatus{domain.BookingPending}, domain.BookingApproved)
	var status *StatusError
	require.True(t, errors.As(err, &status), "got %v", err)
	assert.Equal(t, "cancelled", status.Current)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Postgres_CancelLocksTripBeforeBooking(t *testing.T) {
	db, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "?trip_id"? FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"trip_id"}).AddRow(7))
	mock.ExpectQuery(`SELECT .* FROM "trips" WHERE "trips"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE "bookings"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "passenger_id", "seats_booked", "status", "total_price"}).
			AddRow(3, 7, 2, 1, "cancelled", int64(200000)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`) + `.*WHERE id = \$\d+ AND status IN`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := NewBookingRepository(db).Cancel(context.Background(), 3)
	var status *StatusError
	require.True(t, errors.As(err, &status), "got %v", err)
	assert.Equal(t, "cancelled", status.Current)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: bookings.trip_id")))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}
