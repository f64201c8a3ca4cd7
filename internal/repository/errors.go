package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrTripInactive        = errors.New("trip is not active")
	ErrInsufficientSeats   = errors.New("insufficient seats")
	ErrActiveBookingExists = errors.New("active booking already exists for passenger")
	ErrStatusChanged       = errors.New("booking status no longer allows this transition")
	ErrAlreadyPaid         = errors.New("booking already has a payment")
	ErrSeatCounterDrift    = errors.New("seat restoration would exceed trip capacity")
	ErrDuplicate           = errors.New("duplicate record")
)

// SeatShortageError reports the seat counter observed under lock.
type SeatShortageError struct {
	Available int
	Requested int
}

func (e *SeatShortageError) Error() string {
	return fmt.Sprintf("%s: available=%d requested=%d", ErrInsufficientSeats, e.Available, e.Requested)
}

func (e *SeatShortageError) Unwrap() error { return ErrInsufficientSeats }

// ActiveBookingError points at the booking that blocks a new one.
type ActiveBookingError struct {
	BookingID int64
}

func (e *ActiveBookingError) Error() string {
	return fmt.Sprintf("%s: booking_id=%d", ErrActiveBookingExists, e.BookingID)
}

func (e *ActiveBookingError) Unwrap() error { return ErrActiveBookingExists }

// StatusError carries the status found when a conditional transition did not apply.
type StatusError struct {
	Current string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: current=%s", ErrStatusChanged, e.Current)
}

func (e *StatusError) Unwrap() error { return ErrStatusChanged }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// IsUniqueViolation recognises unique-index failures from Postgres and SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
