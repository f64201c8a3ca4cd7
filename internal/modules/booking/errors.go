package booking

import (
	"errors"
	"fmt"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// mapRepoError turns repository sentinels into typed domain errors for the
// given action ("reserve", "approve", "reject", "cancel"). Anything
// unrecognised stays opaque.
func mapRepoError(err error, action string) error {
	var (
		shortage *repository.SeatShortageError
		active   *repository.ActiveBookingError
		status   *repository.StatusError
	)
	switch {
	case errors.As(err, &shortage):
		return domain.CapacityExceeded(shortage.Available, shortage.Requested)
	case errors.As(err, &active):
		return domain.DuplicateBooking(active.BookingID)
	case errors.Is(err, repository.ErrActiveBookingExists):
		return domain.DuplicateBooking(0)
	case errors.Is(err, domain.ErrMoneyOverflow):
		return domain.InvalidRequest("total price is out of range")
	case errors.Is(err, repository.ErrTripInactive):
		return domain.InvalidRequest("this trip is no longer accepting bookings")
	case errors.As(err, &status):
		return statusConflict(action, domain.BookingStatus(status.Current))
	case errors.Is(err, repository.ErrNotFound):
		if action == "reserve" {
			return domain.NotFound("trip")
		}
		return domain.NotFound("booking")
	default:
		return fmt.Errorf("%s booking: %w", action, err)
	}
}

func statusConflict(action string, current domain.BookingStatus) error {
	if action != "approve" && (current == domain.BookingConfirmed || current == domain.BookingCompleted) {
		return domain.Conflict("cannot %s a paid booking", action)
	}
	return domain.Conflict("booking is already %s", current)
}
