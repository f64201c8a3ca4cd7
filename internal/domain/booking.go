package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{BookingPending, BookingApproved, BookingConfirmed, BookingCancelled, BookingCompleted}

func (s BookingStatus) Valid() bool {
	for _, st := range BookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// StatusesInto returns the statuses that may move to next.
func StatusesInto(next BookingStatus) []BookingStatus {
	var out []BookingStatus
	for _, st := range BookingStatuses {
		if st.CanTransitionTo(next) {
			out = append(out, st)
		}
	}
	return out
}

// SeatHoldingStatuses returns the statuses that count against trip capacity.
func SeatHoldingStatuses() []BookingStatus {
	var out []BookingStatus
	for _, st := range BookingStatuses {
		if st.HoldsSeats() {
			out = append(out, st)
		}
	}
	return out
}

// HoldsSeats reports whether a booking in this status counts against trip capacity.
func (s BookingStatus) HoldsSeats() bool {
	return s != BookingCancelled
}

// CanTransitionTo encodes the booking state machine. Completed is reached only
// from confirmed by the departure batch.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingApproved || next == BookingCancelled
	case BookingApproved:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted
	default:
		return false
	}
}

type Booking struct {
	ID          int64         `json:"id"`
	TripID      int64         `json:"trip_id"`
	PassengerID int64         `json:"passenger_id"`
	SeatsBooked int           `json:"seats_booked"`
	Status      BookingStatus `json:"status"`
	TotalPrice  Money         `json:"total_price"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Trip *Trip `json:"trip,omitempty"`
}

// BookingDetails joins a booking with the people on both sides of it.
type BookingDetails struct {
	Booking
	DriverID       int64  `json:"driver_id"`
	DriverName     string `json:"driver_name"`
	DriverPhone    string `json:"driver_phone,omitempty"`
	PassengerName  string `json:"passenger_name"`
	PassengerPhone string `json:"passenger_phone,omitempty"`
	HasPayment     bool   `json:"has_payment"`
}
