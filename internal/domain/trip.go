package domain

import (
	"fmt"
	"time"
)

// MaxSeatPrice caps price_per_seat so seats × price stays far from int64 limits.
var MaxSeatPrice = NewMoney(10_000_000, 0)

type Trip struct {
	ID                int64     `json:"id"`
	DriverID          int64     `json:"driver_id"`
	StartLocationName string    `json:"start_location_name"`
	StartLat          *float64  `json:"start_lat,omitempty"`
	StartLng          *float64  `json:"start_lng,omitempty"`
	DestinationName   string    `json:"destination_name"`
	DestLat           *float64  `json:"dest_lat,omitempty"`
	DestLng           *float64  `json:"dest_lng,omitempty"`
	DepartureTime     time.Time `json:"departure_time"`
	SeatCapacity      int       `json:"seat_capacity"`
	AvailableSeats    int       `json:"available_seats"`
	PricePerSeat      Money     `json:"price_per_seat"`
	IsActive          bool      `json:"is_active"`
	HasAC             bool      `json:"has_ac"`
	AllowsLuggage     bool      `json:"allows_luggage"`
	NoSmoking         bool      `json:"no_smoking"`
	HasMusic          bool      `json:"has_music"`
	AdditionalInfo    string    `json:"additional_info,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TripSummary is the compact view handed to notifications and receipts.
type TripSummary struct {
	TripID        int64     `json:"trip_id"`
	BookingID     int64     `json:"booking_id,omitempty"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	DepartureTime time.Time `json:"departure_time"`
	Seats         int       `json:"seats,omitempty"`
	TotalPrice    Money     `json:"total_price,omitempty"`
}

func (s TripSummary) Route() string {
	return fmt.Sprintf("%s → %s", s.From, s.To)
}

func (t *Trip) Summary() TripSummary {
	return TripSummary{
		TripID:        t.ID,
		From:          t.StartLocationName,
		To:            t.DestinationName,
		DepartureTime: t.DepartureTime,
	}
}

func (t *Trip) HasDeparted(now time.Time) bool {
	return !t.DepartureTime.After(now)
}

// TripListing is a trip row enriched with read-side information.
// BookedSeats is informational only; AvailableSeats stays authoritative.
type TripListing struct {
	Trip
	DriverName   string   `json:"driver_name"`
	DriverPhone  string   `json:"driver_phone,omitempty"`
	DriverRating *float64 `json:"driver_rating"`
	BookedSeats  int      `json:"booked_seats"`
	BookingCount int      `json:"booking_count"`
}

type TripFilter struct {
	From     string
	To       string
	Date     *time.Time
	MinSeats int
	Limit    int
	Offset   int
}
