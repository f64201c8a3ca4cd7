package trip

import (
	"time"

	"rideshare/internal/domain"
)

type CreateTripRequest struct {
	StartLocationName string       `json:"start_location_name" binding:"required,max=255"`
	StartLat          *float64     `json:"start_lat" binding:"omitempty,gte=-90,lte=90"`
	StartLng          *float64     `json:"start_lng" binding:"omitempty,gte=-180,lte=180"`
	DestinationName   string       `json:"destination_name" binding:"required,max=255"`
	DestLat           *float64     `json:"dest_lat" binding:"omitempty,gte=-90,lte=90"`
	DestLng           *float64     `json:"dest_lng" binding:"omitempty,gte=-180,lte=180"`
	DepartureTime     time.Time    `json:"departure_time" binding:"required"`
	AvailableSeats    int          `json:"available_seats" binding:"required,gte=1,lte=60"`
	PricePerSeat      domain.Money `json:"price_per_seat" binding:"required"`
	HasAC             bool         `json:"has_ac"`
	AllowsLuggage     bool         `json:"allows_luggage"`
	NoSmoking         *bool        `json:"no_smoking"`
	HasMusic          bool         `json:"has_music"`
	AdditionalInfo    string       `json:"additional_info" binding:"max=2000"`
}

// UpdateTripRequest carries only descriptive fields; seat counts are not editable.
type UpdateTripRequest struct {
	StartLocationName *string       `json:"start_location_name" binding:"omitempty,max=255"`
	StartLat          *float64      `json:"start_lat"`
	StartLng          *float64      `json:"start_lng"`
	DestinationName   *string       `json:"destination_name" binding:"omitempty,max=255"`
	DestLat           *float64      `json:"dest_lat"`
	DestLng           *float64      `json:"dest_lng"`
	DepartureTime     *time.Time    `json:"departure_time"`
	PricePerSeat      *domain.Money `json:"price_per_seat"`
	HasAC             *bool         `json:"has_ac"`
	AllowsLuggage     *bool         `json:"allows_luggage"`
	NoSmoking         *bool         `json:"no_smoking"`
	HasMusic          *bool         `json:"has_music"`
	AdditionalInfo    *string       `json:"additional_info" binding:"omitempty,max=2000"`
}
