package booking

type CreateBookingRequest struct {
	TripID      int64 `json:"trip_id" binding:"required,gt=0"`
	SeatsBooked int   `json:"seats_booked" binding:"omitempty,gte=1,lte=60"`
}
