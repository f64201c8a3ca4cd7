package payment

import "rideshare/internal/domain"

// RecordPaymentRequest confirms a manual transfer. Amount defaults to the
// booking's total price.
type RecordPaymentRequest struct {
	BookingID int64         `json:"booking_id" binding:"required,gt=0" example:"12"`
	Amount    *domain.Money `json:"amount,omitempty" swaggertype:"string" example:"3000.00"`
}

type DriverContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type RecordPaymentResult struct {
	Payment       *domain.PaymentTransaction `json:"payment"`
	Booking       *domain.Booking            `json:"booking"`
	DriverContact DriverContact              `json:"driver_contact"`
}
