package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
)

// ProviderManualTransfer marks payments settled out of band between passenger and driver.
const ProviderManualTransfer = "mobile_money_transfer"

// PaymentTransaction is written once per booking; only Status and PaidAt change afterwards.
type PaymentTransaction struct {
	ID                    int64         `json:"id"`
	BookingID             int64         `json:"booking_id"`
	Amount                Money         `json:"amount"`
	Provider              string        `json:"provider"`
	ProviderTransactionID string        `json:"provider_transaction_id"`
	Status                PaymentStatus `json:"status"`
	CreatedAt             time.Time     `json:"created_at"`
	PaidAt                *time.Time    `json:"paid_at,omitempty"`
}

// PaymentDetails is a payment with the booking context a passenger sees.
type PaymentDetails struct {
	PaymentTransaction
	PassengerID   int64     `json:"passenger_id"`
	PassengerName string    `json:"passenger_name"`
	TripID        int64     `json:"trip_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	DepartureTime time.Time `json:"departure_time"`
	SeatsBooked   int       `json:"seats_booked"`
	DriverName    string    `json:"driver_name"`
	DriverPhone   string    `json:"driver_phone,omitempty"`
}
