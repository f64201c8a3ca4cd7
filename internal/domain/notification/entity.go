package notification

import (
	"encoding/json"
	"time"
)

// Type represents notification type
type Type string

const (
	TypeWelcome Type = "welcome"

	// Booking notifications
	TypeBookingReceived  Type = "booking_received"  // Passenger: request filed, awaiting the driver
	TypeBookingRequested Type = "booking_requested" // Driver: a passenger asked for seats
	TypeBookingApproved  Type = "booking_approved"  // Passenger: driver accepted, payment expected
	TypeBookingRejected  Type = "booking_rejected"  // Passenger: driver declined, seats released
	TypeBookingConfirmed Type = "booking_confirmed" // Passenger: payment recorded, seat is final
	TypePaymentRecorded  Type = "payment_recorded"  // Driver: passenger reported a transfer

	// Verification notifications
	TypeVerificationApproved Type = "verification_approved"
	TypeVerificationRejected Type = "verification_rejected"

	TypeSubscriptionActivated Type = "subscription_activated"
)

// Notification represents a user notification
type Notification struct {
	ID        int64          `gorm:"primaryKey;column:id" json:"id"`
	UserID    int64          `gorm:"column:user_id;not null;index:idx_notifications_user_unread" json:"user_id"`
	Type      Type           `gorm:"column:type;size:50;not null" json:"type"`
	Title     string         `gorm:"column:title;size:255;not null" json:"title"`
	Message   string         `gorm:"column:message;type:text" json:"message"`
	RawData   string         `gorm:"column:data;type:text" json:"-"`
	Data      map[string]any `gorm:"-" json:"data,omitempty"`
	IsRead    bool           `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_unread" json:"is_read"`
	ReadAt    *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName specifies table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) encodeData() error {
	if len(n.Data) == 0 {
		n.RawData = ""
		return nil
	}
	b, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}
	n.RawData = string(b)
	return nil
}

func (n *Notification) decodeData() {
	if n.RawData == "" {
		return
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(n.RawData), &data); err == nil {
		n.Data = data
	}
}

// Event is the frame pushed over the websocket when a notification is stored.
type Event struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
	UnreadCount  int64         `json:"unread_count"`
}

const EventNotification = "notification"
