package verification

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// StatusNotSubmitted is reported for drivers without a verification row.
const StatusNotSubmitted Status = "not_submitted"

// DriverVerification is a driver's identity submission. A user has at most
// one; a rejected submission is overwritten when the driver submits again.
type DriverVerification struct {
	ID              int64      `gorm:"column:id;primaryKey" json:"id"`
	UserID          int64      `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	FullName        string     `gorm:"column:full_name;size:150;not null" json:"full_name"`
	NationalID      string     `gorm:"column:national_id;size:16;not null;uniqueIndex" json:"national_id"`
	PhoneNumber     string     `gorm:"column:phone_number;size:13;not null" json:"phone_number"`
	Status          Status     `gorm:"column:status;size:20;not null;index" json:"status"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at;not null" json:"submitted_at"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy      *int64     `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DriverVerification) TableName() string { return "driver_verifications" }

// StatusView is what a driver sees about their own verification.
type StatusView struct {
	IsVerified      bool       `json:"is_verified"`
	Status          Status     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

type Statistics struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
