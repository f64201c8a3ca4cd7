package admin

import "rideshare/internal/domain"

type StatisticsResponse struct {
	Users                map[domain.UserRole]int64      `json:"users"`
	TotalUsers           int64                          `json:"total_users"`
	ActiveTrips          int64                          `json:"active_trips"`
	TotalTrips           int64                          `json:"total_trips"`
	Bookings             map[domain.BookingStatus]int64 `json:"bookings"`
	TotalBookings        int64                          `json:"total_bookings"`
	Payments             int64                          `json:"payments"`
	PaymentsTotal        domain.Money                   `json:"payments_total"`
	PendingVerifications int64                          `json:"pending_verifications"`
}

type UserListFilter struct {
	Role  string `form:"role"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type UserListResponse struct {
	Users []domain.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type BlockUserRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
