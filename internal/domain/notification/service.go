package notification

import (
	"context"
	"fmt"
	"time"

	"rideshare/internal/domain"
)

// Pusher delivers stored notifications to live clients.
type Pusher interface {
	SendToUser(userID int64, event *Event)
}

type Service struct {
	repo   *Repository
	pusher Pusher
}

// NewService builds the notification sink. pusher may be nil.
func NewService(repo *Repository, pusher Pusher) *Service {
	return &Service{repo: repo, pusher: pusher}
}

func (s *Service) Create(ctx context.Context, userID int64, t Type, title, message string, data map[string]any) error {
	n := &Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if s.pusher != nil {
		unread, err := s.repo.CountUnread(ctx, userID)
		if err != nil {
			unread = 0
		}
		s.pusher.SendToUser(userID, &Event{Type: EventNotification, Notification: n, UnreadCount: unread})
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Cleanup drops read notifications older than daysToKeep.
func (s *Service) Cleanup(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep <= 0 {
		daysToKeep = 90
	}
	return s.repo.DeleteReadBefore(ctx, time.Now().AddDate(0, 0, -daysToKeep))
}

func (s *Service) NotifyWelcome(ctx context.Context, userID int64, firstName string) error {
	return s.Create(
		ctx,
		userID,
		TypeWelcome,
		"Welcome aboard",
		fmt.Sprintf("Hi %s, your free trial has started. Find a ride or publish your first trip.", firstName),
		nil,
	)
}

func (s *Service) NotifyBookingReceived(ctx context.Context, passengerID int64, summary domain.TripSummary) error {
	return s.Create(
		ctx,
		passengerID,
		TypeBookingReceived,
		"Booking request sent",
		fmt.Sprintf("Your request for %d seat(s) on %s is waiting for the driver", summary.Seats, summary.Route()),
		summaryData(summary),
	)
}

func (s *Service) NotifyBookingRequested(ctx context.Context, driverID int64, summary domain.TripSummary, passengerName string) error {
	return s.Create(
		ctx,
		driverID,
		TypeBookingRequested,
		"New booking request",
		fmt.Sprintf("%s requested %d seat(s) on %s", passengerName, summary.Seats, summary.Route()),
		summaryData(summary),
	)
}

func (s *Service) NotifyBookingApproved(ctx context.Context, passengerID int64, summary domain.TripSummary) error {
	return s.Create(
		ctx,
		passengerID,
		TypeBookingApproved,
		"Booking approved",
		fmt.Sprintf("Your booking on %s was approved. Pay %s to confirm your seat.", summary.Route(), summary.TotalPrice.Format()),
		summaryData(summary),
	)
}

func (s *Service) NotifyBookingRejected(ctx context.Context, passengerID int64, summary domain.TripSummary) error {
	return s.Create(
		ctx,
		passengerID,
		TypeBookingRejected,
		"Booking declined",
		fmt.Sprintf("The driver declined your booking on %s", summary.Route()),
		summaryData(summary),
	)
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, passengerID int64, summary domain.TripSummary) error {
	return s.Create(
		ctx,
		passengerID,
		TypeBookingConfirmed,
		"Booking confirmed",
		fmt.Sprintf("Your seat on %s departing %s is confirmed", summary.Route(), summary.DepartureTime.Format("02 Jan 2006 15:04")),
		summaryData(summary),
	)
}

func (s *Service) NotifyPaymentRecorded(ctx context.Context, driverID int64, summary domain.TripSummary, passengerName string) error {
	return s.Create(
		ctx,
		driverID,
		TypePaymentRecorded,
		"Payment received",
		fmt.Sprintf("%s paid %s for %s", passengerName, summary.TotalPrice.Format(), summary.Route()),
		summaryData(summary),
	)
}

func (s *Service) NotifyVerificationApproved(ctx context.Context, userID int64) error {
	return s.Create(
		ctx,
		userID,
		TypeVerificationApproved,
		"Verification approved",
		"Your driver verification was approved",
		nil,
	)
}

func (s *Service) NotifyVerificationRejected(ctx context.Context, userID int64, reason string) error {
	msg := "Your driver verification was rejected"
	if reason != "" {
		msg = msg + ". Reason: " + reason
	}
	return s.Create(
		ctx,
		userID,
		TypeVerificationRejected,
		"Verification rejected",
		msg,
		map[string]any{"reason": reason},
	)
}

func (s *Service) NotifySubscriptionActivated(ctx context.Context, userID int64, endsAt time.Time) error {
	return s.Create(
		ctx,
		userID,
		TypeSubscriptionActivated,
		"Subscription active",
		fmt.Sprintf("Your subscription is active until %s", endsAt.Format("02 Jan 2006")),
		map[string]any{"ends_at": endsAt.UTC().Format(time.RFC3339)},
	)
}

func summaryData(s domain.TripSummary) map[string]any {
	data := map[string]any{
		"trip_id":        s.TripID,
		"route":          s.Route(),
		"departure_time": s.DepartureTime.UTC().Format(time.RFC3339),
		"seats":          s.Seats,
		"total_price":    s.TotalPrice.String(),
	}
	if s.BookingID != 0 {
		data["booking_id"] = s.BookingID
	}
	return data
}
