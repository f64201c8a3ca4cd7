package notification

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"rideshare/internal/database"
	"rideshare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPusher struct {
	mu     sync.Mutex
	events map[int64][]*Event
}

func (p *recordingPusher) SendToUser(userID int64, event *Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[int64][]*Event)
	}
	p.events[userID] = append(p.events[userID], event)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory(name)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Notification{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func sampleSummary() domain.TripSummary {
	return domain.TripSummary{
		TripID:        10,
		BookingID:     55,
		From:          "Kigali",
		To:            "Musanze",
		DepartureTime: time.Date(2030, 5, 1, 8, 30, 0, 0, time.UTC),
		Seats:         2,
		TotalPrice:    domain.NewMoney(3000, 0),
	}
}

func TestService_CreateStoresAndPushes(t *testing.T) {
	db := setupTestDB(t)
	pusher := &recordingPusher{}
	svc := NewService(NewRepository(db), pusher)
	ctx := context.Background()

	require.NoError(t, svc.NotifyBookingConfirmed(ctx, 7, sampleSummary()))

	list, unread, err := svc.GetUserNotifications(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, TypeBookingConfirmed, list[0].Type)
	assert.Contains(t, list[0].Message, "Kigali → Musanze")
	assert.Equal(t, float64(55), list[0].Data["booking_id"])
	assert.Equal(t, "3000.00", list[0].Data["total_price"])

	require.Len(t, pusher.events[7], 1)
	assert.Equal(t, EventNotification, pusher.events[7][0].Type)
	assert.Equal(t, int64(1), pusher.events[7][0].UnreadCount)
}

func TestService_MarkAsReadIsScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	require.NoError(t, svc.NotifyWelcome(ctx, 1, "Aline"))
	list, _, err := svc.GetUserNotifications(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = svc.MarkAsRead(ctx, list[0].ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.MarkAsRead(ctx, list[0].ID, 1))
	_, unread, err := svc.GetUserNotifications(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestService_MarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	require.NoError(t, svc.NotifyBookingApproved(ctx, 3, sampleSummary()))
	require.NoError(t, svc.NotifyBookingRejected(ctx, 3, sampleSummary()))
	require.NoError(t, svc.NotifyWelcome(ctx, 4, "Eric"))

	updated, err := svc.MarkAllAsRead(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	_, unread, err := svc.GetUserNotifications(ctx, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestService_CleanupRemovesOnlyOldReadRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -120).UTC()
	rows := []Notification{
		{UserID: 1, Type: TypeWelcome, Title: "old read", IsRead: true, CreatedAt: old},
		{UserID: 1, Type: TypeWelcome, Title: "old unread", IsRead: false, CreatedAt: old},
		{UserID: 1, Type: TypeWelcome, Title: "fresh read", IsRead: true},
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}

	deleted, err := svc.Cleanup(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	list, _, err := svc.GetUserNotifications(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestService_VerificationRejectedCarriesReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	require.NoError(t, svc.NotifyVerificationRejected(ctx, 9, "ID photo is blurry"))

	list, _, err := svc.GetUserNotifications(ctx, 9, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Message, "ID photo is blurry")
	assert.Equal(t, "ID photo is blurry", list[0].Data["reason"])
}
