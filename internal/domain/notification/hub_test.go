package notification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SendToUserReachesOnlyThatUser(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := int64(1)
		if r.URL.Query().Get("u") == "2" {
			userID = 2
		}
		_ = hub.Serve(w, r, userID)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	first, _, err := websocket.DefaultDialer.Dial(wsURL+"?u=1", nil)
	require.NoError(t, err)
	defer first.Close()
	second, _, err := websocket.DefaultDialer.Dial(wsURL+"?u=2", nil)
	require.NoError(t, err)
	defer second.Close()

	require.Eventually(t, func() bool {
		return hub.Connected(1) == 1 && hub.Connected(2) == 1
	}, time.Second, 10*time.Millisecond)

	hub.SendToUser(1, &Event{
		Type:         EventNotification,
		Notification: &Notification{ID: 3, UserID: 1, Type: TypeBookingApproved, Title: "Booking approved"},
		UnreadCount:  4,
	})

	var got Event
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, first.ReadJSON(&got))
	assert.Equal(t, EventNotification, got.Type)
	assert.Equal(t, int64(4), got.UnreadCount)
	require.NotNil(t, got.Notification)
	assert.Equal(t, TypeBookingApproved, got.Notification.Type)

	require.NoError(t, second.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = second.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, 5)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connected(5) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Connected(5) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub([]string{"https://app.example.rw"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, 1)
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
