package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rideshare/internal/config"
	"rideshare/internal/database"
	"rideshare/internal/domain"
	"rideshare/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	app *App
	db  *gorm.DB
}

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory(name)
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, database.Migrate(db, Models()...), "Failed to migrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		AppEnv:                     "test",
		JWTSecret:                  "test-secret",
		JWTAccessTTL:               time.Hour,
		TrialDays:                  30,
		SubscriptionDays:           30,
		DriverSubscriptionPrice:    domain.NewMoney(10000, 0),
		PassengerSubscriptionPrice: domain.NewMoney(5000, 0),
		NotifyTimeout:              time.Second,
		CORSAllowedOrigins:         []string{"http://localhost:3000"},
	}
	return &E2ETestSuite{app: New(cfg, db), db: db}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return &resp
}

func (s *E2ETestSuite) register(t *testing.T, body gin.H) (int64, string) {
	t.Helper()
	w := s.makeRequest(http.MethodPost, "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		User  domain.User `json:"user"`
		Token string      `json:"access_token"`
	}
	parseResponse(t, w, &out)
	require.NotEmpty(t, out.Token)
	return out.User.ID, out.Token
}

func (s *E2ETestSuite) adminToken(t *testing.T) string {
	t.Helper()
	u := &domain.User{Email: "admin@example.com", PasswordHash: "x", FirstName: "Admin", Role: domain.RoleAdmin}
	require.NoError(t, repository.NewUserRepository(s.db).Create(context.Background(), u, &domain.Profile{}))
	token, err := s.app.JWT.GenerateToken(u.ID, string(domain.RoleAdmin))
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) createTrip(t *testing.T, token string, seats int, price string) domain.Trip {
	t.Helper()
	w := s.makeRequest(http.MethodPost, "/api/v1/trips", gin.H{
		"start_location_name": "Kigali",
		"destination_name":    "Rubavu",
		"departure_time":      time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339),
		"available_seats":     seats,
		"price_per_seat":      price,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var trip domain.Trip
	parseResponse(t, w, &trip)
	return trip
}

func TestFlow1_RegistrationAndAuth(t *testing.T) {
	s := setupTestSuite(t)

	_, token := s.register(t, gin.H{
		"email": "aline@example.com", "password": "secret123", "first_name": "Aline", "last_name": "Uwase",
	})

	w := s.makeRequest(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "aline@example.com", "password": "secret123", "first_name": "Aline",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.makeRequest(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "aline@example.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.makeRequest(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "aline@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var me domain.User
	parseResponse(t, w, &me)
	assert.Equal(t, domain.RolePassenger, me.Role)

	w = s.makeRequest(http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.makeRequest(http.MethodPost, "/api/v1/trips", gin.H{
		"start_location_name": "Kigali", "destination_name": "Huye",
		"departure_time": time.Now().Add(time.Hour).Format(time.RFC3339), "available_seats": 2, "price_per_seat": "1000",
	}, token)
	assert.Equal(t, http.StatusForbidden, w.Code, "passengers cannot offer trips")
}

func TestFlow2_BookingPaymentAndRating(t *testing.T) {
	s := setupTestSuite(t)

	driverID, driverToken := s.register(t, gin.H{
		"email": "eric@example.com", "password": "secret123", "first_name": "Eric", "role": "driver",
		"phone_number": "+250788000111", "vehicle_plate_number": "RAB 123 C", "vehicle_seats": 4,
	})
	_, p1Token := s.register(t, gin.H{"email": "p1@example.com", "password": "secret123", "first_name": "Pascal"})
	_, p2Token := s.register(t, gin.H{"email": "p2@example.com", "password": "secret123", "first_name": "Grace"})

	trip := s.createTrip(t, driverToken, 2, "1500.00")
	assert.Equal(t, 2, trip.AvailableSeats)

	w := s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/trips/%d", trip.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// p1 takes both seats, p2 is turned away
	w = s.makeRequest(http.MethodPost, "/api/v1/bookings", gin.H{"trip_id": trip.ID, "seats_booked": 2}, p1Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first domain.Booking
	parseResponse(t, w, &first)
	assert.Equal(t, domain.NewMoney(3000, 0), first.TotalPrice)

	w = s.makeRequest(http.MethodPost, "/api/v1/bookings", gin.H{"trip_id": trip.ID}, p2Token)
	require.Equal(t, http.StatusConflict, w.Code)
	resp := parseResponse(t, w, nil)
	assert.Equal(t, "CAPACITY_EXCEEDED", resp.Error.Code)

	// rejecting p1 frees the seats
	w = s.makeRequest(http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/reject", first.ID), nil, driverToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodPost, "/api/v1/bookings", gin.H{"trip_id": trip.ID}, p2Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var second domain.Booking
	parseResponse(t, w, &second)

	// paying before approval is refused
	w = s.makeRequest(http.MethodPost, "/api/v1/payments", gin.H{"booking_id": second.ID}, p2Token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.makeRequest(http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/approve", second.ID), nil, driverToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodPost, "/api/v1/payments", gin.H{"booking_id": second.ID}, p1Token)
	assert.Equal(t, http.StatusNotFound, w.Code, "only the booking's passenger can pay")

	w = s.makeRequest(http.MethodPost, "/api/v1/payments", gin.H{"booking_id": second.ID}, p2Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var paid struct {
		Payment       domain.PaymentTransaction `json:"payment"`
		Booking       domain.Booking            `json:"booking"`
		DriverContact struct {
			Phone string `json:"phone"`
		} `json:"driver_contact"`
	}
	parseResponse(t, w, &paid)
	assert.Equal(t, domain.BookingConfirmed, paid.Booking.Status)
	assert.Equal(t, domain.NewMoney(1500, 0), paid.Payment.Amount)
	assert.Equal(t, "+250788000111", paid.DriverContact.Phone)

	w = s.makeRequest(http.MethodPost, "/api/v1/payments", gin.H{"booking_id": second.ID}, p2Token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/payments/%d/receipt", paid.Payment.ID), nil, p2Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// confirmed bookings cannot be rejected any more
	w = s.makeRequest(http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/reject", second.ID), nil, driverToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.makeRequest(http.MethodPost, "/api/v1/ratings", gin.H{"trip_id": trip.ID, "ratee_id": driverID, "score": 5}, p2Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodPost, "/api/v1/ratings", gin.H{"trip_id": trip.ID, "ratee_id": driverID, "score": 1}, p1Token)
	assert.Equal(t, http.StatusForbidden, w.Code, "a rejected passenger did not ride")

	w = s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/ratings", driverID), nil, p1Token)
	require.Equal(t, http.StatusOK, w.Code)
	var ratings struct {
		Average float64 `json:"average"`
		Count   int64   `json:"count"`
	}
	parseResponse(t, w, &ratings)
	assert.Equal(t, 5.0, ratings.Average)
	assert.Equal(t, int64(1), ratings.Count)

	w = s.makeRequest(http.MethodGet, "/api/v1/notifications", nil, driverToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFlow3_AdminOperations(t *testing.T) {
	s := setupTestSuite(t)

	driverID, driverToken := s.register(t, gin.H{
		"email": "driver@example.com", "password": "secret123", "first_name": "Jean", "role": "driver",
	})
	_, passengerToken := s.register(t, gin.H{"email": "rider@example.com", "password": "secret123", "first_name": "Rider"})
	s.createTrip(t, driverToken, 3, "2000")
	admin := s.adminToken(t)

	w := s.makeRequest(http.MethodGet, "/api/v1/admin/stats", nil, passengerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/admin/stats", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats struct {
		TotalUsers  int64 `json:"total_users"`
		ActiveTrips int64 `json:"active_trips"`
	}
	parseResponse(t, w, &stats)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveTrips)

	w = s.makeRequest(http.MethodGet, "/api/v1/admin/users?role=driver", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/block", driverID), gin.H{"reason": "spam"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "driver@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCOUNT_DISABLED", parseResponse(t, w, nil).Error.Code)

	w = s.makeRequest(http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/unblock", driverID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/admin/verifications/stats", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/admin/payments", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	s := setupTestSuite(t)
	w := s.makeRequest(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/payments"`)
}
