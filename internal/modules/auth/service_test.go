package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rideshare/internal/database"
	"rideshare/internal/domain"
	"rideshare/internal/domain/subscription"
	"rideshare/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) TTL() time.Duration { return 24 * time.Hour }

type mockRatings struct {
	mock.Mock
}

func (m *mockRatings) Average(ctx context.Context, rateeID int64) (float64, int64, error) {
	args := m.Called(ctx, rateeID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type mockWelcome struct {
	mock.Mock
}

func (m *mockWelcome) NotifyWelcome(ctx context.Context, userID int64, firstName string) error {
	args := m.Called(userID, firstName)
	return args.Error(0)
}

type failingTrials struct{}

func (failingTrials) StartTrialTx(context.Context, *gorm.DB, int64) (*subscription.Subscription, error) {
	return nil, errors.New("subscriptions table unavailable")
}

type fixture struct {
	svc     *Service
	db      *gorm.DB
	jwt     *mockJWTService
	ratings *mockRatings
	welcome *mockWelcome
}

func setup(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory(name)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(repository.Models(), subscription.Models()...)...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	users := repository.NewUserRepository(db)
	subs := subscription.NewService(subscription.NewRepository(db), users, nil, subscription.Settings{
		TrialDays:        30,
		SubscriptionDays: 30,
		DriverPrice:      domain.NewMoney(10000, 0),
		PassengerPrice:   domain.NewMoney(5000, 0),
	}, nil)

	f := &fixture{db: db, jwt: new(mockJWTService), ratings: new(mockRatings), welcome: new(mockWelcome)}
	f.svc = NewService(users, subs, f.ratings, f.welcome, f.jwt, t.Logf)
	f.svc.dispatch = func(fn func()) { fn() }
	return f
}

func driverRequest() RegisterRequest {
	return RegisterRequest{
		Email:        "Driver@Example.com",
		Password:     "secret123",
		FirstName:    "Eric",
		LastName:     "Mugisha",
		Role:         "driver",
		PhoneNumber:  "+250788111222",
		VehicleModel: "Toyota Corolla",
		VehiclePlate: "rab 123 c",
		VehicleSeats: 4,
	}
}

func TestService_Register_CreatesAccountProfileAndTrial(t *testing.T) {
	f := setup(t)
	f.jwt.On("GenerateToken", mock.Anything, "driver").Return("fake-jwt-token", nil)
	f.welcome.On("NotifyWelcome", mock.Anything, "Eric").Return(nil)

	result, err := f.svc.Register(context.Background(), driverRequest())
	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", result.Token)
	assert.Equal(t, int64(86400), result.ExpiresIn)
	assert.Equal(t, "driver@example.com", result.User.Email)
	assert.Empty(t, result.User.PasswordHash)
	require.NotNil(t, result.User.Profile)
	assert.Equal(t, "RAB 123 C", result.User.Profile.VehiclePlate)

	var sub subscription.Subscription
	require.NoError(t, f.db.Where("user_id = ?", result.User.ID).First(&sub).Error)
	assert.Equal(t, subscription.StatusTrial, sub.Status)
	require.NotNil(t, sub.TrialEndsAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *sub.TrialEndsAt, time.Minute)

	f.welcome.AssertCalled(t, "NotifyWelcome", result.User.ID, "Eric")
	f.jwt.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	f := setup(t)
	f.jwt.On("GenerateToken", mock.Anything, mock.Anything).Return("tok", nil)
	f.welcome.On("NotifyWelcome", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Register(context.Background(), driverRequest())
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), driverRequest())
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestService_Register_Validation(t *testing.T) {
	f := setup(t)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"admin role", func(r *RegisterRequest) { r.Role = "admin" }},
		{"bad phone", func(r *RegisterRequest) { r.PhoneNumber = "0788111222" }},
		{"bad plate", func(r *RegisterRequest) { r.VehiclePlate = "KCA 123A" }},
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := driverRequest()
			tc.mutate(&req)
			_, err := f.svc.Register(context.Background(), req)
			assert.True(t, domain.IsKind(err, domain.KindInvalidRequest), "got %v", err)
		})
	}
	f.welcome.AssertNotCalled(t, "NotifyWelcome", mock.Anything, mock.Anything)
}

func TestService_Register_RollsBackWhenTrialFails(t *testing.T) {
	f := setup(t)
	f.svc.trials = failingTrials{}

	_, err := f.svc.Register(context.Background(), driverRequest())
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	exists, err := repository.NewUserRepository(f.db).ExistsByEmail(context.Background(), "driver@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	f.welcome.AssertNotCalled(t, "NotifyWelcome", mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	f := setup(t)
	f.jwt.On("GenerateToken", mock.Anything, "passenger").Return("tok", nil)
	f.welcome.On("NotifyWelcome", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email: "p@example.com", Password: "password1", FirstName: "Aline",
	})
	require.NoError(t, err)

	result, err := f.svc.Login(context.Background(), LoginRequest{Email: " P@example.com ", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RolePassenger, result.User.Role)

	_, err = f.svc.Login(context.Background(), LoginRequest{Email: "p@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_MeAndUpdateProfile(t *testing.T) {
	f := setup(t)
	f.jwt.On("GenerateToken", mock.Anything, mock.Anything).Return("tok", nil)
	f.welcome.On("NotifyWelcome", mock.Anything, mock.Anything).Return(nil)

	reg, err := f.svc.Register(context.Background(), driverRequest())
	require.NoError(t, err)
	id := reg.User.ID

	f.ratings.On("Average", mock.Anything, id).Return(0.0, int64(0), nil).Once()
	me, err := f.svc.Me(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfileRating, me.Profile.Rating)

	f.ratings.On("Average", mock.Anything, id).Return(4.26, int64(3), nil)
	bio := "  Daily Kigali-Huye runs "
	seats := 6
	empty := ""
	updated, err := f.svc.UpdateProfile(context.Background(), id, UpdateProfileRequest{
		Bio:          &bio,
		VehicleSeats: &seats,
		PhoneNumber:  &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "Daily Kigali-Huye runs", updated.Profile.Bio)
	assert.Equal(t, 6, updated.Profile.VehicleSeats)
	assert.Empty(t, updated.Profile.PhoneNumber)
	assert.Equal(t, "RAB 123 C", updated.Profile.VehiclePlate)
	assert.Equal(t, 4.3, updated.Profile.Rating)

	bad := "KA 1"
	_, err = f.svc.UpdateProfile(context.Background(), id, UpdateProfileRequest{VehiclePlate: &bad})
	assert.True(t, domain.IsKind(err, domain.KindInvalidRequest))

	_, err = f.svc.Me(context.Background(), 9999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
