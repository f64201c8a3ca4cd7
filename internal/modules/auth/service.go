package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rideshare/internal/domain"
	"rideshare/internal/pkg/validator"
	"rideshare/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains all business logic for accounts and sessions
type Service struct {
	users    UserRepositoryInterface
	trials   TrialStarter
	ratings  RatingReader
	notifier WelcomeNotifier
	jwt      jwtService
	dispatch func(func())
	loggerf  func(format string, args ...interface{})
}

func NewService(
	users UserRepositoryInterface,
	trials TrialStarter,
	ratings RatingReader,
	notifier WelcomeNotifier,
	jwt jwtService,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		users:    users,
		trials:   trials,
		ratings:  ratings,
		notifier: notifier,
		jwt:      jwt,
		dispatch: func(f func()) { go f() },
		loggerf:  loggerf,
	}
}

// Register creates the user, its profile and the trial subscription as one
// unit, then sends a welcome notification once the account exists.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = domain.RolePassenger
	}
	if role != domain.RoleDriver && role != domain.RolePassenger {
		return nil, domain.InvalidRequest("role must be driver or passenger")
	}
	if req.PhoneNumber != "" && !validator.IsPhone(req.PhoneNumber) {
		return nil, domain.InvalidRequest("phone number must be +250 followed by 9 digits")
	}
	plate := strings.ToUpper(strings.TrimSpace(req.VehiclePlate))
	if plate != "" && !validator.IsPlate(plate) {
		return nil, domain.InvalidRequest("vehicle plate must look like RAB 123 C")
	}
	if len(req.Password) < 8 {
		return nil, domain.InvalidRequest("password must be at least 8 characters")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
	}
	profile := &domain.Profile{
		Role:         role,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		VehicleModel: strings.TrimSpace(req.VehicleModel),
		VehiclePlate: plate,
		VehicleSeats: req.VehicleSeats,
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user, profile); err != nil {
			return err
		}
		_, err := s.trials.StartTrialTx(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflict("email is already registered")
		}
		return nil, err
	}

	s.loggerf("account_created user_id=%d role=%s", user.ID, user.Role)
	s.welcome(user)

	return s.issue(user)
}

func (s *Service) welcome(user *domain.User) {
	if s.notifier == nil {
		return
	}
	userID, name := user.ID, user.FirstName
	s.dispatch(func() {
		if err := s.notifier.NotifyWelcome(context.Background(), userID, name); err != nil {
			s.loggerf("welcome_notify_failed user_id=%d error=%v", userID, err)
		}
	})
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issue(user)
}

func (s *Service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	user.PasswordHash = ""
	return &AuthResult{User: user, Token: token, ExpiresIn: int64(s.jwt.TTL().Seconds())}, nil
}

// Me returns the user with its profile and received-rating average.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("user")
		}
		return nil, err
	}
	user.PasswordHash = ""
	if user.Profile == nil {
		user.Profile = &domain.Profile{UserID: user.ID, Role: user.Role}
	}

	avg, count, err := s.ratings.Average(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Profile.Rating = domain.DefaultProfileRating
	if count > 0 {
		user.Profile.Rating = domain.RoundRating(avg)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		first, last := user.FirstName, user.LastName
		if req.FirstName != nil {
			first = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			last = strings.TrimSpace(*req.LastName)
		}
		if first == "" {
			return nil, domain.InvalidRequest("first name cannot be empty")
		}
		if err := s.users.UpdateNames(ctx, userID, first, last); err != nil {
			return nil, err
		}
	}

	p := *user.Profile
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone != "" && !validator.IsPhone(phone) {
			return nil, domain.InvalidRequest("phone number must be +250 followed by 9 digits")
		}
		p.PhoneNumber = phone
	}
	if req.VehiclePlate != nil {
		plate := strings.ToUpper(strings.TrimSpace(*req.VehiclePlate))
		if plate != "" && !validator.IsPlate(plate) {
			return nil, domain.InvalidRequest("vehicle plate must look like RAB 123 C")
		}
		p.VehiclePlate = plate
	}
	if req.Bio != nil {
		p.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.VehicleModel != nil {
		p.VehicleModel = strings.TrimSpace(*req.VehicleModel)
	}
	if req.VehicleSeats != nil {
		if *req.VehicleSeats < 0 {
			return nil, domain.InvalidRequest("vehicle seats cannot be negative")
		}
		p.VehicleSeats = *req.VehicleSeats
	}

	if err := s.users.UpdateProfile(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("profile")
		}
		return nil, err
	}
	return s.Me(ctx, userID)
}
