package trip

import (
	"context"
	"errors"
	"strings"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

const recommendedPerSource = 5

type Service struct {
	trips               TripStore
	subscriptions       SubscriptionGate
	verifications       VerificationChecker
	requireVerification bool
	now                 func() time.Time
	loggerf             func(format string, args ...interface{})
}

func NewService(
	trips TripStore,
	subscriptions SubscriptionGate,
	verifications VerificationChecker,
	requireVerification bool,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		trips:               trips,
		subscriptions:       subscriptions,
		verifications:       verifications,
		requireVerification: requireVerification,
		now:                 func() time.Time { return time.Now().UTC() },
		loggerf:             loggerf,
	}
}

/* ---------- DRIVER ---------- */

// CreateTrip publishes a new trip. Capacity at creation becomes both the seat
// capacity and the initial available-seat counter.
func (s *Service) CreateTrip(ctx context.Context, driverID int64, role domain.UserRole, req CreateTripRequest) (*domain.Trip, error) {
	if role != domain.RoleDriver {
		return nil, domain.Forbidden("only drivers can create trips")
	}
	if err := s.subscriptions.Require(ctx, driverID); err != nil {
		return nil, err
	}
	if s.requireVerification {
		ok, err := s.verifications.IsVerified(ctx, driverID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.Forbidden("driver verification required")
		}
	}

	t := &domain.Trip{
		DriverID:          driverID,
		StartLocationName: strings.TrimSpace(req.StartLocationName),
		StartLat:          req.StartLat,
		StartLng:          req.StartLng,
		DestinationName:   strings.TrimSpace(req.DestinationName),
		DestLat:           req.DestLat,
		DestLng:           req.DestLng,
		DepartureTime:     req.DepartureTime.UTC(),
		SeatCapacity:      req.AvailableSeats,
		AvailableSeats:    req.AvailableSeats,
		PricePerSeat:      req.PricePerSeat,
		IsActive:          true,
		HasAC:             req.HasAC,
		AllowsLuggage:     req.AllowsLuggage,
		NoSmoking:         true,
		HasMusic:          req.HasMusic,
		AdditionalInfo:    strings.TrimSpace(req.AdditionalInfo),
	}
	if req.NoSmoking != nil {
		t.NoSmoking = *req.NoSmoking
	}
	if t.SeatCapacity < 1 {
		return nil, domain.InvalidRequest("available seats must be at least 1")
	}
	if err := s.validate(t); err != nil {
		return nil, err
	}

	if err := s.trips.Create(ctx, t); err != nil {
		return nil, err
	}
	s.loggerf("trip_created trip_id=%d driver_id=%d seats=%d", t.ID, driverID, t.SeatCapacity)
	return t, nil
}

func (s *Service) validate(t *domain.Trip) error {
	if t.StartLocationName == "" || t.DestinationName == "" {
		return domain.InvalidRequest("start and destination are required")
	}
	if t.PricePerSeat <= 0 {
		return domain.InvalidRequest("price per seat must be positive")
	}
	if t.PricePerSeat > domain.MaxSeatPrice {
		return domain.InvalidRequest("price per seat cannot exceed %s", domain.MaxSeatPrice.Format())
	}
	if !t.DepartureTime.After(s.now()) {
		return domain.InvalidRequest("departure time must be in the future")
	}
	return nil
}

// ownTrip loads a trip the driver owns.
func (s *Service) ownTrip(ctx context.Context, driverID, tripID int64) (*domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("trip")
		}
		return nil, err
	}
	if t.DriverID != driverID {
		return nil, domain.Forbidden("you can only manage your own trips")
	}
	return t, nil
}

// UpdateTrip edits descriptive fields and price. Existing bookings keep the
// total price computed when they were made.
func (s *Service) UpdateTrip(ctx context.Context, driverID, tripID int64, req UpdateTripRequest) (*domain.TripListing, error) {
	t, err := s.ownTrip(ctx, driverID, tripID)
	if err != nil {
		return nil, err
	}

	departureChanged := false
	if req.StartLocationName != nil {
		t.StartLocationName = strings.TrimSpace(*req.StartLocationName)
	}
	if req.StartLat != nil {
		t.StartLat = req.StartLat
	}
	if req.StartLng != nil {
		t.StartLng = req.StartLng
	}
	if req.DestinationName != nil {
		t.DestinationName = strings.TrimSpace(*req.DestinationName)
	}
	if req.DestLat != nil {
		t.DestLat = req.DestLat
	}
	if req.DestLng != nil {
		t.DestLng = req.DestLng
	}
	if req.DepartureTime != nil {
		t.DepartureTime = req.DepartureTime.UTC()
		departureChanged = true
	}
	if req.PricePerSeat != nil {
		t.PricePerSeat = *req.PricePerSeat
	}
	if req.HasAC != nil {
		t.HasAC = *req.HasAC
	}
	if req.AllowsLuggage != nil {
		t.AllowsLuggage = *req.AllowsLuggage
	}
	if req.NoSmoking != nil {
		t.NoSmoking = *req.NoSmoking
	}
	if req.HasMusic != nil {
		t.HasMusic = *req.HasMusic
	}
	if req.AdditionalInfo != nil {
		t.AdditionalInfo = strings.TrimSpace(*req.AdditionalInfo)
	}

	if t.StartLocationName == "" || t.DestinationName == "" {
		return nil, domain.InvalidRequest("start and destination are required")
	}
	if t.PricePerSeat <= 0 {
		return nil, domain.InvalidRequest("price per seat must be positive")
	}
	if t.PricePerSeat > domain.MaxSeatPrice {
		return nil, domain.InvalidRequest("price per seat cannot exceed %s", domain.MaxSeatPrice.Format())
	}
	if departureChanged && !t.DepartureTime.After(s.now()) {
		return nil, domain.InvalidRequest("departure time must be in the future")
	}

	if err := s.trips.UpdateDetails(ctx, t); err != nil {
		return nil, err
	}
	return s.GetTrip(ctx, tripID)
}

func (s *Service) DeactivateTrip(ctx context.Context, driverID, tripID int64) error {
	if _, err := s.ownTrip(ctx, driverID, tripID); err != nil {
		return err
	}
	if err := s.trips.Deactivate(ctx, tripID); err != nil {
		return err
	}
	s.loggerf("trip_deactivated trip_id=%d driver_id=%d", tripID, driverID)
	return nil
}

func (s *Service) MyTrips(ctx context.Context, driverID int64) ([]domain.TripListing, error) {
	return s.trips.ListByDriver(ctx, driverID)
}

/* ---------- PUBLIC ---------- */

func (s *Service) GetTrip(ctx context.Context, tripID int64) (*domain.TripListing, error) {
	t, err := s.trips.GetListing(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("trip")
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) ListAvailableTrips(ctx context.Context, f domain.TripFilter) ([]domain.TripListing, error) {
	return s.trips.ListActive(ctx, f)
}

// RecommendedTrips merges the most-booked trips with the soonest departures,
// keeping the first occurrence of each trip.
func (s *Service) RecommendedTrips(ctx context.Context) ([]domain.TripListing, error) {
	popular, err := s.trips.MostBooked(ctx, recommendedPerSource)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.trips.Upcoming(ctx, s.now(), recommendedPerSource)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(popular)+len(upcoming))
	out := make([]domain.TripListing, 0, len(popular)+len(upcoming))
	for _, list := range [][]domain.TripListing{popular, upcoming} {
		for _, t := range list {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
		}
	}
	return out, nil
}
