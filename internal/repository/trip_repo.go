package repository

import (
	"context"
	"strings"
	"time"

	"rideshare/internal/domain"

	"gorm.io/gorm"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) Create(ctx context.Context, t *domain.Trip) error {
	m := toTripModel(t)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	var m tripModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainTrip(&m), nil
}

// GetListing returns one trip with its read-side enrichment.
func (r *TripRepository) GetListing(ctx context.Context, id int64) (*domain.TripListing, error) {
	var m tripModel
	if err := r.db.WithContext(ctx).Preload("Driver.Profile").First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	out, err := r.enrich(ctx, []tripModel{m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// UpdateDetails changes descriptive fields and price. Seat counters are never touched here.
func (r *TripRepository) UpdateDetails(ctx context.Context, t *domain.Trip) error {
	m := toTripModel(t)
	res := r.db.WithContext(ctx).
		Model(&tripModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"start_location_name": m.StartLocationName,
			"start_lat":           m.StartLat,
			"start_lng":           m.StartLng,
			"destination_name":    m.DestinationName,
			"dest_lat":            m.DestLat,
			"dest_lng":            m.DestLng,
			"departure_time":      m.DepartureTime,
			"price_per_seat":      m.PricePerSeat,
			"has_ac":              m.HasAC,
			"allows_luggage":      m.AllowsLuggage,
			"no_smoking":          m.NoSmoking,
			"has_music":           m.HasMusic,
			"additional_info":     m.AdditionalInfo,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TripRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&tripModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActive returns active trips, latest departure first.
func (r *TripRepository) ListActive(ctx context.Context, f domain.TripFilter) ([]domain.TripListing, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&tripModel{}).Where("is_active = ?", true)
	if from := strings.TrimSpace(f.From); from != "" {
		q = q.Where("LOWER(start_location_name) LIKE ?", "%"+strings.ToLower(from)+"%")
	}
	if to := strings.TrimSpace(f.To); to != "" {
		q = q.Where("LOWER(destination_name) LIKE ?", "%"+strings.ToLower(to)+"%")
	}
	if f.Date != nil {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("departure_time >= ? AND departure_time < ?", day, day.Add(24*time.Hour))
	}
	if f.MinSeats > 0 {
		q = q.Where("available_seats >= ?", f.MinSeats)
	}

	var rows []tripModel
	err := q.Preload("Driver.Profile").
		Order("departure_time DESC, id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, rows)
}

func (r *TripRepository) ListByDriver(ctx context.Context, driverID int64) ([]domain.TripListing, error) {
	var rows []tripModel
	err := r.db.WithContext(ctx).
		Preload("Driver.Profile").
		Where("driver_id = ?", driverID).
		Order("departure_time DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, rows)
}

// MostBooked returns active trips ordered by how many live bookings they hold.
func (r *TripRepository) MostBooked(ctx context.Context, limit int) ([]domain.TripListing, error) {
	var rows []tripModel
	err := r.db.WithContext(ctx).
		Preload("Driver.Profile").
		Where("is_active = ?", true).
		Order("(SELECT COUNT(*) FROM bookings b WHERE b.trip_id = trips.id AND b.status <> 'cancelled') DESC").
		Order("departure_time ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, rows)
}

// Upcoming returns active trips departing at or after now, soonest first.
func (r *TripRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]domain.TripListing, error) {
	var rows []tripModel
	err := r.db.WithContext(ctx).
		Preload("Driver.Profile").
		Where("is_active = ? AND departure_time >= ?", true, now.UTC()).
		Order("departure_time ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, rows)
}

func (r *TripRepository) CountActive(ctx context.Context) (active int64, total int64, err error) {
	if err = r.db.WithContext(ctx).Model(&tripModel{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&tripModel{}).Where("is_active = ?", true).Count(&active).Error
	return active, total, err
}

type tripBookingStats struct {
	TripID       int64
	BookedSeats  int
	BookingCount int
}

type rateeAverage struct {
	RateeID int64
	Average float64
}

func (r *TripRepository) enrich(ctx context.Context, rows []tripModel) ([]domain.TripListing, error) {
	out := make([]domain.TripListing, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	tripIDs := make([]int64, 0, len(rows))
	driverIDs := make([]int64, 0, len(rows))
	for _, m := range rows {
		tripIDs = append(tripIDs, m.ID)
		driverIDs = append(driverIDs, m.DriverID)
	}

	var stats []tripBookingStats
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select(`trip_id,
			COALESCE(SUM(CASE WHEN status IN ('approved','confirmed') THEN seats_booked ELSE 0 END), 0) AS booked_seats,
			COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN 1 ELSE 0 END), 0) AS booking_count`).
		Where("trip_id IN ?", tripIDs).
		Group("trip_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	statsByTrip := make(map[int64]tripBookingStats, len(stats))
	for _, s := range stats {
		statsByTrip[s.TripID] = s
	}

	var avgs []rateeAverage
	err = r.db.WithContext(ctx).
		Model(&ratingModel{}).
		Select("ratee_id, AVG(score) AS average").
		Where("ratee_id IN ?", driverIDs).
		Group("ratee_id").
		Scan(&avgs).Error
	if err != nil {
		return nil, err
	}
	avgByDriver := make(map[int64]float64, len(avgs))
	for _, a := range avgs {
		avgByDriver[a.RateeID] = domain.RoundRating(a.Average)
	}

	for i := range rows {
		m := &rows[i]
		l := domain.TripListing{Trip: *toDomainTrip(m)}
		if m.Driver != nil {
			l.DriverName = toDomainUser(m.Driver).FullName()
			if m.Driver.Profile != nil {
				l.DriverPhone = strVal(m.Driver.Profile.PhoneNumber)
			}
		}
		if avg, ok := avgByDriver[m.DriverID]; ok {
			v := avg
			l.DriverRating = &v
		}
		if s, ok := statsByTrip[m.ID]; ok {
			l.BookedSeats = s.BookedSeats
			l.BookingCount = s.BookingCount
		}
		out = append(out, l)
	}
	return out, nil
}
