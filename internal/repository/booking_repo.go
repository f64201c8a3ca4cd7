package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideshare/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingRepository is the only writer of trips.available_seats.
// Every seat mutation runs inside one transaction with the trip row locked
// and a conditional UPDATE that fails closed, so Postgres and SQLite behave alike.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Reservation is a request to hold seats on a trip for one passenger.
type Reservation struct {
	TripID      int64
	PassengerID int64
	Seats       int
}

// Reserve checks capacity then duplicates under the trip lock, decrements the
// seat counter and inserts a pending booking priced at the current seat price.
func (r *BookingRepository) Reserve(ctx context.Context, res Reservation) (*domain.Booking, error) {
	var created bookingModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip tripModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&trip, res.TripID).Error; err != nil {
			return notFound(err)
		}
		if !trip.IsActive {
			return ErrTripInactive
		}
		if trip.AvailableSeats < res.Seats {
			return &SeatShortageError{Available: trip.AvailableSeats, Requested: res.Seats}
		}

		var existing bookingModel
		err := tx.Select("id").
			Where("trip_id = ? AND passenger_id = ? AND status IN ?", res.TripID, res.PassengerID, statusStrings(domain.SeatHoldingStatuses())).
			Take(&existing).Error
		if err == nil {
			return &ActiveBookingError{BookingID: existing.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		total, err := trip.PricePerSeat.Times(res.Seats)
		if err != nil {
			return fmt.Errorf("total price: %w", err)
		}

		dec := tx.Model(&tripModel{}).
			Where("id = ? AND is_active = ? AND available_seats >= ?", res.TripID, true, res.Seats).
			Updates(map[string]any{
				"available_seats": gorm.Expr("available_seats - ?", res.Seats),
				"updated_at":      time.Now().UTC(),
			})
		if dec.Error != nil {
			return dec.Error
		}
		if dec.RowsAffected == 0 {
			return &SeatShortageError{Available: trip.AvailableSeats, Requested: res.Seats}
		}

		created = bookingModel{
			TripID:      res.TripID,
			PassengerID: res.PassengerID,
			SeatsBooked: res.Seats,
			Status:      string(domain.BookingPending),
			TotalPrice:  total,
		}
		if err := tx.Create(&created).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrActiveBookingExists
			}
			return err
		}

		trip.AvailableSeats -= res.Seats
		created.Trip = &trip
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainBooking(&created), nil
}

// Transition moves a booking from one of the allowed statuses to next without
// touching seats. A lost race or wrong status yields a *StatusError.
func (r *BookingRepository) Transition(ctx context.Context, bookingID int64, from []domain.BookingStatus, next domain.BookingStatus) (*domain.Booking, error) {
	var out bookingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status IN ?", bookingID, statusStrings(from)).
			Updates(map[string]any{"status": string(next), "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.First(&out, bookingID).Error; err != nil {
			return notFound(err)
		}
		if res.RowsAffected == 0 {
			return &StatusError{Current: out.Status}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainBooking(&out), nil
}

// Cancel marks a pending or approved booking cancelled and gives its seats back
// to the trip. The status flip is conditional, so seats are restored at most once.
// Locks are taken trip first, then booking, the same order Reserve uses.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var out bookingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ref bookingModel
		if err := tx.Select("trip_id").Where("id = ?", bookingID).Take(&ref).Error; err != nil {
			return notFound(err)
		}
		var trip tripModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&trip, ref.TripID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, bookingID).Error; err != nil {
			return notFound(err)
		}

		flip := tx.Model(&bookingModel{}).
			Where("id = ? AND status IN ?", bookingID, statusStrings(domain.StatusesInto(domain.BookingCancelled))).
			Updates(map[string]any{"status": string(domain.BookingCancelled), "updated_at": time.Now().UTC()})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return &StatusError{Current: out.Status}
		}

		restore := tx.Model(&tripModel{}).
			Where("id = ? AND available_seats + ? <= seat_capacity", out.TripID, out.SeatsBooked).
			Updates(map[string]any{
				"available_seats": gorm.Expr("available_seats + ?", out.SeatsBooked),
				"updated_at":      time.Now().UTC(),
			})
		if restore.Error != nil {
			return restore.Error
		}
		if restore.RowsAffected == 0 {
			return ErrSeatCounterDrift
		}

		out.Status = string(domain.BookingCancelled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainBooking(&out), nil
}

// ConfirmWithPayment writes the payment row and flips approved → confirmed in one unit.
func (r *BookingRepository) ConfirmWithPayment(ctx context.Context, bookingID int64, p *domain.PaymentTransaction) (*domain.Booking, error) {
	var out bookingModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, bookingID).Error; err != nil {
			return notFound(err)
		}

		var paid int64
		if err := tx.Model(&paymentModel{}).Where("booking_id = ?", bookingID).Count(&paid).Error; err != nil {
			return err
		}
		if paid > 0 {
			return ErrAlreadyPaid
		}

		flip := tx.Model(&bookingModel{}).
			Where("id = ? AND status IN ?", bookingID, statusStrings(domain.StatusesInto(domain.BookingConfirmed))).
			Updates(map[string]any{"status": string(domain.BookingConfirmed), "updated_at": time.Now().UTC()})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return &StatusError{Current: out.Status}
		}

		pm := paymentModel{
			BookingID:             bookingID,
			Amount:                p.Amount,
			Provider:              p.Provider,
			ProviderTransactionID: strPtr(p.ProviderTransactionID),
			Status:                string(p.Status),
			PaidAt:                p.PaidAt,
		}
		if err := tx.Create(&pm).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrAlreadyPaid
			}
			return err
		}
		p.ID = pm.ID
		p.BookingID = bookingID
		p.CreatedAt = pm.CreatedAt

		out.Status = string(domain.BookingConfirmed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainBooking(&out), nil
}

// CompleteDeparted marks confirmed bookings on departed trips as completed.
func (r *BookingRepository) CompleteDeparted(ctx context.Context, now time.Time) (int64, error) {
	departed := r.db.Model(&tripModel{}).Select("id").Where("departure_time < ?", now.UTC())
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("status IN ? AND trip_id IN (?)", statusStrings(domain.StatusesInto(domain.BookingCompleted)), departed).
		Updates(map[string]any{"status": string(domain.BookingCompleted), "updated_at": now.UTC()})
	return res.RowsAffected, res.Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Preload("Trip").First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(&m), nil
}

func (r *BookingRepository) GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	var m bookingModel
	err := r.detailsQuery(ctx).First(&m, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return toBookingDetails(&m), nil
}

func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.BookingDetails, error) {
	var rows []bookingModel
	err := r.detailsQuery(ctx).
		Where("bookings.passenger_id = ?", passengerID).
		Order("bookings.created_at DESC, bookings.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDetailsList(rows), nil
}

// ListForDriver returns bookings on the driver's trips, never the driver's own.
func (r *BookingRepository) ListForDriver(ctx context.Context, driverID int64, status domain.BookingStatus) ([]domain.BookingDetails, error) {
	q := r.detailsQuery(ctx).
		Joins("JOIN trips ON trips.id = bookings.trip_id").
		Where("trips.driver_id = ? AND bookings.passenger_id <> ?", driverID, driverID)
	if status != "" {
		q = q.Where("bookings.status = ?", string(status))
	}

	var rows []bookingModel
	if err := q.Order("bookings.created_at DESC, bookings.id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDetailsList(rows), nil
}

// HasParticipated reports whether the user drove the trip or holds a paid booking on it.
func (r *BookingRepository) HasParticipated(ctx context.Context, tripID, userID int64) (bool, error) {
	var trip tripModel
	if err := r.db.WithContext(ctx).Select("id", "driver_id").First(&trip, tripID).Error; err != nil {
		return false, notFound(err)
	}
	if trip.DriverID == userID {
		return true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("trip_id = ? AND passenger_id = ? AND status IN ?", tripID, userID,
			[]string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Count(&count).Error
	return count > 0, err
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.BookingStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.BookingStatus(row.Status)] = row.Total
	}
	return out, nil
}

// SeatsHeld sums seats over bookings that still count against capacity.
func (r *BookingRepository) SeatsHeld(ctx context.Context, tripID int64) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("COALESCE(SUM(seats_booked), 0)").
		Where("trip_id = ? AND status IN ?", tripID, statusStrings(domain.SeatHoldingStatuses())).
		Scan(&total).Error
	return total, err
}

func (r *BookingRepository) detailsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Preload("Trip.Driver.Profile").
		Preload("Passenger.Profile").
		Preload("Payment")
}

func toDetailsList(rows []bookingModel) []domain.BookingDetails {
	out := make([]domain.BookingDetails, 0, len(rows))
	for i := range rows {
		out = append(out, *toBookingDetails(&rows[i]))
	}
	return out
}

func statusStrings(in []domain.BookingStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
