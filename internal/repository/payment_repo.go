package repository

import (
	"context"

	"rideshare/internal/domain"

	"gorm.io/gorm"
)

// PaymentRepository is read-only; payment rows are written by BookingRepository.ConfirmWithPayment.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.PaymentDetails, error) {
	var m paymentModel
	if err := r.detailsQuery(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toPaymentDetails(&m), nil
}

func (r *PaymentRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.PaymentDetails, error) {
	var m paymentModel
	if err := r.detailsQuery(ctx).Where("booking_id = ?", bookingID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return toPaymentDetails(&m), nil
}

func (r *PaymentRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.PaymentDetails, error) {
	var rows []paymentModel
	err := r.detailsQuery(ctx).
		Joins("JOIN bookings ON bookings.id = payment_transactions.booking_id").
		Where("bookings.passenger_id = ?", passengerID).
		Order("payment_transactions.created_at DESC, payment_transactions.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPaymentList(rows), nil
}

func (r *PaymentRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.PaymentDetails, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []paymentModel
	err := r.detailsQuery(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPaymentList(rows), nil
}

// Totals returns the number of confirmed payments and their sum.
func (r *PaymentRepository) Totals(ctx context.Context) (count int64, sum domain.Money, err error) {
	var row struct {
		Total  int64
		Amount int64
	}
	err = r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", string(domain.PaymentConfirmed)).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, domain.Money(row.Amount), nil
}

func (r *PaymentRepository) detailsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Preload("Booking.Passenger").
		Preload("Booking.Trip.Driver.Profile")
}

func toPaymentList(rows []paymentModel) []domain.PaymentDetails {
	out := make([]domain.PaymentDetails, 0, len(rows))
	for i := range rows {
		out = append(out, *toPaymentDetails(&rows[i]))
	}
	return out
}
