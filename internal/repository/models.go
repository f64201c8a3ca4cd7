package repository

import (
	"time"

	"rideshare/internal/domain"
)

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FirstName    string    `gorm:"column:first_name;size:150"`
	LastName     string    `gorm:"column:last_name;size:150"`
	Role         string    `gorm:"column:role;size:20;not null;index"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Profile *profileModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (userModel) TableName() string { return "users" }

type profileModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex"`
	Role         string    `gorm:"column:role;size:20;not null"`
	PhoneNumber  *string   `gorm:"column:phone_number;size:20"`
	Bio          *string   `gorm:"column:bio;type:text"`
	VehicleModel *string   `gorm:"column:vehicle_model;size:100"`
	VehiclePlate *string   `gorm:"column:vehicle_plate_number;size:20"`
	VehicleSeats *int      `gorm:"column:vehicle_seats"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (profileModel) TableName() string { return "profiles" }

type tripModel struct {
	ID                int64        `gorm:"column:id;primaryKey"`
	DriverID          int64        `gorm:"column:driver_id;not null;index"`
	StartLocationName string       `gorm:"column:start_location_name;size:255;not null"`
	StartLat          *float64     `gorm:"column:start_lat"`
	StartLng          *float64     `gorm:"column:start_lng"`
	DestinationName   string       `gorm:"column:destination_name;size:255;not null"`
	DestLat           *float64     `gorm:"column:dest_lat"`
	DestLng           *float64     `gorm:"column:dest_lng"`
	DepartureTime     time.Time    `gorm:"column:departure_time;not null;index"`
	SeatCapacity      int          `gorm:"column:seat_capacity;not null;check:chk_trips_capacity,seat_capacity >= 1"`
	AvailableSeats    int          `gorm:"column:available_seats;not null;check:chk_trips_available,available_seats >= 0"`
	PricePerSeat      domain.Money `gorm:"column:price_per_seat;not null"`
	IsActive          bool         `gorm:"column:is_active;not null;default:true;index"`
	HasAC             bool         `gorm:"column:has_ac;not null;default:false"`
	AllowsLuggage     bool         `gorm:"column:allows_luggage;not null;default:false"`
	NoSmoking         bool         `gorm:"column:no_smoking;not null"`
	HasMusic          bool         `gorm:"column:has_music;not null;default:false"`
	AdditionalInfo    *string      `gorm:"column:additional_info;type:text"`
	CreatedAt         time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time    `gorm:"column:updated_at;autoUpdateTime"`

	Driver *userModel `gorm:"foreignKey:DriverID;references:ID"`
}

func (tripModel) TableName() string { return "trips" }

type bookingModel struct {
	ID          int64        `gorm:"column:id;primaryKey"`
	TripID      int64        `gorm:"column:trip_id;not null;uniqueIndex:idx_bookings_active_passenger,where:status <> 'cancelled'"`
	PassengerID int64        `gorm:"column:passenger_id;not null;index;uniqueIndex:idx_bookings_active_passenger,where:status <> 'cancelled'"`
	SeatsBooked int          `gorm:"column:seats_booked;not null;default:1;check:chk_bookings_seats,seats_booked >= 1"`
	Status      string       `gorm:"column:status;size:20;not null;index"`
	TotalPrice  domain.Money `gorm:"column:total_price;not null"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`

	Trip      *tripModel    `gorm:"foreignKey:TripID;references:ID"`
	Passenger *userModel    `gorm:"foreignKey:PassengerID;references:ID"`
	Payment   *paymentModel `gorm:"foreignKey:BookingID;references:ID"`
}

func (bookingModel) TableName() string { return "bookings" }

type paymentModel struct {
	ID                    int64        `gorm:"column:id;primaryKey"`
	BookingID             int64        `gorm:"column:booking_id;not null;uniqueIndex"`
	Amount                domain.Money `gorm:"column:amount;not null"`
	Provider              string       `gorm:"column:provider;size:50;not null"`
	ProviderTransactionID *string      `gorm:"column:provider_transaction_id;size:255;uniqueIndex"`
	Status                string       `gorm:"column:status;size:20;not null"`
	CreatedAt             time.Time    `gorm:"column:created_at;autoCreateTime"`
	PaidAt                *time.Time   `gorm:"column:paid_at"`

	Booking *bookingModel `gorm:"foreignKey:BookingID;references:ID"`
}

func (paymentModel) TableName() string { return "payment_transactions" }

type ratingModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TripID    int64     `gorm:"column:trip_id;not null;uniqueIndex:idx_ratings_once"`
	RaterID   int64     `gorm:"column:rater_id;not null;uniqueIndex:idx_ratings_once"`
	RateeID   int64     `gorm:"column:ratee_id;not null;uniqueIndex:idx_ratings_once;index"`
	Score     int       `gorm:"column:score;not null;check:chk_ratings_score,score BETWEEN 1 AND 5"`
	Comment   *string   `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Rater *userModel `gorm:"foreignKey:RaterID;references:ID"`
}

func (ratingModel) TableName() string { return "ratings" }

// Models lists the tables owned by this package, in dependency order.
func Models() []any {
	return []any{
		&userModel{},
		&profileModel{},
		&tripModel{},
		&bookingModel{},
		&paymentModel{},
		&ratingModel{},
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func toDomainUser(m *userModel) *domain.User {
	if m == nil {
		return nil
	}
	u := &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Role:         domain.UserRole(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Profile != nil {
		u.Profile = toDomainProfile(m.Profile)
	}
	return u
}

func toDomainProfile(m *profileModel) *domain.Profile {
	return &domain.Profile{
		ID:           m.ID,
		UserID:       m.UserID,
		Role:         domain.UserRole(m.Role),
		PhoneNumber:  strVal(m.PhoneNumber),
		Bio:          strVal(m.Bio),
		VehicleModel: strVal(m.VehicleModel),
		VehiclePlate: strVal(m.VehiclePlate),
		VehicleSeats: intVal(m.VehicleSeats),
		Rating:       domain.DefaultProfileRating,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toProfileModel(p *domain.Profile) profileModel {
	m := profileModel{
		ID:           p.ID,
		UserID:       p.UserID,
		Role:         string(p.Role),
		PhoneNumber:  strPtr(p.PhoneNumber),
		Bio:          strPtr(p.Bio),
		VehicleModel: strPtr(p.VehicleModel),
		VehiclePlate: strPtr(p.VehiclePlate),
	}
	if p.VehicleSeats > 0 {
		seats := p.VehicleSeats
		m.VehicleSeats = &seats
	}
	return m
}

func toDomainTrip(m *tripModel) *domain.Trip {
	if m == nil {
		return nil
	}
	return &domain.Trip{
		ID:                m.ID,
		DriverID:          m.DriverID,
		StartLocationName: m.StartLocationName,
		StartLat:          m.StartLat,
		StartLng:          m.StartLng,
		DestinationName:   m.DestinationName,
		DestLat:           m.DestLat,
		DestLng:           m.DestLng,
		DepartureTime:     m.DepartureTime.UTC(),
		SeatCapacity:      m.SeatCapacity,
		AvailableSeats:    m.AvailableSeats,
		PricePerSeat:      m.PricePerSeat,
		IsActive:          m.IsActive,
		HasAC:             m.HasAC,
		AllowsLuggage:     m.AllowsLuggage,
		NoSmoking:         m.NoSmoking,
		HasMusic:          m.HasMusic,
		AdditionalInfo:    strVal(m.AdditionalInfo),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toTripModel(t *domain.Trip) tripModel {
	return tripModel{
		ID:                t.ID,
		DriverID:          t.DriverID,
		StartLocationName: t.StartLocationName,
		StartLat:          t.StartLat,
		StartLng:          t.StartLng,
		DestinationName:   t.DestinationName,
		DestLat:           t.DestLat,
		DestLng:           t.DestLng,
		DepartureTime:     t.DepartureTime.UTC(),
		SeatCapacity:      t.SeatCapacity,
		AvailableSeats:    t.AvailableSeats,
		PricePerSeat:      t.PricePerSeat,
		IsActive:          t.IsActive,
		HasAC:             t.HasAC,
		AllowsLuggage:     t.AllowsLuggage,
		NoSmoking:         t.NoSmoking,
		HasMusic:          t.HasMusic,
		AdditionalInfo:    strPtr(t.AdditionalInfo),
	}
}

func toDomainBooking(m *bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:          m.ID,
		TripID:      m.TripID,
		PassengerID: m.PassengerID,
		SeatsBooked: m.SeatsBooked,
		Status:      domain.BookingStatus(m.Status),
		TotalPrice:  m.TotalPrice,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Trip != nil {
		b.Trip = toDomainTrip(m.Trip)
	}
	return b
}

func toBookingDetails(m *bookingModel) *domain.BookingDetails {
	d := &domain.BookingDetails{Booking: *toDomainBooking(m)}
	if m.Trip != nil {
		d.DriverID = m.Trip.DriverID
		if m.Trip.Driver != nil {
			d.DriverName = toDomainUser(m.Trip.Driver).FullName()
			if m.Trip.Driver.Profile != nil {
				d.DriverPhone = strVal(m.Trip.Driver.Profile.PhoneNumber)
			}
		}
	}
	if m.Passenger != nil {
		d.PassengerName = toDomainUser(m.Passenger).FullName()
		if m.Passenger.Profile != nil {
			d.PassengerPhone = strVal(m.Passenger.Profile.PhoneNumber)
		}
	}
	d.HasPayment = m.Payment != nil
	return d
}

func toDomainPayment(m *paymentModel) *domain.PaymentTransaction {
	return &domain.PaymentTransaction{
		ID:                    m.ID,
		BookingID:             m.BookingID,
		Amount:                m.Amount,
		Provider:              m.Provider,
		ProviderTransactionID: strVal(m.ProviderTransactionID),
		Status:                domain.PaymentStatus(m.Status),
		CreatedAt:             m.CreatedAt,
		PaidAt:                m.PaidAt,
	}
}

func toPaymentDetails(m *paymentModel) *domain.PaymentDetails {
	d := &domain.PaymentDetails{PaymentTransaction: *toDomainPayment(m)}
	if b := m.Booking; b != nil {
		d.PassengerID = b.PassengerID
		d.TripID = b.TripID
		d.SeatsBooked = b.SeatsBooked
		if b.Passenger != nil {
			d.PassengerName = toDomainUser(b.Passenger).FullName()
		}
		if t := b.Trip; t != nil {
			d.From = t.StartLocationName
			d.To = t.DestinationName
			d.DepartureTime = t.DepartureTime.UTC()
			if t.Driver != nil {
				d.DriverName = toDomainUser(t.Driver).FullName()
				if t.Driver.Profile != nil {
					d.DriverPhone = strVal(t.Driver.Profile.PhoneNumber)
				}
			}
		}
	}
	return d
}

func toDomainRating(m *ratingModel) *domain.Rating {
	r := &domain.Rating{
		ID:        m.ID,
		TripID:    m.TripID,
		RaterID:   m.RaterID,
		RateeID:   m.RateeID,
		Score:     m.Score,
		Comment:   strVal(m.Comment),
		CreatedAt: m.CreatedAt,
	}
	if m.Rater != nil {
		r.RaterName = toDomainUser(m.Rater).FullName()
	}
	return r
}
