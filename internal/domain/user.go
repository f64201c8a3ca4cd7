package domain

import "time"

type UserRole string

const (
	RoleDriver    UserRole = "driver"
	RolePassenger UserRole = "passenger"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleDriver || r == RolePassenger || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Profile *Profile `json:"profile,omitempty"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Profile holds contact and vehicle attributes. Rating is derived from received ratings.
type Profile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Role         UserRole  `json:"role"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	VehicleModel string    `json:"vehicle_model,omitempty"`
	VehiclePlate string    `json:"vehicle_plate_number,omitempty"`
	VehicleSeats int       `json:"vehicle_seats,omitempty"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultProfileRating is shown until a user receives a first rating.
const DefaultProfileRating = 5.0
