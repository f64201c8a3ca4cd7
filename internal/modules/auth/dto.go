package auth

import "rideshare/internal/domain"

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FirstName    string `json:"first_name" binding:"required,max=150"`
	LastName     string `json:"last_name" binding:"max=150"`
	Role         string `json:"role" binding:"omitempty,oneof=driver passenger"`
	PhoneNumber  string `json:"phone_number" binding:"omitempty,rw_phone"`
	VehicleModel string `json:"vehicle_model" binding:"max=100"`
	VehiclePlate string `json:"vehicle_plate_number" binding:"omitempty,rw_plate"`
	VehicleSeats int    `json:"vehicle_seats" binding:"gte=0,lte=60"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest leaves nil fields untouched; an empty string clears a field.
type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name" binding:"omitempty,max=150"`
	LastName     *string `json:"last_name" binding:"omitempty,max=150"`
	PhoneNumber  *string `json:"phone_number"`
	Bio          *string `json:"bio" binding:"omitempty,max=1000"`
	VehicleModel *string `json:"vehicle_model" binding:"omitempty,max=100"`
	VehiclePlate *string `json:"vehicle_plate_number"`
	VehicleSeats *int    `json:"vehicle_seats" binding:"omitempty,gte=0,lte=60"`
}

type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"access_token"`
	ExpiresIn int64        `json:"expires_in"`
}
