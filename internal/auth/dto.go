package auth

import (
	"time"

	"github.com/lumine-jewelry/lumine-backend/internal/users"
)

// RegisterRequest carries the fields accepted at signup.
type RegisterRequest struct {
	Username  string     `json:"username" validate:"required,min=3,max=50"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8,max=128"`
	FirstName *string    `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string    `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone     *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	DOB       *time.Time `json:"dob,omitempty"`
	Gender    *string    `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address   *string    `json:"address,omitempty" validate:"omitempty,max=500"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse returns the minted token plus the account summary.
type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        users.UserResponse `json:"user"`
}

// UpdateProfileRequest carries partial profile updates for the current user.
type UpdateProfileRequest struct {
	FirstName *string    `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string    `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone     *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	DOB       *time.Time `json:"dob,omitempty"`
	Gender    *string    `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address   *string    `json:"address,omitempty" validate:"omitempty,max=500"`
}

// RegisterResponse returns the created account.
type RegisterResponse struct {
	User users.UserResponse `json:"user"`
}
