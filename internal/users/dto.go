package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
)

// CreateUserDTO carries the fields needed to insert a new account.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Phone        *string
	DOB          *time.Time
	Gender       *enums.Gender
	Address      *string
	Role         enums.UserRole
}

// ToModel converts the DTO into a persistable user model.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		DOB:          d.DOB,
		Gender:       d.Gender,
		Address:      d.Address,
		Role:         role,
	}
}

// UserResponse is the public shape of an account, never carrying the hash.
type UserResponse struct {
	ID        uuid.UUID      `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FirstName *string        `json:"first_name,omitempty"`
	LastName  *string        `json:"last_name,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	DOB       *time.Time     `json:"dob,omitempty"`
	Gender    *enums.Gender  `json:"gender,omitempty"`
	Address   *string        `json:"address,omitempty"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromModel maps a persisted user to its response shape.
func FromModel(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		DOB:       user.DOB,
		Gender:    user.Gender,
		Address:   user.Address,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
