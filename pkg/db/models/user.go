package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
)

// User is a storefront account. Credential verification lives in the auth
// service; the order core only ever sees the resolved identity.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string         `gorm:"column:username;not null;uniqueIndex"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    *string        `gorm:"column:first_name"`
	LastName     *string        `gorm:"column:last_name"`
	Phone        *string        `gorm:"column:phone"`
	DOB          *time.Time     `gorm:"column:dob"`
	Gender       *enums.Gender  `gorm:"column:gender"`
	Address      *string        `gorm:"column:address"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
