package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single mutable cart owned by a user, created lazily on first
// access. Items are cleared, never the cart row itself, when an order is
// placed.
type Cart struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}
