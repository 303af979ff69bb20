package models

import (
	"time"

	"github.com/google/uuid"
)

// Jeweler is a vendor profile; products and design requests hang off it.
type Jeweler struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	ShopName  string    `gorm:"column:shop_name;not null"`
	Bio       *string   `gorm:"column:bio"`
	Address   *string   `gorm:"column:address"`
	Phone     *string   `gorm:"column:phone"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Rating    float64   `gorm:"column:rating;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
