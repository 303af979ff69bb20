package models

import "github.com/google/uuid"

// ProductImage is one entry of a product's ordered gallery.
type ProductImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ImagePath    string    `gorm:"column:image_path;not null"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
}
