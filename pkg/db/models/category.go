package models

import "github.com/google/uuid"

// Category is a catalog grouping; ParentID builds the subcategory tree.
type Category struct {
	ID       uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string     `gorm:"column:name;not null"`
	ParentID *uuid.UUID `gorm:"column:parent_id;type:uuid"`

	Subcategories []Category `gorm:"foreignKey:ParentID"`
}
