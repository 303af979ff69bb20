package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GeneratedDesign records one AI-generated jewelry image. The row is only
// written after the image bytes were produced and stored; a failed generation
// leaves no record behind.
type GeneratedDesign struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	SelectedOptions json.RawMessage `gorm:"column:selected_options;type:jsonb"`
	ImagePath       string          `gorm:"column:image_path;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
