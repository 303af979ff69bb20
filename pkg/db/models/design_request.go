package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
)

// DesignRequest is a commission inquiry sent to a jeweler, optionally
// referencing one of the requester's generated designs.
type DesignRequest struct {
	ID                uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;index"`
	JewelerID         *uuid.UUID                `gorm:"column:jeweler_id;type:uuid"`
	GeneratedDesignID *uuid.UUID                `gorm:"column:generated_design_id;type:uuid"`
	RequestDate       time.Time                 `gorm:"column:request_date;autoCreateTime"`
	Description       *string                   `gorm:"column:description"`
	AttachmentURL     *string                   `gorm:"column:attachment_url"`
	EstimatedBudget   *decimal.Decimal          `gorm:"column:estimated_budget;type:numeric(12,2)"`
	JewelerPriceOffer *decimal.Decimal          `gorm:"column:jeweler_price_offer;type:numeric(12,2)"`
	Status            enums.DesignRequestStatus `gorm:"column:status;not null;default:'pending'"`

	Jeweler         *Jeweler         `gorm:"foreignKey:JewelerID"`
	GeneratedDesign *GeneratedDesign `gorm:"foreignKey:GeneratedDesignID"`
}
