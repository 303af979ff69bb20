package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned app-side so callers can reference freshly created rows
// without a reload. The column defaults remain as a fallback for raw SQL.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *User) BeforeCreate(*gorm.DB) error            { ensureID(&m.ID); return nil }
func (m *Jeweler) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *Product) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *ProductImage) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }
func (m *Category) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
func (m *Cart) BeforeCreate(*gorm.DB) error            { ensureID(&m.ID); return nil }
func (m *CartItem) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
func (m *PaymentMethod) BeforeCreate(*gorm.DB) error   { ensureID(&m.ID); return nil }
func (m *Order) BeforeCreate(*gorm.DB) error           { ensureID(&m.ID); return nil }
func (m *OrderItem) BeforeCreate(*gorm.DB) error       { ensureID(&m.ID); return nil }
func (m *GeneratedDesign) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *DesignRequest) BeforeCreate(*gorm.DB) error   { ensureID(&m.ID); return nil }
