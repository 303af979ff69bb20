package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem freezes the unit price at placement; later catalog price changes
// never touch it. Subtotal == UnitPrice * Quantity.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
