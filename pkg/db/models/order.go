package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
)

// Order is the immutable snapshot produced by placement. Only Status moves
// afterward (through the OrderStatus machine), plus TransferReceipt while the
// order is still pending.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	PaymentMethodID uuid.UUID         `gorm:"column:payment_method_id;type:uuid;not null"`
	OrderDate       time.Time         `gorm:"column:order_date;autoCreateTime"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	ShippingAddress *string           `gorm:"column:shipping_address"`
	TransferReceipt *string           `gorm:"column:transfer_receipt"`

	Items         []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID"`
}
