package orders

import (
	"github.com/google/uuid"

	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
)

// PlaceOrderInput captures everything placement needs beyond the cart itself.
type PlaceOrderInput struct {
	UserID          uuid.UUID
	PaymentMethodID uuid.UUID
	ShippingAddress *string
}

// UpdateStatusInput moves an order through its lifecycle.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
}

// UpdateReceiptInput attaches a transfer receipt to a pending order.
type UpdateReceiptInput struct {
	UserID          uuid.UUID
	OrderID         uuid.UUID
	TransferReceipt string
}

// ListFilters narrows order listings.
type ListFilters struct {
	Status *enums.OrderStatus
}
