package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

// ReservationRequest asks for qty units of one product.
type ReservationRequest struct {
	ProductID uuid.UUID
	Qty       int
}

// ShortfallDetail is attached to insufficient-stock errors so clients can see
// which line failed and what was actually available.
type ShortfallDetail struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

// Ledger performs stock movements. Every mutation is a single guarded UPDATE,
// so a concurrent decrement can never drive stock below zero regardless of
// isolation level.
type Ledger struct{}

// NewLedger exposes the default stock ledger.
func NewLedger() Ledger {
	return Ledger{}
}

// Reserve decrements stock for one product inside the caller's transaction.
// A zero-row update means the guard failed: the product is gone or the stock
// on hand is short of the request.
func (Ledger) Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory reserve")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_quantity >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve inventory")
	}
	if res.RowsAffected == 0 {
		return shortfallError(ctx, tx, productID, qty)
	}
	return nil
}

// ReserveAll reserves every request or none: the first shortfall aborts, and
// rolling back the surrounding transaction undoes the earlier decrements.
func (l Ledger) ReserveAll(ctx context.Context, tx *gorm.DB, requests []ReservationRequest) error {
	for _, req := range requests {
		if err := l.Reserve(ctx, tx, req.ProductID, req.Qty); err != nil {
			return err
		}
	}
	return nil
}

// Release returns previously reserved stock, for rejected or refunded lines.
func (Ledger) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory release")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = stock_quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release inventory")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func shortfallError(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	var product models.Product
	err := tx.WithContext(ctx).
		Select("id", "stock_quantity").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stock")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(ShortfallDetail{
			ProductID: productID,
			Requested: qty,
			Available: product.StockQuantity,
		})
}
