package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts an order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items and payment method.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("PaymentMethod").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	var result []models.Order
	err := query.
		Preload("Items.Product").
		Preload("PaymentMethod").
		Order("order_date DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListAll returns every order for the back office, newest first.
func (r *Repository) ListAll(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	var result []models.Order
	err := query.
		Preload("Items.Product").
		Preload("PaymentMethod").
		Order("order_date DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus overwrites the order status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// UpdateReceipt stores the transfer receipt path.
func (r *Repository) UpdateReceipt(ctx context.Context, id uuid.UUID, receipt string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("transfer_receipt", receipt).Error
}

// CountByStatus groups order counts per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Count
	}
	return counts, nil
}

// SumRevenue totals the amounts of all orders not in the cancelled state.
func (r *Repository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
