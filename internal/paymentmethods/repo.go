package paymentmethods

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
)

// Repository exposes payment method persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payment methods repo bound to the provided GORM DB.
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

// Create inserts a payment method.
func (r *Repository) Create(ctx context.Context, method *models.PaymentMethod) (*models.PaymentMethod, error) {
	if err := r.db.WithContext(ctx).Create(method).Error; err != nil {
		return nil, err
	}
	return method, nil
}

// FindByID loads one payment method.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

// List returns payment methods, optionally only the active ones.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentMethod{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var methods []models.PaymentMethod
	if err := query.Order("method_name ASC").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// Update applies column updates to the payment method row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.PaymentMethod{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the payment method row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PaymentMethod{}, "id = ?", id).Error
}
