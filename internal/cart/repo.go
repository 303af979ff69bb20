package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
)

// Repository exposes cart persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
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

// FindOrCreateByUser returns the user's cart, creating the row on first use.
func (r *Repository) FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// lost the creation race; the other request's cart wins
		if existing, ferr := r.FindByUser(ctx, userID); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	created.Items = []models.CartItem{}
	return created, nil
}

// sqlite has no FOR UPDATE; its single writer already gives the same
// exclusion, so the clause is only emitted on dialects that support it.
func rowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}

// LockCart takes the cart row lock. Mutations and placement both acquire it
// inside their transactions, so a cart's item collection only ever changes
// under one holder at a time.
func (r *Repository) LockCart(ctx context.Context, cartID uuid.UUID) error {
	q := r.db.WithContext(ctx)
	if rowLocks(r.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.Cart
	return q.Where("id = ?", cartID).First(&row).Error
}

// FindByUserLocked loads the cart like FindByUser after taking its row lock.
func (r *Repository) FindByUserLocked(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	q := r.db.WithContext(ctx)
	if rowLocks(r.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.Cart
	if err := q.Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

// FindByUser loads the user's cart with its items and product snapshots.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindItem loads one cart line by cart and product.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity overwrites one line's quantity.
func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", quantity).Error
}

// IncrementItemQuantity adds delta to one line's quantity in a single
// statement, so merging adds never loses a concurrent update.
func (r *Repository) IncrementItemQuantity(ctx context.Context, itemID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// DeleteItem removes one cart line.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", itemID).Error
}

// ClearItems deletes every line in the cart. Clearing an already-empty cart
// is a no-op.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// TouchCart bumps the cart's updated_at.
func (r *Repository) TouchCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
