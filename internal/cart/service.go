package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

// CartView is the cart aggregate the API returns: lines with product
// snapshots plus the running total.
type CartView struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart mutations for the authenticated user.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type service struct {
	repo     *Repository
	products productFinder
	tx       txRunner
}

// NewService constructs a cart service.
func NewService(repo *Repository, products productFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildView(cart), nil
}

// AddItem merges the quantity into an existing line for the same product
// instead of creating a second line. The stock check here is advisory only;
// placement re-validates atomically. The mutation runs under the cart row
// lock so it serializes with other mutations and with placement.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	err = s.mutate(ctx, userID, func(repo *Repository, cart *models.Cart) error {
		existing, err := repo.FindItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			target := existing.Quantity + quantity
			if target > product.StockQuantity {
				return insufficientStock(productID, target, product.StockQuantity)
			}
			if uerr := repo.IncrementItemQuantity(ctx, existing.ID, quantity); uerr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, uerr, "update cart item")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > product.StockQuantity {
				return insufficientStock(productID, quantity, product.StockQuantity)
			}
			if _, cerr := repo.CreateItem(ctx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
			}); cerr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, cerr, "create cart item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID)
}

// UpdateItem overwrites the line quantity; zero removes the line.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, insufficientStock(productID, quantity, product.StockQuantity)
	}

	err = s.mutate(ctx, userID, func(repo *Repository, cart *models.Cart) error {
		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
		if uerr := repo.UpdateItemQuantity(ctx, item.ID, quantity); uerr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, uerr, "update cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error) {
	err := s.mutate(ctx, userID, func(repo *Repository, cart *models.Cart) error {
		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
		if derr := repo.DeleteItem(ctx, item.ID); derr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, derr, "delete cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	err := s.mutate(ctx, userID, func(repo *Repository, cart *models.Cart) error {
		if cerr := repo.ClearItems(ctx, cart.ID); cerr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, cerr, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID)
}

// mutate runs fn inside a transaction holding the cart row lock. Placement
// takes the same lock, so a line can never slip in between its cart snapshot
// and the clear.
func (s *service) mutate(ctx context.Context, userID uuid.UUID, fn func(repo *Repository, cart *models.Cart) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindOrCreateByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if err := repo.LockCart(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}

		if err := fn(repo, cart); err != nil {
			return err
		}
		if err := repo.TouchCart(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
		}
		return nil
	})
}

func (s *service) view(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return buildView(cart), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func insufficientStock(productID uuid.UUID, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		})
}

func buildView(cart *models.Cart) *CartView {
	view := &CartView{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  cart.Items,
		Total:  decimal.Zero,
	}
	if view.Items == nil {
		view.Items = []models.CartItem{}
	}
	for _, item := range view.Items {
		view.ItemCount += item.Quantity
		if item.Product != nil {
			line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			view.Total = view.Total.Add(line)
		}
	}
	return view
}
