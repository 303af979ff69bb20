package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/internal/cart"
	"github.com/lumine-jewelry/lumine-backend/internal/inventory"
	"github.com/lumine-jewelry/lumine-backend/internal/paymentmethods"
	"github.com/lumine-jewelry/lumine-backend/pkg/db"
	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

// placement retries transient serialization aborts before surfacing a conflict
const maxPlacementAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order lifecycle operations.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, error)
	ListAll(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	UpdateReceipt(ctx context.Context, input UpdateReceiptInput) (*models.Order, error)
}

type service struct {
	repo      *Repository
	carts     *cart.Repository
	methods   *paymentmethods.Repository
	inventory inventory.Ledger
	tx        txRunner
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo        *Repository
	CartRepo    *cart.Repository
	MethodsRepo *paymentmethods.Repository
	Inventory   inventory.Ledger
	Tx          txRunner
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.MethodsRepo == nil {
		return nil, fmt.Errorf("payment methods repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:      params.Repo,
		carts:     params.CartRepo,
		methods:   params.MethodsRepo,
		inventory: params.Inventory,
		tx:        params.Tx,
	}, nil
}

// Place turns the user's cart into an order inside one transaction: validate
// the cart and payment method, decrement stock with guarded updates, freeze
// unit prices, write the order, and clear the cart. Any failure rolls the
// whole thing back. Serialization aborts are retried a bounded number of
// times before surfacing a retryable conflict.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PaymentMethodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id required")
	}

	var placed *models.Order
	var lastErr error
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		placed, lastErr = s.placeOnce(ctx, input)
		if lastErr == nil {
			return placed, nil
		}
		if !db.IsSerializationFailure(lastErr) {
			return nil, lastErr
		}
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "placement kept conflicting, retry the request")
}

func (s *service) placeOnce(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	var created *models.Order

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		methodsRepo := s.methods.WithTx(tx)
		ordersRepo := s.repo.WithTx(tx)

		// the cart row lock serializes placement against cart mutations
		userCart, err := cartRepo.FindByUserLocked(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		method, err := methodsRepo.FindByID(ctx, input.PaymentMethodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodePaymentUnavailable, "payment method unavailable")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
		}
		if !method.IsActive {
			return pkgerrors.New(pkgerrors.CodePaymentUnavailable, "payment method unavailable")
		}

		items := make([]models.OrderItem, 0, len(userCart.Items))
		total := decimal.Zero
		for _, line := range userCart.Items {
			if line.Product == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product no longer exists")
			}
			if err := s.inventory.Reserve(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			// price frozen at placement time
			unitPrice := line.Product.Price
			subtotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				Subtotal:  subtotal,
			})
		}

		order := &models.Order{
			UserID:          input.UserID,
			PaymentMethodID: input.PaymentMethodID,
			Status:          enums.OrderStatusPending,
			TotalAmount:     total,
			ShippingAddress: input.ShippingAddress,
			Items:           items,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if err := cartRepo.ClearItems(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the order is committed at this point; a failed reload must not make a
	// successful placement look like one the client should retry
	full, err := s.Get(ctx, created.ID)
	if err != nil {
		return created, nil
	}
	return full, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// GetForUser loads an order only if it belongs to the requesting user.
func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, error) {
	result, err := s.repo.ListByUser(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, error) {
	result, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

// UpdateStatus advances the lifecycle. Cancelling a not-yet-terminal order
// returns its reserved stock in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.repo.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status == input.Status {
			return nil
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
		}

		if input.Status == enums.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := s.inventory.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := ordersRepo.UpdateStatus(ctx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, input.OrderID)
}

// UpdateReceipt attaches a transfer receipt; only the owner may do it and
// only while the order is still pending.
func (s *service) UpdateReceipt(ctx context.Context, input UpdateReceiptInput) (*models.Order, error) {
	if strings.TrimSpace(input.TransferReceipt) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer receipt is required")
	}

	order, err := s.GetForUser(ctx, input.UserID, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt can only be attached to a pending order")
	}

	if err := s.repo.UpdateReceipt(ctx, order.ID, input.TransferReceipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transfer receipt")
	}
	return s.Get(ctx, order.ID)
}
