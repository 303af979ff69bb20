package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	ddl := `
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  jeweler_id TEXT NOT NULL,
  name TEXT NOT NULL,
  material TEXT,
  karat TEXT,
  weight NUMERIC,
  price NUMERIC NOT NULL,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  description TEXT,
  tags TEXT,
  image_path TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create products table: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) uuid.UUID {
	t.Helper()
	product := models.Product{
		ID:            uuid.New(),
		JewelerID:     uuid.New(),
		Name:          "seed",
		Price:         decimal.NewFromInt(10),
		StockQuantity: stock,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product.ID
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := db.Select("id", "stock_quantity").First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.StockQuantity
}

func TestReserveGuardedDecrement(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()

	productA := seedProduct(t, db, 5)
	productB := seedProduct(t, db, 1)

	if err := ledger.Reserve(ctx, db, productA, 3); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if got := stockOf(t, db, productA); got != 2 {
		t.Fatalf("expected stock 2, got %d", got)
	}

	err := ledger.Reserve(ctx, db, productA, 4)
	if err == nil {
		t.Fatal("expected shortfall error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("unexpected error: %v", err)
	}
	detail, ok := typed.Details().(ShortfallDetail)
	if !ok {
		t.Fatalf("expected shortfall detail, got %T", typed.Details())
	}
	if detail.Requested != 4 || detail.Available != 2 || detail.ProductID != productA {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if got := stockOf(t, db, productA); got != 2 {
		t.Fatalf("failed reserve must not change stock, got %d", got)
	}

	if err := ledger.Reserve(ctx, db, productB, 1); err != nil {
		t.Fatalf("last unit reserve: %v", err)
	}
	if got := stockOf(t, db, productB); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
}

func TestReserveInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()
	product := seedProduct(t, db, 5)

	for _, qty := range []int{0, -1} {
		err := ledger.Reserve(context.Background(), db, product, qty)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("qty %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestReserveMissingProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger()

	err := ledger.Reserve(context.Background(), db, uuid.New(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReserveAllRollsBackOnShortfall(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()

	productA := seedProduct(t, db, 5)
	productB := seedProduct(t, db, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.ReserveAll(ctx, tx, []ReservationRequest{
			{ProductID: productA, Qty: 3},
			{ProductID: productB, Qty: 2},
		})
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	if got := stockOf(t, db, productA); got != 5 {
		t.Fatalf("rollback must restore product a, got %d", got)
	}
	if got := stockOf(t, db, productB); got != 1 {
		t.Fatalf("product b must be untouched, got %d", got)
	}
}

func TestRelease(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	product := seedProduct(t, db, 2)

	if err := ledger.Release(ctx, db, product, 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := stockOf(t, db, product); got != 5 {
		t.Fatalf("expected stock 5, got %d", got)
	}

	// non-positive quantities are a no-op
	if err := ledger.Release(ctx, db, product, 0); err != nil {
		t.Fatalf("zero release: %v", err)
	}
	if got := stockOf(t, db, product); got != 5 {
		t.Fatalf("zero release must not change stock, got %d", got)
	}

	err := ledger.Release(ctx, db, uuid.New(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
