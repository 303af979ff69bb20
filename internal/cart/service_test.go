package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/internal/products"
	"github.com/lumine-jewelry/lumine-backend/pkg/db"
	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE products (
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
);`,
		`CREATE TABLE carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (cart_id, product_id)
);`,
		`CREATE TABLE jewelers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  shop_name TEXT NOT NULL,
  bio TEXT,
  address TEXT,
  phone TEXT,
  email TEXT NOT NULL UNIQUE,
  rating NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  image_path TEXT NOT NULL,
  display_order INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE TABLE categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  parent_id TEXT
);`,
		`CREATE TABLE product_categories (
  product_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  PRIMARY KEY (product_id, category_id)
);`,
	} {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}

type cartFixture struct {
	conn    *gorm.DB
	service Service
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	conn := setupCartTestDB(t)
	svc, err := NewService(NewRepository(conn), products.NewRepository(conn), db.NewFromGorm(conn))
	require.NoError(t, err)
	return &cartFixture{conn: conn, service: svc}
}

func (f *cartFixture) seedProduct(t *testing.T, price string, stock int) uuid.UUID {
	t.Helper()
	product := models.Product{
		ID:            uuid.New(),
		JewelerID:     uuid.New(),
		Name:          "piece",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, f.conn.Create(&product).Error)
	return product.ID
}

func TestGetCreatesEmptyCart(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	userID := uuid.New()

	view, err := f.service.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, view.UserID)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.ItemCount)
	assert.True(t, view.Total.IsZero())

	// second call returns the same cart, not a new one
	again, err := f.service.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, again.ID)
}

func TestAddItemMergesQuantities(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := f.seedProduct(t, "12.50", 10)

	view, err := f.service.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.ItemCount)

	view, err = f.service.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)
	require.Len(t, view.Items, 1, "same product must merge into one line")
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("62.50")), "total %s", view.Total)
}

// Concurrent adds on the same line must never lose an update: every add
// that reports success is reflected in the final quantity, and the product
// still occupies a single line.
func TestAddItemConcurrentAddsStayConsistent(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := f.seedProduct(t, "10.00", 100)

	_, err := f.service.Get(ctx, userID)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.AddItem(ctx, userID, productID, 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	var items []models.CartItem
	require.NoError(t, f.conn.Where("product_id = ?", productID).Find(&items).Error)
	require.LessOrEqual(t, len(items), 1, "same product must never split into multiple lines")

	quantity := 0
	if len(items) == 1 {
		quantity = items[0].Quantity
	}
	assert.GreaterOrEqual(t, quantity, successes, "a successful add was lost")
	assert.LessOrEqual(t, quantity, attempts)

	// the storm settled; one more add lands exactly once
	view, err := f.service.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, quantity+1, view.Items[0].Quantity)
}

func TestAddItemAdvisoryStockCheck(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := f.seedProduct(t, "10.00", 3)

	_, err := f.service.AddItem(ctx, userID, productID, 4)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)

	_, err = f.service.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)

	// merged quantity would exceed stock
	_, err = f.service.AddItem(ctx, userID, productID, 2)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, uuid.New(), f.seedProduct(t, "10.00", 5), 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	_, err = f.service.AddItem(ctx, uuid.New(), uuid.New(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := f.seedProduct(t, "10.00", 5)

	_, err := f.service.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)

	view, err := f.service.UpdateItem(ctx, userID, productID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.service.UpdateItem(ctx, userID, productID, -1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestUpdateItemOverwritesQuantity(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := f.seedProduct(t, "10.00", 5)

	_, err := f.service.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)

	view, err := f.service.UpdateItem(ctx, userID, productID, 4)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)

	_, err = f.service.UpdateItem(ctx, userID, productID, 6)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)

	_, err = f.service.UpdateItem(ctx, userID, f.seedProduct(t, "10.00", 5), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := f.seedProduct(t, "10.00", 5)

	_, err := f.service.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)

	view, err := f.service.RemoveItem(ctx, userID, productID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.service.RemoveItem(ctx, userID, productID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newCartFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	productA := f.seedProduct(t, "10.00", 5)
	productB := f.seedProduct(t, "20.00", 5)

	_, err := f.service.AddItem(ctx, userID, productA, 1)
	require.NoError(t, err)
	_, err = f.service.AddItem(ctx, userID, productB, 2)
	require.NoError(t, err)

	view, err := f.service.Clear(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())

	// clearing an already-empty cart succeeds
	view, err = f.service.Clear(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
