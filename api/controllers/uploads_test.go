package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumine-jewelry/lumine-backend/api/middleware"
	"github.com/lumine-jewelry/lumine-backend/internal/orders"
	"github.com/lumine-jewelry/lumine-backend/internal/products"
	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

type fakeUploadStore struct {
	saved   []string
	removed []string
}

func (s *fakeUploadStore) Save(filename string, data []byte) (string, error) {
	path := filepath.Join("static", "test", filename)
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *fakeUploadStore) Remove(path string) error {
	s.removed = append(s.removed, path)
	return nil
}

type stubOrdersService struct {
	orders.Service
	updateReceipt func(ctx context.Context, input orders.UpdateReceiptInput) (*models.Order, error)
}

func (s *stubOrdersService) UpdateReceipt(ctx context.Context, input orders.UpdateReceiptInput) (*models.Order, error) {
	return s.updateReceipt(ctx, input)
}

type stubProductsService struct {
	products.Service
	addImage func(ctx context.Context, productID uuid.UUID, imagePath string, displayOrder int) (*models.ProductImage, error)
}

func (s *stubProductsService) AddImage(ctx context.Context, productID uuid.UUID, imagePath string, displayOrder int) (*models.ProductImage, error) {
	return s.addImage(ctx, productID, imagePath, displayOrder)
}

func multipartUpload(t *testing.T, field, filename string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for key, value := range extra {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postReceiptUpload(t *testing.T, svc orders.Service, store *fakeUploadStore, userID, orderID uuid.UUID, filename string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/orders/{orderID}/receipt", UploadReceipt(svc, store, 5, nil))

	body, contentType := multipartUpload(t, "receipt", filename, []byte("fake-image-bytes"), nil)
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/receipt", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadReceiptAttachesStoredPath(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	orderID := uuid.New()
	store := &fakeUploadStore{}

	var gotInput orders.UpdateReceiptInput
	svc := &stubOrdersService{
		updateReceipt: func(_ context.Context, input orders.UpdateReceiptInput) (*models.Order, error) {
			gotInput = input
			return &models.Order{
				ID:              input.OrderID,
				UserID:          input.UserID,
				Status:          enums.OrderStatusPending,
				TransferReceipt: &input.TransferReceipt,
			}, nil
		},
	}

	rec := postReceiptUpload(t, svc, store, userID, orderID, "receipt.png")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved[0], gotInput.TransferReceipt)
	assert.Equal(t, userID, gotInput.UserID)
	assert.Equal(t, orderID, gotInput.OrderID)
	assert.Empty(t, store.removed)
}

func TestUploadReceiptRemovesFileWhenOrderRejects(t *testing.T) {
	t.Parallel()

	store := &fakeUploadStore{}
	svc := &stubOrdersService{
		updateReceipt: func(_ context.Context, _ orders.UpdateReceiptInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt can only be attached to a pending order")
		},
	}

	rec := postReceiptUpload(t, svc, store, uuid.New(), uuid.New(), "receipt.jpg")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	// the stored file does not outlive the rejected request
	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved, store.removed)
}

func TestUploadReceiptRejectsUnknownExtension(t *testing.T) {
	t.Parallel()

	store := &fakeUploadStore{}
	svc := &stubOrdersService{
		updateReceipt: func(_ context.Context, _ orders.UpdateReceiptInput) (*models.Order, error) {
			t.Fatal("service must not be called for an unsupported file type")
			return nil, nil
		},
	}

	rec := postReceiptUpload(t, svc, store, uuid.New(), uuid.New(), "receipt.exe")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Empty(t, store.saved)
}

func postProductImageUpload(t *testing.T, svc products.Service, store *fakeUploadStore, productID uuid.UUID, filename string, extra map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/products/{productID}/images/upload", UploadProductImage(svc, store, 5, nil))

	body, contentType := multipartUpload(t, "image", filename, []byte("fake-image-bytes"), extra)
	req := httptest.NewRequest(http.MethodPost, "/products/"+productID.String()+"/images/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadProductImageRecordsStoredPath(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	store := &fakeUploadStore{}

	var gotPath string
	var gotOrder int
	svc := &stubProductsService{
		addImage: func(_ context.Context, id uuid.UUID, imagePath string, displayOrder int) (*models.ProductImage, error) {
			require.Equal(t, productID, id)
			gotPath = imagePath
			gotOrder = displayOrder
			return &models.ProductImage{ID: uuid.New(), ProductID: id, ImagePath: imagePath, DisplayOrder: displayOrder}, nil
		},
	}

	rec := postProductImageUpload(t, svc, store, productID, "ring.webp", map[string]string{"display_order": "2"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved[0], gotPath)
	assert.Equal(t, 2, gotOrder)
	assert.Empty(t, store.removed)

	var envelope struct {
		Data models.ProductImage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, gotPath, envelope.Data.ImagePath)
}

func TestUploadProductImageRemovesFileWhenProductMissing(t *testing.T) {
	t.Parallel()

	store := &fakeUploadStore{}
	svc := &stubProductsService{
		addImage: func(_ context.Context, _ uuid.UUID, _ string, _ int) (*models.ProductImage, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}

	rec := postProductImageUpload(t, svc, store, uuid.New(), "ring.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved, store.removed)
}

func TestUploadProductImageValidatesDisplayOrder(t *testing.T) {
	t.Parallel()

	store := &fakeUploadStore{}
	svc := &stubProductsService{
		addImage: func(_ context.Context, _ uuid.UUID, _ string, _ int) (*models.ProductImage, error) {
			t.Fatal("service must not be called for a bad display order")
			return nil, nil
		},
	}

	rec := postProductImageUpload(t, svc, store, uuid.New(), "ring.png", map[string]string{"display_order": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Empty(t, store.saved)
}
