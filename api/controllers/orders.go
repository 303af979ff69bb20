package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lumine-jewelry/lumine-backend/api/responses"
	"github.com/lumine-jewelry/lumine-backend/api/validators"
	"github.com/lumine-jewelry/lumine-backend/internal/orders"
	"github.com/lumine-jewelry/lumine-backend/internal/paymentmethods"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
	"github.com/lumine-jewelry/lumine-backend/pkg/uploads"
)

type placeOrderRequest struct {
	PaymentMethodID uuid.UUID `json:"payment_method_id" validate:"required"`
	ShippingAddress *string   `json:"shipping_address,omitempty" validate:"omitempty,max=500"`
}

type updateReceiptRequest struct {
	TransferReceipt string `json:"transfer_receipt" validate:"required,max=500"`
}

// PlaceOrder converts the caller's cart into an order.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Place(r.Context(), orders.PlaceOrderInput{
			UserID:          userID,
			PaymentMethodID: payload.PaymentMethodID,
			ShippingAddress: payload.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListMyOrders serves the caller's order history, newest first.
func ListMyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := orderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListByUser(r.Context(), userID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// GetMyOrder serves one of the caller's orders. Foreign orders read as
// not found.
func GetMyOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetForUser(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// AttachReceipt records a transfer receipt on a pending order.
func AttachReceipt(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateReceiptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateReceipt(r.Context(), orders.UpdateReceiptInput{
			UserID:          userID,
			OrderID:         orderID,
			TransferReceipt: payload.TransferReceipt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

var receiptExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".pdf":  {},
}

// UploadReceipt stores an uploaded transfer receipt file and records its
// path on the pending order.
func UploadReceipt(svc orders.Service, store uploads.Store, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(maxUploadMB) << 20
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		file, header, err := r.FormFile("receipt")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "a receipt file is required").
					WithDetails(map[string]any{"field": "receipt"}))
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if _, ok := receiptExtensions[ext]; !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unsupported receipt file type").
					WithDetails(map[string]any{"extension": ext}))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read receipt upload"))
			return
		}

		path, err := store.Save(uuid.NewString()+ext, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store receipt"))
			return
		}

		order, err := svc.UpdateReceipt(r.Context(), orders.UpdateReceiptInput{
			UserID:          userID,
			OrderID:         orderID,
			TransferReceipt: path,
		})
		if err != nil {
			// rejected order state must not leave the file behind
			if rerr := store.Remove(path); rerr != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "path", path), "orphan receipt cleanup failed")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ListPaymentMethods serves the active transfer channels for checkout.
func ListPaymentMethods(svc paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

func orderFilters(r *http.Request) (orders.ListFilters, error) {
	var filters orders.ListFilters
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return filters, nil
	}
	status := enums.OrderStatus(raw)
	if !status.IsValid() {
		return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": raw})
	}
	filters.Status = &status
	return filters, nil
}
