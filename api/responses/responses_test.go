package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}

	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["hello"] != "world" {
		t.Fatalf("unexpected payload: %+v", envelope)
	}
}

func TestWriteErrorDomainMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"requested": 4, "available": 2})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if uerr := json.Unmarshal(rec.Body.Bytes(), &envelope); uerr != nil {
		t.Fatalf("decode: %v", uerr)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "insufficient stock" {
		t.Fatalf("message %q", envelope.Error.Message)
	}
	if envelope.Error.Details == nil {
		t.Fatal("details must pass through for stock errors")
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: connection reset"), "secret db failure")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if uerr := json.Unmarshal(rec.Body.Bytes(), &envelope); uerr != nil {
		t.Fatalf("decode: %v", uerr)
	}
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal message leaked: %q", envelope.Error.Message)
	}
	if envelope.Error.Details != nil {
		t.Fatal("internal errors must not carry details")
	}
}

func TestWriteErrorUntypedError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("something odd"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if uerr := json.Unmarshal(rec.Body.Bytes(), &envelope); uerr != nil {
		t.Fatalf("decode: %v", uerr)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("code %q", envelope.Error.Code)
	}
}

func TestWriteErrorNil(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
}
