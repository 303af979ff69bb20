package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
	"github.com/lumine-jewelry/lumine-backend/pkg/types"
)

type fakeLimiterStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeLimiterStore() *fakeLimiterStore {
	return &fakeLimiterStore{counts: map[string]int64{}}
}

func (s *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func loginRequest(body, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	return req
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestAuthRateLimitPerIP(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(`{}`, "10.0.0.1:1234"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d blocked early: %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{}`, "10.0.0.1:1234"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("unexpected error code %q", code)
	}

	// a different address is unaffected
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{}`, "10.0.0.2:1234"))
	if rec.Code != http.StatusOK {
		t.Fatalf("other ip must pass: %d", rec.Code)
	}
}

func TestAuthRateLimitPerAccount(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// same account from rotating addresses, case and whitespace normalized
	bodies := []string{
		`{"identifier":"alice@example.com"}`,
		`{"identifier":"ALICE@example.com"}`,
	}
	for i, body := range bodies {
		rec := httptest.NewRecorder()
		req := loginRequest(body, "10.0.0.1:1234")
		req.Header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i+1))
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d blocked early: %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"identifier":" alice@example.com "}`, "10.0.0.9:1234"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// a different account still passes
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"email":"bob@example.com"}`, "10.0.0.9:1234"))
	if rec.Code != http.StatusOK {
		t.Fatalf("other account must pass: %d", rec.Code)
	}
}

func TestAuthRateLimitBodyStaysReadable(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 5)

	var downstreamBody string
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("downstream read: %v", err)
		}
		downstreamBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"identifier":"alice@example.com","password":"hunter2"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(body, "10.0.0.1:1234"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if downstreamBody != body {
		t.Fatalf("body mangled by middleware: %q", downstreamBody)
	}
}

func TestAuthRateLimitDisabledPolicy(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(`{}`, "10.0.0.1:1234"))
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled policy must pass everything, got %d", rec.Code)
		}
	}
	if len(store.counts) != 0 {
		t.Fatal("disabled policy must not touch the store")
	}
}

func TestAuthRateLimitStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	store.err = errors.New("redis down")
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{}`, "10.0.0.1:1234"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the store fails, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeDependency) {
		t.Fatalf("unexpected error code %q", code)
	}
}
