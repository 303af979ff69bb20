package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumine-jewelry/lumine-backend/pkg/config"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.GenAIConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: baseURL,
	}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	imageBytes := []byte("png-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}

		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 || req.Contents[0].Parts[0].Text == "" {
			t.Errorf("unexpected request body: %+v", req)
		}

		resp := generateContentResponse{}
		resp.Candidates = []struct {
			Content content `json:"content"`
		}{
			{Content: content{Parts: []part{
				{Text: "here is your design"},
				{InlineData: &inlineData{
					MIMEType: "image/png",
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	image, err := client.GenerateImage(context.Background(), "a gold ring")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if image.MIMEType != "image/png" {
		t.Fatalf("unexpected mime %q", image.MIMEType)
	}
	if string(image.Data) != string(imageBytes) {
		t.Fatalf("image bytes mangled: %q", image.Data)
	}
}

func TestGenerateImageEmptyPrompt(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://127.0.0.1:0")
	_, err := client.GenerateImage(context.Background(), "  ")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGenerateImageNoImageInResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := generateContentResponse{}
		resp.Candidates = []struct {
			Content content `json:"content"`
		}{
			{Content: content{Parts: []part{{Text: "text only"}}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GenerateImage(context.Background(), "a gold ring")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGenerateImageStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeDependency},
		{http.StatusForbidden, pkgerrors.CodeDependency},
		{http.StatusTooManyRequests, pkgerrors.CodeRateLimit},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}

	for _, tc := range cases {
		status := tc.status
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"code":1,"message":"nope","status":"NOPE"}}`))
		}))

		client := newTestClient(t, server.URL)
		_, err := client.GenerateImage(context.Background(), "a gold ring")
		if !pkgerrors.IsCode(err, tc.code) {
			t.Errorf("status %d: expected %s, got %v", tc.status, tc.code, err)
		}
		server.Close()
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.GenAIConfig{}, logger.New(logger.Options{ServiceName: "test"}))
	if err == nil {
		t.Fatal("expected error without api key")
	}
}
