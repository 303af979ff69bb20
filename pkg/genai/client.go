package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lumine-jewelry/lumine-backend/pkg/config"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
)

var (
	errAPIKeyRequired = errors.New("genai api key is required")
	errLoggerRequired = errors.New("genai logger is required")
)

// Client calls the Gemini generateContent API to produce jewelry design images.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logger     *logger.Logger
}

// GeneratedImage is a single decoded image returned by the model.
type GeneratedImage struct {
	MIMEType string
	Data     []byte
}

// NewClient initializes the Gemini wrapper and validates the credentials.
func NewClient(cfg config.GenAIConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     apiKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logg,
	}, nil
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateImage sends the prompt and returns the first image the model produced.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}

	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal genai request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build genai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.log(ctx, "request", map[string]any{"model": c.model})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx, "error", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image generation request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading image generation response")
	}

	if resp.StatusCode != http.StatusOK {
		c.log(ctx, "error", map[string]any{"status": resp.StatusCode})
		return nil, c.mapStatusError(resp.StatusCode, body)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding image generation response")
	}

	for _, candidate := range parsed.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, decErr := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if decErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, decErr, "decoding image bytes")
			}
			c.log(ctx, "response", map[string]any{"bytes": len(data), "mime": p.InlineData.MIMEType})
			return &GeneratedImage{MIMEType: p.InlineData.MIMEType, Data: data}, nil
		}
	}

	return nil, pkgerrors.New(pkgerrors.CodeDependency, "model returned no image")
}

// WithHTTPClient swaps the underlying transport, primarily for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

func (c *Client) mapStatusError(status int, body []byte) error {
	message := "image generation failed"
	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeDependency, "image generation rejected credentials")
	case status == http.StatusTooManyRequests:
		return pkgerrors.New(pkgerrors.CodeRateLimit, message)
	case status >= 400 && status < 500:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	}
}

func (c *Client) log(ctx context.Context, phase string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{"phase": phase}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Warn(ctx, "genai generate_image failed")
	default:
		c.logger.Info(ctx, fmt.Sprintf("genai %s", phase))
	}
}
