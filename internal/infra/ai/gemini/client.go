package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash-001"

// Client calls the Gemini generateContent API. The SDK client is created per
// call so each request carries only the caller's key.
type Client struct {
	Model           string
	BaseURL         string
	MaxOutputTokens int32
	HTTP            *http.Client
}

func NewClient(model, baseURL string, maxOutputTokens int) *Client {
	return &Client{Model: model, BaseURL: baseURL, MaxOutputTokens: int32(maxOutputTokens)}
}

func (c *Client) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}
	if c.HTTP != nil {
		cfg.HTTPClient = c.HTTP
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI client: %w", err)
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	var gen *genai.GenerateContentConfig
	if c.MaxOutputTokens > 0 {
		gen = &genai.GenerateContentConfig{MaxOutputTokens: c.MaxOutputTokens}
	}

	resp, err := cli.Models.GenerateContent(ctx, model, genai.Text(prompt), gen)
	if err != nil {
		return "", mapError(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

// mapError keeps the SDK error text (which already carries status and
// reason tokens) and adds a code for statuses that have no token.
func mapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("GenAI generate: %w", err)
	}

	code := ""
	msg := err.Error()
	for _, token := range domain.Codes() {
		if strings.Contains(msg, token) {
			code = token
			break
		}
	}
	if code == "" {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			code = domain.CodeAPIKeyInvalid
		case http.StatusForbidden:
			code = domain.CodePermissionDenied
		case http.StatusTooManyRequests:
			code = domain.CodeResourceExhausted
		}
	}
	return &domain.ProviderError{Code: code, Err: err}
}
