package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/ai/prompt"
)

const defaultMaxTokens = 2048

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Client talks to any OpenAI-compatible chat completion endpoint. A fresh
// go-openai client is built per call because the key belongs to the caller.
type Client struct {
	Model     string
	BaseURL   string
	MaxTokens int
	HTTP      *http.Client
}

func NewClient(model, baseURL string, maxTokens int) *Client {
	return &Client{Model: model, BaseURL: baseURL, MaxTokens: maxTokens}
}

func (c *Client) Generate(ctx context.Context, apiKey, userPrompt string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.HTTP != nil {
		cfg.HTTPClient = c.HTTP
	}
	cli := openai.NewClientWithConfig(cfg)

	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// mapError attaches a normalised code token based on the HTTP status.
func mapError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("chat completion: %w", err)
	}
	code := ""
	switch apiErr.HTTPStatusCode {
	case http.StatusUnauthorized:
		code = domain.CodeAPIKeyInvalid
	case http.StatusForbidden:
		code = domain.CodePermissionDenied
	case http.StatusTooManyRequests:
		code = domain.CodeQuotaExceeded
		if t, ok := apiErr.Code.(string); ok && t != "insufficient_quota" {
			code = domain.CodeResourceExhausted
		}
	}
	return &domain.ProviderError{Code: code, Err: err}
}
