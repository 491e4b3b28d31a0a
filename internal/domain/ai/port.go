package ai

import "context"

// Provider is a hosted generative model. Each call is configured with the
// caller's key; implementations keep no per-key state between calls.
type Provider interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}
