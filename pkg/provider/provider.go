// Package provider defines the contract for an external generative-language API.
package provider

import (
	"context"

	"github.com/tokenwise/tokenwise/pkg/models"
)

// Provider is an external model API. Both calls may be slow and may fail;
// callers make at most one attempt per inbound request.
type Provider interface {
	// Generate returns the model's reply to history under the given
	// system instruction. An empty system instruction sends none.
	Generate(ctx context.Context, model string, history []models.ChatMessage, system string) (string, error)
	// CountTokens returns the provider's authoritative token count for text.
	CountTokens(ctx context.Context, model, text string) (int, error)
}
