// Package chat forwards a conversation to the model under a fixed persona.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/router"
)

// Persona is the system instruction sent with every conversation.
const Persona = "You are a friendly AI who teases and flirt with the user diligently." +
	"You keep your answer short and concise, so that user need be overwhelmed by your answer." +
	"Add fun and tweak wherever possible." +
	"Try to answer according to the user replies in limited words."

// Responder replies to a chat history with a single model call.
type Responder struct {
	router  *router.Router
	model   string
	persona string
}

// Option customizes a Responder.
type Option func(*Responder)

// WithPersona replaces the default system instruction.
func WithPersona(persona string) Option {
	return func(r *Responder) { r.persona = persona }
}

// NewResponder creates a Responder that answers with model.
func NewResponder(r *router.Router, model string, opts ...Option) *Responder {
	resp := &Responder{router: r, model: model, persona: Persona}
	for _, opt := range opts {
		opt(resp)
	}
	return resp
}

// Model returns the model replies are generated with.
func (r *Responder) Model() string {
	return r.model
}

// Respond returns the model's reply to history.
//
// An empty history or an unknown role fails with models.ErrInvalidInput
// before any provider call. Provider errors and empty replies fail with
// models.ErrUpstream.
func (r *Responder) Respond(ctx context.Context, history []models.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", models.ErrEmptyHistory
	}
	normalized := make([]models.ChatMessage, len(history))
	for i, msg := range history {
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		if role != models.RoleUser && role != models.RoleModel {
			return "", fmt.Errorf("%w: message %d has role %q", models.ErrInvalidRole, i, msg.Role)
		}
		normalized[i] = models.ChatMessage{Role: role, Content: msg.Content}
	}

	route, err := r.router.Resolve(r.model)
	if err != nil {
		return "", err
	}

	text, err := route.Provider.Generate(ctx, route.Model, normalized, r.persona)
	if err != nil {
		slog.Error("chat generation failed", "model", route.Model, "messages", len(history), "error", err)
		return "", models.UpstreamError(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", models.ErrEmptyResponse
	}
	return text, nil
}
