// Package gemini implements provider.Provider on top of the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/tokenwise/tokenwise/pkg/models"
	"google.golang.org/genai"
)

// Name is the provider name used in the pricing table.
const Name = "google"

// Options configures a Client.
type Options struct {
	APIKey string
	// BaseURL overrides the Gemini endpoint, mainly for tests.
	BaseURL string
}

// Client talks to the Gemini API.
type Client struct {
	client *genai.Client
}

// New creates a Gemini client. It does not perform any network call.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: opts.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &Client{client: c}, nil
}

// Generate sends the whole history in one GenerateContent call.
func (c *Client) Generate(ctx context.Context, model string, history []models.ChatMessage, system string) (string, error) {
	contents, err := toContents(history)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini generate: %w", err)
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate, skipping
// thought summaries.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// CountTokens asks Gemini for the exact token count of text.
func (c *Client) CountTokens(ctx context.Context, model, text string) (int, error) {
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: text}},
	}}
	resp, err := c.client.Models.CountTokens(ctx, model, contents, nil)
	if err != nil {
		return 0, fmt.Errorf("Gemini count tokens: %w", err)
	}
	return int(resp.TotalTokens), nil
}

func toContents(history []models.ChatMessage) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		var role string
		switch strings.ToLower(msg.Role) {
		case models.RoleUser:
			role = genai.RoleUser
		case models.RoleModel:
			role = genai.RoleModel
		default:
			return nil, fmt.Errorf("%w: got %q", models.ErrInvalidRole, msg.Role)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents, nil
}
