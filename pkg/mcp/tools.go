package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/pricing"
)

type tool struct {
	def     mcp.Tool
	handler server.ToolHandlerFunc
}

func (s *Server) tools() []tool {
	return []tool{
		{
			def: mcp.NewTool("count_tokens",
				mcp.WithDescription("Count the tokens of a text with the model's own tokenizer. Optionally include an illustrative word/punctuation breakdown (not the real token boundaries)."),
				mcp.WithString("text", mcp.Required(), mcp.Description("Text to count")),
				mcp.WithString("model", mcp.Description("Model id (optional, defaults to the configured model)")),
				mcp.WithBoolean("detailed", mcp.Description("Include the illustrative breakdown")),
			),
			handler: s.handleCountTokens,
		},
		{
			def: mcp.NewTool("estimate_cost",
				mcp.WithDescription("Estimate the USD cost of a request. Pass either text (counted by the provider) or input_tokens."),
				mcp.WithString("model", mcp.Description("Model id (optional, defaults to the configured model)")),
				mcp.WithString("text", mcp.Description("Prompt text to count as input (optional)")),
				mcp.WithNumber("input_tokens", mcp.Description("Input token count, used when text is omitted")),
				mcp.WithNumber("output_tokens", mcp.Description("Expected output token count (optional, default 0)")),
				mcp.WithString("currency", mcp.Description("Also convert the total into this currency code (optional)")),
			),
			handler: s.handleEstimateCost,
		},
		{
			def: mcp.NewTool("summarize_text",
				mcp.WithDescription("Condense a text into a dense summary and report the tokens saved."),
				mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
				mcp.WithString("model", mcp.Description("Model id (optional, defaults to the configured model)")),
			),
			handler: s.handleSummarize,
		},
		{
			def: mcp.NewTool("list_models",
				mcp.WithDescription("List the models in the price list with their per-unit prices."),
			),
			handler: s.handleListModels,
		},
		{
			def: mcp.NewTool("chat",
				mcp.WithDescription("Send a single message to the chat persona and return its reply."),
				mcp.WithString("message", mcp.Required(), mcp.Description("User message")),
			),
			handler: s.handleChat,
		},
	}
}

func stringArg(req mcp.CallToolRequest, key string) string {
	v, _ := req.GetArguments()[key].(string)
	return v
}

func boolArg(req mcp.CallToolRequest, key string) bool {
	v, _ := req.GetArguments()[key].(bool)
	return v
}

// maxTokenArg bounds numeric token arguments to the range a float64 holds
// exactly.
const maxTokenArg = 1 << 53

// intArg reads a whole-number argument. ok is false when key is absent.
// Fractional, out of range and non-numeric values fail with
// models.ErrInvalidInput.
func intArg(req mcp.CallToolRequest, key string) (n int, ok bool, err error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, true, fmt.Errorf("%w: %s must be a whole number, got %v", models.ErrInvalidInput, key, v)
		}
		if math.Abs(v) > maxTokenArg {
			return 0, true, fmt.Errorf("%w: %s is out of range", models.ErrInvalidInput, key)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	}
	return 0, true, fmt.Errorf("%w: %s must be a number", models.ErrInvalidInput, key)
}

func (s *Server) model(req mcp.CallToolRequest) string {
	if m := stringArg(req, "model"); m != "" {
		return s.deps.Router.Canonical(m)
	}
	return s.deps.DefaultModel
}

// errorResult reports err as a tool-level error. Only invalid input and
// upstream failures are expected here.
func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return mcp.NewToolResultError("Invalid input: " + err.Error())
	default:
		return mcp.NewToolResultError("Provider error: " + err.Error())
	}
}

func (s *Server) handleCountTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := stringArg(req, "text")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	model := s.model(req)
	res, err := s.deps.Counter.Count(ctx, text, model, boolArg(req, "detailed"))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatTokenization(model, res)), nil
}

func (s *Server) handleEstimateCost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	model := s.model(req)
	outputTokens, _, err := intArg(req, "output_tokens")
	if err != nil {
		return errorResult(err), nil
	}
	currency := stringArg(req, "currency")

	if text := stringArg(req, "text"); text != "" {
		est, err := s.deps.Counter.Estimate(ctx, text, model, outputTokens, false, currency)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(FormatEstimate(est)), nil
	}

	inputTokens, ok, err := intArg(req, "input_tokens")
	if err != nil {
		return errorResult(err), nil
	}
	if !ok {
		return mcp.NewToolResultError("either text or input_tokens is required"), nil
	}
	entry, err := s.deps.Calculator.Table().Lookup(model)
	if err != nil {
		return errorResult(err), nil
	}
	cost, err := pricing.EntryCost(entry, inputTokens, outputTokens)
	if err != nil {
		return errorResult(err), nil
	}
	est := models.Estimate{Model: model, Provider: entry.Provider, Cost: cost}
	if currency != "" {
		conv, err := s.deps.Calculator.Convert(cost.TotalCostUSD, currency)
		if err != nil {
			return errorResult(err), nil
		}
		est.Converted = &conv
	}
	return mcp.NewToolResultText(FormatEstimate(est)), nil
}

func (s *Server) handleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := stringArg(req, "text")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	res := s.deps.Summarizer.Optimize(ctx, text, s.model(req))
	return mcp.NewToolResultText(formatSummary(res)), nil
}

func (s *Server) handleListModels(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatModels(s.deps.Router)), nil
}

func (s *Server) handleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg := stringArg(req, "message")
	if msg == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	reply, err := s.deps.Responder.Respond(ctx, []models.ChatMessage{{Role: models.RoleUser, Content: msg}})
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(reply), nil
}
