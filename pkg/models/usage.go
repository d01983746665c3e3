package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CostPlaces is the number of decimal places every USD amount is rounded to.
const CostPlaces = 6

// BreakdownNote accompanies every exposed breakdown. The segmentation is a
// lexical approximation for display and does not match the provider's
// subword tokenizer.
const BreakdownNote = "illustrative word/punctuation split for display only; not the model's real token boundaries"

// TokenizationResult is the outcome of counting tokens for a piece of text.
// TokenCount comes from the provider; WordCount and CharCount are computed
// locally and never used for pricing.
type TokenizationResult struct {
	TokenCount int      `json:"token_count"`
	WordCount  int      `json:"word_count"`
	CharCount  int      `json:"char_count"`
	Breakdown  []string `json:"breakdown,omitempty"`
}

// CostBreakdown is the USD cost of a request, each amount rounded to six
// decimal places. TotalCostUSD is always InputCostUSD + OutputCostUSD.
type CostBreakdown struct {
	InputTokens   int             `json:"input_tokens"`
	OutputTokens  int             `json:"output_tokens"`
	InputCostUSD  decimal.Decimal `json:"input_cost_usd"`
	OutputCostUSD decimal.Decimal `json:"output_cost_usd"`
	TotalCostUSD  decimal.Decimal `json:"total_cost_usd"`
}

// MarshalJSON renders amounts as JSON numbers with a fixed six decimals.
func (c CostBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		InputTokens   int         `json:"input_tokens"`
		OutputTokens  int         `json:"output_tokens"`
		InputCostUSD  json.Number `json:"input_cost_usd"`
		OutputCostUSD json.Number `json:"output_cost_usd"`
		TotalCostUSD  json.Number `json:"total_cost_usd"`
	}{
		InputTokens:   c.InputTokens,
		OutputTokens:  c.OutputTokens,
		InputCostUSD:  fixed(c.InputCostUSD),
		OutputCostUSD: fixed(c.OutputCostUSD),
		TotalCostUSD:  fixed(c.TotalCostUSD),
	})
}

// ConvertedCost is a total cost expressed in a display currency.
type ConvertedCost struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// MarshalJSON renders amounts as JSON numbers with a fixed six decimals.
func (c ConvertedCost) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency string      `json:"currency"`
		Rate     json.Number `json:"rate"`
		Amount   json.Number `json:"amount"`
	}{
		Currency: c.Currency,
		Rate:     json.Number(c.Rate.String()),
		Amount:   fixed(c.Amount),
	})
}

func fixed(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixedBank(CostPlaces))
}

// Estimate combines a token count with its cost for one model.
type Estimate struct {
	Model     string             `json:"model"`
	Provider  string             `json:"provider"`
	Tokens    TokenizationResult `json:"tokens"`
	Cost      CostBreakdown      `json:"cost"`
	Converted *ConvertedCost     `json:"converted,omitempty"`
}

// TokenizeResponse is the body returned by POST /tokenize.
type TokenizeResponse struct {
	Model         string         `json:"model"`
	Provider      string         `json:"provider"`
	InputTokens   int            `json:"input_tokens"`
	OutputTokens  int            `json:"output_tokens"`
	WordCount     int            `json:"word_count"`
	CharCount     int            `json:"char_count"`
	InputCostUSD  json.Number    `json:"input_cost_usd"`
	OutputCostUSD json.Number    `json:"output_cost_usd"`
	TotalCostUSD  json.Number    `json:"total_cost_usd"`
	Converted     *ConvertedCost `json:"converted,omitempty"`
	Breakdown     []string       `json:"breakdown"`
	BreakdownNote string         `json:"breakdown_note,omitempty"`
}

// NewTokenizeResponse flattens an Estimate for the wire. Breakdown is null
// unless detailed was requested.
func NewTokenizeResponse(est Estimate, detailed bool) TokenizeResponse {
	resp := TokenizeResponse{
		Model:         est.Model,
		Provider:      est.Provider,
		InputTokens:   est.Cost.InputTokens,
		OutputTokens:  est.Cost.OutputTokens,
		WordCount:     est.Tokens.WordCount,
		CharCount:     est.Tokens.CharCount,
		InputCostUSD:  fixed(est.Cost.InputCostUSD),
		OutputCostUSD: fixed(est.Cost.OutputCostUSD),
		TotalCostUSD:  fixed(est.Cost.TotalCostUSD),
		Converted:     est.Converted,
	}
	if detailed {
		resp.Breakdown = est.Tokens.Breakdown
		if resp.Breakdown == nil {
			resp.Breakdown = []string{}
		}
		resp.BreakdownNote = BreakdownNote
	}
	return resp
}

// ModelInfo describes one price list row on the wire.
type ModelInfo struct {
	Model         string      `json:"model"`
	Name          string      `json:"name,omitempty"`
	Provider      string      `json:"provider"`
	Unit          string      `json:"unit"`
	InputPrice    json.Number `json:"input_price"`
	OutputPrice   json.Number `json:"output_price"`
	ContextWindow int         `json:"context_window,omitempty"`
	Implemented   bool        `json:"implemented"`
}

// NewModelInfo builds a ModelInfo from plain values.
func NewModelInfo(model, name, provider, unit string, input, output decimal.Decimal, contextWindow int, implemented bool) ModelInfo {
	return ModelInfo{
		Model:         model,
		Name:          name,
		Provider:      provider,
		Unit:          unit,
		InputPrice:    json.Number(input.String()),
		OutputPrice:   json.Number(output.String()),
		ContextWindow: contextWindow,
		Implemented:   implemented,
	}
}
