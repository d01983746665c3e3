// Package tokens counts tokens through the provider and prices them.
package tokens

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/pricing"
	"github.com/tokenwise/tokenwise/pkg/router"
)

// Counter counts tokens with the provider that serves a model.
type Counter struct {
	router *router.Router
	calc   *pricing.Calculator
}

// NewCounter creates a Counter.
func NewCounter(r *router.Router, calc *pricing.Calculator) *Counter {
	return &Counter{router: r, calc: calc}
}

// Count returns the provider's token count for text under model. Word and
// character counts are computed locally. When detailed is set the result
// also carries the illustrative Breakdown.
func (c *Counter) Count(ctx context.Context, text, model string, detailed bool) (models.TokenizationResult, error) {
	route, err := c.router.Resolve(model)
	if err != nil {
		return models.TokenizationResult{}, err
	}
	return c.count(ctx, route, text, detailed)
}

func (c *Counter) count(ctx context.Context, route router.Route, text string, detailed bool) (models.TokenizationResult, error) {
	n, err := route.Provider.CountTokens(ctx, route.Model, text)
	if err != nil {
		slog.Error("token count failed", "model", route.Model, "error", err)
		return models.TokenizationResult{}, models.UpstreamError(err)
	}
	if n < 0 {
		return models.TokenizationResult{}, models.UpstreamError(fmt.Errorf("negative token count %d", n))
	}

	res := models.TokenizationResult{
		TokenCount: n,
		WordCount:  len(strings.Fields(text)),
		CharCount:  utf8.RuneCountInString(text),
	}
	if detailed {
		res.Breakdown = Breakdown(text)
	}
	return res, nil
}

// Estimate counts text as input tokens and prices it together with the
// caller's outputTokens estimate. The provider is only asked for the input
// count; output length is never measured here. A non-empty currency adds a
// converted total.
func (c *Counter) Estimate(ctx context.Context, text, model string, outputTokens int, detailed bool, currency string) (models.Estimate, error) {
	if outputTokens < 0 {
		return models.Estimate{}, models.ErrNegativeTokens
	}
	if currency != "" && !c.calc.HasCurrency(currency) {
		return models.Estimate{}, fmt.Errorf("%w: %q", models.ErrUnknownCurrency, currency)
	}
	route, err := c.router.Resolve(model)
	if err != nil {
		return models.Estimate{}, err
	}

	tok, err := c.count(ctx, route, text, detailed)
	if err != nil {
		return models.Estimate{}, err
	}

	cost, err := pricing.EntryCost(route.Entry, tok.TokenCount, outputTokens)
	if err != nil {
		return models.Estimate{}, err
	}

	est := models.Estimate{
		Model:    route.Model,
		Provider: route.Entry.Provider,
		Tokens:   tok,
		Cost:     cost,
	}
	if currency != "" {
		conv, err := c.calc.Convert(cost.TotalCostUSD, currency)
		if err != nil {
			return models.Estimate{}, err
		}
		est.Converted = &conv
	}
	return est, nil
}
