package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tokenwise/tokenwise/pkg/models"
)

// Calculator prices token counts against a Table.
type Calculator struct {
	table *Table
	rates map[string]decimal.Decimal
}

// NewCalculator creates a Calculator. rates maps an upper-case currency
// code to the number of currency units per USD; it may be nil.
func NewCalculator(table *Table, rates map[string]decimal.Decimal) *Calculator {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return &Calculator{table: table, rates: normalized}
}

// Table returns the price list the calculator uses.
func (c *Calculator) Table() *Table {
	return c.table
}

// Cost prices inputTokens and outputTokens for model.
func (c *Calculator) Cost(model string, inputTokens, outputTokens int) (models.CostBreakdown, error) {
	entry, err := c.table.Lookup(model)
	if err != nil {
		return models.CostBreakdown{}, err
	}
	return EntryCost(entry, inputTokens, outputTokens)
}

// EntryCost prices token counts with a single entry. Input and output are
// rounded half-to-even to six places independently and the total is their
// sum, so the parts always add up to the total exactly.
func EntryCost(e Entry, inputTokens, outputTokens int) (models.CostBreakdown, error) {
	if inputTokens < 0 || outputTokens < 0 {
		return models.CostBreakdown{}, models.ErrNegativeTokens
	}
	in := unitCost(inputTokens, e.Divisor(), e.Input)
	out := unitCost(outputTokens, e.Divisor(), e.Output)
	return models.CostBreakdown{
		InputTokens:   inputTokens,
		OutputTokens:  outputTokens,
		InputCostUSD:  in,
		OutputCostUSD: out,
		TotalCostUSD:  in.Add(out),
	}, nil
}

// unitCost computes tokens / divisor * price. Division by 10^3 or 10^6 is
// exact in decimal so no precision is lost before rounding.
func unitCost(tokens int, divisor, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(tokens)).
		Div(divisor).
		Mul(price).
		RoundBank(models.CostPlaces)
}

// Convert expresses a USD amount in a configured display currency.
func (c *Calculator) Convert(amountUSD decimal.Decimal, currency string) (models.ConvertedCost, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	rate, ok := c.rates[code]
	if !ok {
		return models.ConvertedCost{}, fmt.Errorf("%w: %q", models.ErrUnknownCurrency, currency)
	}
	return models.ConvertedCost{
		Currency: code,
		Rate:     rate,
		Amount:   amountUSD.Mul(rate).RoundBank(models.CostPlaces),
	}, nil
}

// HasCurrency reports whether currency has a configured rate.
func (c *Calculator) HasCurrency(currency string) bool {
	_, ok := c.rates[strings.ToUpper(strings.TrimSpace(currency))]
	return ok
}

// Currencies returns the configured display currency codes, sorted.
func (c *Calculator) Currencies() []string {
	out := make([]string, 0, len(c.rates))
	for code := range c.rates {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
