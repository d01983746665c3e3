package mcp

import (
	"fmt"
	"strings"

	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/router"
)

// formatTokenization formats a token count as text.
func formatTokenization(model string, res models.TokenizationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Token Count (%s)\n", model)
	fmt.Fprintf(&b, "  Tokens: %d\n", res.TokenCount)
	fmt.Fprintf(&b, "  Words:  %d\n", res.WordCount)
	fmt.Fprintf(&b, "  Chars:  %d\n", res.CharCount)
	if res.Breakdown != nil {
		fmt.Fprintf(&b, "\nBreakdown (%s):\n", models.BreakdownNote)
		b.WriteString("  " + strings.Join(res.Breakdown, " | ") + "\n")
	}
	return b.String()
}

// FormatEstimate renders a cost estimate as a text table. The CLI prints
// the same table.
func FormatEstimate(est models.Estimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cost Estimate (%s, %s)\n", est.Model, est.Provider)
	fmt.Fprintf(&b, "%-8s %12s %14s\n", "", "Tokens", "Cost (USD)")
	b.WriteString(strings.Repeat("-", 36) + "\n")
	fmt.Fprintf(&b, "%-8s %12d %14s\n", "Input", est.Cost.InputTokens, est.Cost.InputCostUSD.StringFixedBank(models.CostPlaces))
	fmt.Fprintf(&b, "%-8s %12d %14s\n", "Output", est.Cost.OutputTokens, est.Cost.OutputCostUSD.StringFixedBank(models.CostPlaces))
	fmt.Fprintf(&b, "%-8s %12d %14s\n", "Total",
		est.Cost.InputTokens+est.Cost.OutputTokens, est.Cost.TotalCostUSD.StringFixedBank(models.CostPlaces))
	if est.Tokens.WordCount > 0 || est.Tokens.CharCount > 0 {
		fmt.Fprintf(&b, "\nWords: %d  Chars: %d\n", est.Tokens.WordCount, est.Tokens.CharCount)
	}
	if est.Converted != nil {
		fmt.Fprintf(&b, "\nTotal in %s: %s (rate %s)\n",
			est.Converted.Currency, est.Converted.Amount.StringFixedBank(models.CostPlaces), est.Converted.Rate.String())
	}
	return b.String()
}

// formatSummary formats a summarization result as text.
func formatSummary(res models.SummarizeResponse) string {
	return fmt.Sprintf("%s\n\n"+
		"Original tokens: %d\n"+
		"Summary tokens:  %d\n"+
		"Tokens saved:    %d\n",
		res.Summary, res.OriginalTokenCount, res.SummaryTokenCount, res.TokensSaved)
}

// formatModels formats the price list as a text table.
func formatModels(r *router.Router) string {
	entries := r.Table().Entries()
	if len(entries) == 0 {
		return "No models configured."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-8s %-4s %12s %12s %10s %s\n",
		"Model", "Provider", "Unit", "Input", "Output", "Context", "Available")
	b.WriteString(strings.Repeat("-", 86) + "\n")
	for _, e := range entries {
		avail := "no"
		if r.Implemented(e.Provider) {
			avail = "yes"
		}
		fmt.Fprintf(&b, "%-24s %-8s %-4s %12s %12s %10d %s\n",
			e.Model, e.Provider, e.Unit, e.Input.String(), e.Output.String(), e.ContextWindow, avail)
	}
	return b.String()
}
