// Package summarize condenses text through a fixed instruction prompt.
package summarize

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/router"
)

// FailureText is returned in place of a summary when the provider call fails.
const FailureText = "Error: Couldn't generate summary"

// ShortTextWords is the word count under which the model is told to return
// the input unchanged. The check is left to the model.
const ShortTextWords = 60

const promptTemplate = `
You are a highly efficient text compression algorithm. Your sole purpose is to summarize the provided text.

**CRITICAL RULES:**
1.  **DO NOT** add any commentary, explanations, or introductory phrases like "The user is asking..." or "This is a summary of...".
2.  If the 'Original Text' is already short (less than 60 words), do not try to summarize it. Instead, **RETURN THE ORIGINAL TEXT EXACTLY AS IT WAS PROVIDED.**
3.  Preserve all essential information, including names, places, numbers, and key decisions.
4.  Your output must be a concise, dense paragraph.

**Original Text:**
---
{{text}}
---
**Concise Summary:**
`

// Prompt embeds text verbatim in the summarization instructions.
func Prompt(text string) string {
	return strings.Replace(promptTemplate, "{{text}}", text, 1)
}

// Summarizer produces condensed paraphrases. It is best effort: failures
// degrade to FailureText rather than an error.
type Summarizer struct {
	router *router.Router
}

// New creates a Summarizer.
func New(r *router.Router) *Summarizer {
	return &Summarizer{router: r}
}

// Summarize returns a dense summary of text produced by model, or
// FailureText if the model cannot be resolved, the call fails or the reply
// is blank.
func (s *Summarizer) Summarize(ctx context.Context, text, model string) string {
	route, err := s.router.Resolve(model)
	if err != nil {
		slog.Warn("summarize: resolve model", "model", model, "error", err)
		return FailureText
	}

	history := []models.ChatMessage{{Role: models.RoleUser, Content: Prompt(text)}}
	out, err := route.Provider.Generate(ctx, route.Model, history, "")
	if err != nil {
		slog.Warn("summarize: generation failed", "model", route.Model, "error", err)
		return FailureText
	}
	summary := strings.TrimSpace(out)
	if summary == "" {
		slog.Warn("summarize: empty reply", "model", route.Model)
		return FailureText
	}
	return summary
}

// Optimize summarizes text and reports the token counts before and after.
// Counting is best effort too: a failed count is reported as zero.
func (s *Summarizer) Optimize(ctx context.Context, text, model string) models.SummarizeResponse {
	summary := s.Summarize(ctx, text, model)
	original := s.countTokens(ctx, text, model)
	condensed := s.countTokens(ctx, summary, model)

	saved := original - condensed
	if saved < 0 {
		saved = 0
	}
	return models.SummarizeResponse{
		Summary:            summary,
		OriginalTokenCount: original,
		SummaryTokenCount:  condensed,
		TokensSaved:        saved,
	}
}

func (s *Summarizer) countTokens(ctx context.Context, text, model string) int {
	route, err := s.router.Resolve(model)
	if err != nil {
		return 0
	}
	n, err := route.Provider.CountTokens(ctx, route.Model, text)
	if err != nil {
		slog.Warn("summarize: token count failed", "model", route.Model, "error", err)
		return 0
	}
	return n
}
