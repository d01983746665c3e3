// Package providertest provides an in-memory provider.Provider for tests.
package providertest

import (
	"context"
	"strings"
	"sync"

	"github.com/tokenwise/tokenwise/pkg/models"
)

// Call records one Generate invocation.
type Call struct {
	Model   string
	History []models.ChatMessage
	System  string
}

// Fake is a scriptable provider. By default CountTokens returns the number
// of whitespace separated words and Generate echoes the last message.
type Fake struct {
	GenerateFunc func(ctx context.Context, model string, history []models.ChatMessage, system string) (string, error)
	CountFunc    func(ctx context.Context, model, text string) (int, error)

	mu         sync.Mutex
	calls      []Call
	countCalls int
}

// Generate implements provider.Provider.
func (f *Fake) Generate(ctx context.Context, model string, history []models.ChatMessage, system string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Model: model, History: history, System: system})
	f.mu.Unlock()

	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, model, history, system)
	}
	if len(history) == 0 {
		return "", nil
	}
	return history[len(history)-1].Content, nil
}

// CountTokens implements provider.Provider.
func (f *Fake) CountTokens(ctx context.Context, model, text string) (int, error) {
	f.mu.Lock()
	f.countCalls++
	f.mu.Unlock()

	if f.CountFunc != nil {
		return f.CountFunc(ctx, model, text)
	}
	return len(strings.Fields(text)), nil
}

// Calls returns every recorded Generate call.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CountCalls returns how many times CountTokens was called.
func (f *Fake) CountCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countCalls
}
