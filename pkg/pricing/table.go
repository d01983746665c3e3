// Package pricing holds the per-model price list and turns token counts
// into USD costs.
package pricing

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tokenwise/tokenwise/pkg/models"
)

// Pricing units.
const (
	UnitThousand = "1K"
	UnitMillion  = "1M"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

//go:embed models.json
var defaultTable []byte

// Entry is the price list row for one model. Prices are USD per Unit tokens.
type Entry struct {
	Model         string
	Name          string
	Provider      string
	Unit          string
	Input         decimal.Decimal
	Output        decimal.Decimal
	ContextWindow int
}

// Divisor returns the number of tokens one unit price covers.
func (e Entry) Divisor() decimal.Decimal {
	if e.Unit == UnitThousand {
		return thousand
	}
	return million
}

// fileEntry mirrors the on-disk JSON layout.
type fileEntry struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	ContextWindow int    `json:"context_window"`
	Pricing       struct {
		Unit   string          `json:"unit"`
		Input  decimal.Decimal `json:"input"`
		Output decimal.Decimal `json:"output"`
	} `json:"pricing"`
}

// Table is an immutable model -> Entry mapping. It is safe for concurrent
// readers once constructed.
type Table struct {
	entries map[string]Entry
	ids     []string
}

// Default returns the price list compiled into the binary.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("pricing: embedded table: %v", err))
	}
	return t
}

// Load reads a price list from a JSON file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a JSON price list.
func Parse(data []byte) (*Table, error) {
	raw := make(map[string]fileEntry)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse pricing: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for model, fe := range raw {
		entries = append(entries, Entry{
			Model:         model,
			Name:          fe.Name,
			Provider:      fe.Provider,
			Unit:          fe.Pricing.Unit,
			Input:         fe.Pricing.Input,
			Output:        fe.Pricing.Output,
			ContextWindow: fe.ContextWindow,
		})
	}
	return New(entries)
}

// New builds a Table from entries, rejecting duplicates and invalid rows.
func New(entries []Entry) (*Table, error) {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if err := validate(e); err != nil {
			return nil, err
		}
		if _, dup := t.entries[e.Model]; dup {
			return nil, fmt.Errorf("model %q: duplicate entry", e.Model)
		}
		t.entries[e.Model] = e
		t.ids = append(t.ids, e.Model)
	}
	sort.Strings(t.ids)
	return t, nil
}

func validate(e Entry) error {
	switch {
	case e.Model == "":
		return fmt.Errorf("entry with empty model id")
	case e.Provider == "":
		return fmt.Errorf("model %q: provider is required", e.Model)
	case e.Unit != UnitThousand && e.Unit != UnitMillion:
		return fmt.Errorf("model %q: unit must be %q or %q, got %q", e.Model, UnitThousand, UnitMillion, e.Unit)
	case e.Input.IsNegative() || e.Output.IsNegative():
		return fmt.Errorf("model %q: prices must not be negative", e.Model)
	}
	return nil
}

// Lookup returns the entry for model or models.ErrModelNotSupported.
func (t *Table) Lookup(model string) (Entry, error) {
	e, ok := t.entries[model]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", models.ErrModelNotSupported, model)
	}
	return e, nil
}

// Models returns every model id, sorted.
func (t *Table) Models() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Entries returns every entry ordered by model id.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.entries[id])
	}
	return out
}
