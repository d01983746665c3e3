package router

import (
	"fmt"

	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/pricing"
	"github.com/tokenwise/tokenwise/pkg/provider"
)

// Route is a resolved model together with its price entry and the client
// that serves it.
type Route struct {
	Model    string
	Entry    pricing.Entry
	Provider provider.Provider
}

// Router resolves requested model names to a provider client.
type Router struct {
	table     *pricing.Table
	providers map[string]provider.Provider
	aliases   map[string]string
}

// New creates a Router. providers maps a pricing-table provider name (for
// example "google") to its client. aliases maps a client-facing name to a
// model id in the table and may be nil.
func New(table *pricing.Table, providers map[string]provider.Provider, aliases map[string]string) *Router {
	return &Router{table: table, providers: providers, aliases: aliases}
}

// Resolve returns the route for the requested model.
// Unknown models fail with models.ErrModelNotSupported; models whose
// provider has no client fail with models.ErrProviderNotImplemented.
func (r *Router) Resolve(requestedModel string) (Route, error) {
	model := r.Canonical(requestedModel)
	entry, err := r.table.Lookup(model)
	if err != nil {
		return Route{}, err
	}

	p, ok := r.providers[entry.Provider]
	if !ok || p == nil {
		return Route{}, fmt.Errorf("%w: %q (model %q)", models.ErrProviderNotImplemented, entry.Provider, model)
	}
	return Route{Model: model, Entry: entry, Provider: p}, nil
}

// Canonical returns the model id an alias points at, or name unchanged.
func (r *Router) Canonical(name string) string {
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}

// Implemented reports whether a client is registered for providerName.
func (r *Router) Implemented(providerName string) bool {
	p, ok := r.providers[providerName]
	return ok && p != nil
}

// Table returns the price list backing the router.
func (r *Router) Table() *pricing.Table {
	return r.table
}
