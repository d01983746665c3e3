package router

import (
	"errors"
	"testing"

	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/pricing"
	"github.com/tokenwise/tokenwise/pkg/provider"
	"github.com/tokenwise/tokenwise/pkg/provider/providertest"
)

func newRouter(aliases map[string]string) (*Router, *providertest.Fake) {
	fake := &providertest.Fake{}
	return New(pricing.Default(), map[string]provider.Provider{"google": fake}, aliases), fake
}

func TestResolve(t *testing.T) {
	r, fake := newRouter(nil)
	route, err := r.Resolve("gemini-2.5-flash")
	if err != nil {
		t.Fatal(err)
	}
	if route.Model != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash, got %s", route.Model)
	}
	if route.Entry.Provider != "google" {
		t.Errorf("expected google provider, got %s", route.Entry.Provider)
	}
	if route.Provider != fake {
		t.Error("expected the google client")
	}
}

func TestResolveWithAlias(t *testing.T) {
	r, _ := newRouter(map[string]string{"fast": "gemini-2.5-flash-lite"})
	route, err := r.Resolve("fast")
	if err != nil {
		t.Fatal(err)
	}
	if route.Model != "gemini-2.5-flash-lite" {
		t.Errorf("expected alias target, got %s", route.Model)
	}
}

func TestResolveUnknownModel(t *testing.T) {
	r, _ := newRouter(nil)
	_, err := r.Resolve("gpt-99")
	if !errors.Is(err, models.ErrModelNotSupported) {
		t.Fatalf("expected ErrModelNotSupported, got %v", err)
	}
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Error("expected an invalid input error")
	}
}

func TestResolveProviderNotImplemented(t *testing.T) {
	r, _ := newRouter(nil)
	_, err := r.Resolve("gpt-4o-mini")
	if !errors.Is(err, models.ErrProviderNotImplemented) {
		t.Fatalf("expected ErrProviderNotImplemented, got %v", err)
	}
}

func TestResolveAliasToUnknownModel(t *testing.T) {
	r, _ := newRouter(map[string]string{"broken": "nope"})
	_, err := r.Resolve("broken")
	if !errors.Is(err, models.ErrModelNotSupported) {
		t.Fatalf("expected ErrModelNotSupported, got %v", err)
	}
}

func TestImplemented(t *testing.T) {
	r, _ := newRouter(nil)
	if !r.Implemented("google") {
		t.Error("expected google to be implemented")
	}
	if r.Implemented("openai") {
		t.Error("expected openai to be unimplemented")
	}
}

func TestCanonical(t *testing.T) {
	r, _ := newRouter(map[string]string{"fast": "gemini-2.5-flash-lite"})
	if got := r.Canonical("fast"); got != "gemini-2.5-flash-lite" {
		t.Errorf("Canonical(fast) = %s", got)
	}
	if got := r.Canonical("gpt-4o-mini"); got != "gpt-4o-mini" {
		t.Errorf("Canonical(gpt-4o-mini) = %s", got)
	}
}
