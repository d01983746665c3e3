package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tokenwise/tokenwise/pkg/chat"
	"github.com/tokenwise/tokenwise/pkg/config"
	"github.com/tokenwise/tokenwise/pkg/pricing"
	"github.com/tokenwise/tokenwise/pkg/provider"
	"github.com/tokenwise/tokenwise/pkg/provider/gemini"
	"github.com/tokenwise/tokenwise/pkg/router"
	"github.com/tokenwise/tokenwise/pkg/summarize"
	"github.com/tokenwise/tokenwise/pkg/tokens"
)

// app is the set of services every command is built from.
type app struct {
	cfg        *config.Config
	router     *router.Router
	calc       *pricing.Calculator
	counter    *tokens.Counter
	summarizer *summarize.Summarizer
	responder  *chat.Responder
}

// loadApp loads configuration, installs the process logger and wires the
// services. A Gemini client is registered whenever an API key is configured;
// online commands fail without one. Creating the client makes no network
// call, so offline commands can still report which providers are usable.
func loadApp(ctx context.Context, configPath string, online bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg.Log, os.Stderr)

	table := pricing.Default()
	if cfg.PricingPath != "" {
		table, err = pricing.Load(cfg.PricingPath)
		if err != nil {
			return nil, fmt.Errorf("load pricing: %w", err)
		}
	}

	providers := map[string]provider.Provider{}
	if online {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
	}
	if cfg.Provider.APIKey != "" {
		client, err := gemini.New(ctx, gemini.Options{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		providers[gemini.Name] = client
	}
	return newApp(cfg, table, providers), nil
}

func newApp(cfg *config.Config, table *pricing.Table, providers map[string]provider.Provider) *app {
	r := router.New(table, providers, cfg.Aliases)
	calc := pricing.NewCalculator(table, cfg.Rates())

	var opts []chat.Option
	if cfg.Persona != "" {
		opts = append(opts, chat.WithPersona(cfg.Persona))
	}
	return &app{
		cfg:        cfg,
		router:     r,
		calc:       calc,
		counter:    tokens.NewCounter(r, calc),
		summarizer: summarize.New(r),
		responder:  chat.NewResponder(r, r.Canonical(cfg.ChatModel), opts...),
	}
}

// model returns the canonical id for a --model flag, falling back to the
// configured default.
func (a *app) model(flag string) string {
	if flag == "" {
		return a.cfg.DefaultModel
	}
	return a.router.Canonical(flag)
}

func setupLogger(cfg config.LogConfig, w io.Writer) {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// readText returns args joined by spaces, or all of stdin when no args are
// given.
func readText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no input text: pass it as arguments or on stdin")
	}
	return text, nil
}
