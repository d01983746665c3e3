package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all tokenwise configuration.
type Config struct {
	Listen string `yaml:"listen" env:"TOKENWISE_LISTEN"`
	// PricingPath points at a JSON price list. Empty uses the built-in table.
	PricingPath   string             `yaml:"pricing_path" env:"TOKENWISE_PRICING_PATH"`
	ChatModel     string             `yaml:"chat_model" env:"TOKENWISE_CHAT_MODEL"`
	DefaultModel  string             `yaml:"default_model" env:"TOKENWISE_DEFAULT_MODEL"`
	Persona       string             `yaml:"persona" env:"TOKENWISE_PERSONA"`
	Aliases       map[string]string  `yaml:"aliases" env:"TOKENWISE_ALIASES"`
	ExchangeRates map[string]float64 `yaml:"exchange_rates" env:"TOKENWISE_EXCHANGE_RATES"`
	Provider      ProviderConfig     `yaml:"provider"`
	Server        ServerConfig       `yaml:"server"`
	Log           LogConfig          `yaml:"log"`
}

// ProviderConfig holds the Gemini credentials.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key" env:"GOOGLE_API_KEY"`
	BaseURL string `yaml:"base_url" env:"GEMINI_BASE_URL"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	CORSOrigins     []string      `yaml:"cors_origins" env:"TOKENWISE_CORS_ORIGINS" envSeparator:","`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"TOKENWISE_REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TOKENWISE_SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"TOKENWISE_MAX_BODY_BYTES"`
}

// LogConfig controls structured logging. Format is "text" or "json".
type LogConfig struct {
	Level  string `yaml:"level" env:"TOKENWISE_LOG_LEVEL"`
	Format string `yaml:"format" env:"TOKENWISE_LOG_FORMAT"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:       ":8000",
		ChatModel:    "gemini-2.5-flash",
		DefaultModel: "gemini-2.5-flash",
		ExchangeRates: map[string]float64{
			"INR": 88.21,
		},
		Server: ServerConfig{
			CORSOrigins:     []string{"http://localhost:3000"},
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty) with environment variables expanded, then direct
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("chat_model is required")
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	for code, rate := range c.ExchangeRates {
		if rate <= 0 {
			return fmt.Errorf("exchange rate for %s must be positive", code)
		}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// RequireAPIKey reports an error when no provider credentials are set.
func (c *Config) RequireAPIKey() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}
	return nil
}

// Rates returns the exchange rates as decimals keyed by upper-case code.
func (c *Config) Rates() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.ExchangeRates))
	for code, rate := range c.ExchangeRates {
		out[strings.ToUpper(code)] = decimal.NewFromFloat(rate)
	}
	return out
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return lvl, nil
}
