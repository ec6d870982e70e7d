// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Default receipt-scan endpoint: Gemini behind its OpenAI-compatible API.
const (
	DefaultReceiptBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultReceiptModel   = "gemini-2.5-flash"
)

// Config holds every tunable of the server process.
type Config struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	SeedDemoData    bool          `env:"SEED_DEMO_DATA" envDefault:"true"`
	AllowedOrigin   string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Receipt Receipt
}

// Receipt configures the AI receipt scanner. An empty APIKey disables scanning;
// manual entry keeps working.
type Receipt struct {
	APIKey        string        `env:"API_KEY"`
	BaseURL       string        `env:"RECEIPT_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Model         string        `env:"RECEIPT_MODEL" envDefault:"gemini-2.5-flash"`
	Timeout       time.Duration `env:"RECEIPT_TIMEOUT" envDefault:"45s"`
	MaxImageBytes int64         `env:"RECEIPT_MAX_IMAGE_BYTES" envDefault:"10485760"`
	Concurrency   int           `env:"RECEIPT_CONCURRENCY" envDefault:"3"`
}

// Enabled reports whether a scanner should be wired.
func (r Receipt) Enabled() bool {
	return strings.TrimSpace(r.APIKey) != ""
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.Receipt.Timeout <= 0 {
		errs = append(errs, errors.New("RECEIPT_TIMEOUT must be positive"))
	}
	if c.Receipt.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("RECEIPT_MAX_IMAGE_BYTES must be positive"))
	}
	if c.Receipt.Concurrency <= 0 {
		errs = append(errs, errors.New("RECEIPT_CONCURRENCY must be positive"))
	}
	if u, err := url.Parse(c.Receipt.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("RECEIPT_BASE_URL must be an absolute URL, got %q", c.Receipt.BaseURL))
	}
	if strings.TrimSpace(c.Receipt.Model) == "" {
		errs = append(errs, errors.New("RECEIPT_MODEL must not be empty"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
