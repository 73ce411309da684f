package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/marketlens/logocache/internal/resolver"
)

// Configuration defaults.
const (
	// DefaultEndpoint is the internal metadata endpoint queried per symbol.
	DefaultEndpoint = "http://localhost:9090/api/logos"

	// DefaultFallbackTemplate builds the deterministic symbol-derived
	// logo URL; {symbol} is replaced with the normalized ticker.
	DefaultFallbackTemplate = "https://cdn.marketlens.dev/logos/{symbol}.png"

	// DefaultListen is the serve command's bind address.
	DefaultListen = ":8080"
)

// Validation errors.
var (
	ErrEndpointRequired = errors.New("endpoint cannot be empty")
	ErrTemplateRequired = errors.New("fallback_template cannot be empty")
	ErrInvalidTTL       = errors.New("ttl values must be positive")
)

// Config holds all runtime settings. Values are resolved in order:
// built-in defaults, then the optional YAML config file, then LOGOCACHE_*
// environment variables.
type Config struct {
	// Endpoint is the base URL of the internal metadata endpoint.
	Endpoint string `yaml:"endpoint" env:"LOGOCACHE_ENDPOINT"`

	// FallbackTemplate is the deterministic fallback URL template with a
	// {symbol} placeholder.
	FallbackTemplate string `yaml:"fallback_template" env:"LOGOCACHE_FALLBACK_TEMPLATE"`

	// SuccessTTL is the cache lifetime for records from successful lookups.
	SuccessTTL time.Duration `yaml:"success_ttl" env:"LOGOCACHE_SUCCESS_TTL"`

	// DegradedTTL is the cache lifetime for records from failed lookups.
	// Clamped to resolver.MinDegradedTTL: it is also the retry rate limit
	// against a failing endpoint.
	DegradedTTL time.Duration `yaml:"degraded_ttl" env:"LOGOCACHE_DEGRADED_TTL"`

	// RequestTimeout bounds a single metadata lookup at the transport.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"LOGOCACHE_REQUEST_TIMEOUT"`

	// WarmConcurrency caps concurrent lookups during batch warming.
	WarmConcurrency int `yaml:"warm_concurrency" env:"LOGOCACHE_WARM_CONCURRENCY"`

	// Listen is the HTTP bind address for the serve command.
	Listen string `yaml:"listen" env:"LOGOCACHE_LISTEN"`

	// Logging configures log level and output format.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zerolog setup.
type LoggingConfig struct {
	// Level is a zerolog level name ("debug", "info", ...).
	Level string `yaml:"level" env:"LOGOCACHE_LOG_LEVEL"`

	// Format is "console", "json", or "auto" (console on a terminal,
	// JSON otherwise).
	Format string `yaml:"format" env:"LOGOCACHE_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:         DefaultEndpoint,
		FallbackTemplate: DefaultFallbackTemplate,
		SuccessTTL:       resolver.DefaultSuccessTTL,
		DegradedTTL:      resolver.DefaultDegradedTTL,
		RequestTimeout:   resolver.DefaultRequestTimeout,
		WarmConcurrency:  resolver.DefaultWarmConcurrency,
		Listen:           DefaultListen,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load resolves the effective configuration. path names an optional YAML
// config file: an empty path skips the file layer, a missing file at a
// non-empty path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.clamp()

	return cfg, nil
}

// Validate checks settings that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEndpointRequired
	}
	if c.FallbackTemplate == "" {
		return ErrTemplateRequired
	}
	if c.SuccessTTL <= 0 || c.DegradedTTL <= 0 {
		return fmt.Errorf("%w: success_ttl=%s degraded_ttl=%s", ErrInvalidTTL, c.SuccessTTL, c.DegradedTTL)
	}
	return nil
}

// clamp applies floors to settings where an out-of-range value is better
// corrected than rejected.
func (c *Config) clamp() {
	if c.DegradedTTL < resolver.MinDegradedTTL {
		c.DegradedTTL = resolver.MinDegradedTTL
	}
	if c.WarmConcurrency <= 0 {
		c.WarmConcurrency = resolver.DefaultWarmConcurrency
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = resolver.DefaultRequestTimeout
	}
}
