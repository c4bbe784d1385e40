// Package config loads gateway configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Limiter policies when the rate-limit store is unreachable.
const (
	LimiterUnavailableAllow = "allow"
	LimiterUnavailableDeny  = "deny"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Model     ModelConfig
	Backend   BackendConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Logging   LogConfig
	Search    SearchConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// ModelConfig holds model provider configuration. The default base URL
// targets the Gemini OpenAI-compatible endpoint.
type ModelConfig struct {
	APIKey      string        `envconfig:"GOOGLE_GENERATIVE_AI_API_KEY"`
	Name        string        `envconfig:"MODEL_NAME" default:"gemini-2.5-flash"`
	BaseURL     string        `envconfig:"MODEL_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Temperature float64       `envconfig:"MODEL_TEMPERATURE" default:"0.7"`
	MaxSteps    int           `envconfig:"MODEL_MAX_STEPS" default:"5"`
	MaxDuration time.Duration `envconfig:"MODEL_MAX_DURATION" default:"30s"`
}

// BackendConfig holds the CRUD backend configuration.
type BackendConfig struct {
	BaseURL string        `envconfig:"NESTJS_API_BASE" default:"http://localhost:3002"`
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
}

// RateLimitConfig holds the fixed-window limiter configuration. An empty
// RedisAddr disables the limiter entirely (fail open, unlimited quota).
// OnUnavailable decides what happens when the store is configured but a
// check errors: "allow" preserves availability, "deny" preserves quota.
type RateLimitConfig struct {
	RedisAddr     string `envconfig:"KV_ADDR"`
	RedisPassword string `envconfig:"KV_PASSWORD"`
	MaxRequests   int    `envconfig:"RATE_LIMIT_MAX" default:"500"`
	WindowMinutes int    `envconfig:"RATE_LIMIT_WINDOW_MINUTES" default:"1440"`
	OnUnavailable string `envconfig:"RATE_LIMIT_ON_UNAVAILABLE" default:"allow"`
}

// CORSConfig holds the cross-origin allow-list. The first entry doubles
// as the fallback origin echoed on non-allow-listed preflights.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:3001"`
}

// LogConfig holds logging configuration. Development also gates error
// detail exposure on the chat endpoint.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// SearchConfig holds the third-party web search credential forwarded to
// the backend search proxy.
type SearchConfig struct {
	TavilyAPIKey string `envconfig:"TAVILY_API_KEY"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.RateLimit.OnUnavailable != LimiterUnavailableAllow && cfg.RateLimit.OnUnavailable != LimiterUnavailableDeny {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ON_UNAVAILABLE %q: must be %q or %q",
			cfg.RateLimit.OnUnavailable, LimiterUnavailableAllow, LimiterUnavailableDeny)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Model: ModelConfig{
			Name:        "gemini-2.5-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
			Temperature: 0.7,
			MaxSteps:    5,
			MaxDuration: 30 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:3002",
			Timeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			MaxRequests:   500,
			WindowMinutes: 1440,
			OnUnavailable: LimiterUnavailableAllow,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
