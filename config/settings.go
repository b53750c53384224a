// Package config provides configuration for the reco-console service.
// All real computation happens in an external webhook backend; the
// settings here mostly describe how to reach it and how to behave when it
// is unreachable.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Settings holds all service configuration, loaded from the environment.
// An empty BackendBaseURL switches the whole service to the deterministic
// fixture dataset so it stays exercisable offline.
type Settings struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	BackendBaseURL  string        `env:"BACKEND_BASE_URL"`
	BackendAPIKey   string        `env:"BACKEND_API_KEY"`
	DefaultTenant   string        `env:"DEFAULT_TENANT" envDefault:"la_redoute"`
	BackendTimeout  time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	LookupChunkSize int           `env:"LOOKUP_CHUNK_SIZE" envDefault:"50"`
	RecoCacheTTL    time.Duration `env:"RECO_CACHE_TTL" envDefault:"2m"`
	RedisAddr       string        `env:"REDIS_ADDR"` // empty = in-process cache
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" envDefault:"100"`
	MaxRequestBytes int64         `env:"MAX_REQUEST_BYTES" envDefault:"1048576"` // 1MB
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables. A .env file is
// loaded first when present, for local development.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	settings := &Settings{}
	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// ApplyDefaults repairs values that parse but make no operational sense.
func (s *Settings) ApplyDefaults() {
	if s.LookupChunkSize <= 0 {
		s.LookupChunkSize = 50
	}
	if s.RecoCacheTTL <= 0 {
		s.RecoCacheTTL = 2 * time.Minute
	}
	if s.RateLimitRPS <= 0 {
		s.RateLimitRPS = 50
	}
	if s.RateLimitBurst <= 0 {
		s.RateLimitBurst = 100
	}
	if s.MaxRequestBytes <= 0 {
		s.MaxRequestBytes = 1 << 20
	}
	s.BackendBaseURL = strings.TrimRight(s.BackendBaseURL, "/")
}

// Validate checks cross-field consistency.
func (s *Settings) Validate() error {
	if s.BackendBaseURL != "" && !strings.HasPrefix(s.BackendBaseURL, "http://") && !strings.HasPrefix(s.BackendBaseURL, "https://") {
		return fmt.Errorf("BACKEND_BASE_URL must be an http(s) URL, got %q", s.BackendBaseURL)
	}
	if s.DefaultTenant == "" {
		return fmt.Errorf("DEFAULT_TENANT cannot be empty")
	}
	return nil
}

// UseFixtures reports whether the service should serve the offline
// fixture dataset instead of calling the backend.
func (s *Settings) UseFixtures() bool {
	return s.BackendBaseURL == ""
}
