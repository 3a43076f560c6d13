package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/wricardo/quoridor-server/game/engine"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the server configuration
type Settings struct {
	Host            string        `env:"QUORIDOR_HOST"             envDefault:"0.0.0.0"`
	Port            int           `env:"QUORIDOR_PORT"             envDefault:"8080"`
	DefaultTimer    int           `env:"QUORIDOR_DEFAULT_TIMER"    envDefault:"30"`
	AllowedOrigins  []string      `env:"QUORIDOR_ALLOWED_ORIGINS"  envSeparator:"," envDefault:"*"`
	RoomIdleTTL     time.Duration `env:"QUORIDOR_ROOM_IDLE_TTL"    envDefault:"2h"`
	CleanupInterval time.Duration `env:"QUORIDOR_CLEANUP_INTERVAL" envDefault:"5m"`
	OTelEndpoint    string        `env:"QUORIDOR_OTEL_ENDPOINT"`
	Debug           bool          `env:"QUORIDOR_DEBUG"`
}

// Load reads settings from the environment and validates them
func Load() (*Settings, error) {
	return LoadFrom(nil)
}

// LoadFrom reads settings from the given variables instead of the process
// environment. A nil map means the process environment.
func LoadFrom(vars map[string]string) (*Settings, error) {
	var s Settings
	opts := env.Options{}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks ranges and the default timer
func (s *Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidSettings, s.Port)
	}
	if err := engine.ValidateTimerDuration(s.DefaultTimer); err != nil {
		return fmt.Errorf("%w: default timer: %w", ErrInvalidSettings, err)
	}
	if s.RoomIdleTTL <= 0 {
		return fmt.Errorf("%w: room idle ttl must be positive", ErrInvalidSettings)
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be positive", ErrInvalidSettings)
	}
	return nil
}

// Addr returns the listen address
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// OriginAllowed reports whether a browser origin may use the API.
// An empty origin (non-browser client) is always allowed.
func (s *Settings) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range s.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
