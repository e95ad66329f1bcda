package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type ServerConfig struct {
	ListenAddr      string        `env:"LISTEN_ADDR, default=:8080"`
	DBPath          string        `env:"DB_PATH, default=planify.db"`
	CookieSecret    string        `env:"COOKIE_SECRET, required"`
	UseHTTPS        bool          `env:"USE_HTTPS, default=false"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT, default=60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`
}

type OIDCConfig struct {
	Issuer       string `env:"ISSUER"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	CallbackURL  string `env:"CALLBACK_URL, default=http://localhost:8080/auth/callback"`
}

// CallbackConfig tunes the callback reconciliation backoff and its terminal routes.
type CallbackConfig struct {
	MaxAttempts      int           `env:"MAX_ATTEMPTS, default=8"`
	BaseDelay        time.Duration `env:"BASE_DELAY, default=300ms"`
	Growth           float64       `env:"GROWTH, default=1.5"`
	MaxDelay         time.Duration `env:"MAX_DELAY, default=5s"`
	InFlightAttempts int           `env:"IN_FLIGHT_ATTEMPTS, default=3"`
	LandingPath      string        `env:"LANDING_PATH, default=/dashboard"`
	SignInPath       string        `env:"SIGN_IN_PATH, default=/login"`
	Concurrency      int           `env:"CONCURRENCY, default=64"`
}

type Config struct {
	Server   ServerConfig   `env:",prefix=PLANIFY_"`
	OIDC     OIDCConfig     `env:",prefix=PLANIFY_OIDC_"`
	Callback CallbackConfig `env:",prefix=PLANIFY_CALLBACK_"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(ctx context.Context, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values that would otherwise make the callback flow misbehave.
func (c *Config) Validate() error {
	if c.Callback.MaxAttempts < 1 {
		return fmt.Errorf("callback max attempts must be at least 1, got %d", c.Callback.MaxAttempts)
	}
	if c.Callback.Growth < 1 {
		return fmt.Errorf("callback growth factor must be at least 1, got %v", c.Callback.Growth)
	}
	if c.Callback.BaseDelay < 0 || c.Callback.MaxDelay < 0 {
		return errors.New("callback delays must not be negative")
	}
	if c.Callback.Concurrency < 1 {
		return fmt.Errorf("callback concurrency must be at least 1, got %d", c.Callback.Concurrency)
	}
	if len(c.Server.CookieSecret) < 32 {
		return errors.New("cookie secret must be at least 32 bytes")
	}
	if strings.Count(c.Server.CookieSecret, c.Server.CookieSecret[:1]) == len(c.Server.CookieSecret) {
		return errors.New("cookie secret must not be a single repeated character")
	}
	return nil
}

// OIDCConfigured reports whether enough provider settings are present to attempt discovery.
func (c *Config) OIDCConfigured() bool {
	return c.OIDC.Issuer != "" && c.OIDC.ClientID != "" && c.OIDC.ClientSecret != ""
}
