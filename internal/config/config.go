package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ErrMissingJWTSecret is returned when no signing key is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	Port                 string   `env:"PORT" envDefault:"8080"`
	GinMode              string   `env:"GIN_MODE" envDefault:"debug"`
	LogLevel             string   `env:"LOG_LEVEL" envDefault:"info"`
	DBDriver             string   `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost               string   `env:"DB_HOST" envDefault:"localhost"`
	DBPort               string   `env:"DB_PORT"`
	DBUser               string   `env:"DB_USER" envDefault:"taskuser"`
	DBPassword           string   `env:"DB_PASSWORD" envDefault:"taskpassword"`
	DBName               string   `env:"DB_NAME" envDefault:"task_tracker"`
	DBSSLMode            string   `env:"DB_SSLMODE" envDefault:"disable"`
	JWTSecret            string   `env:"JWT_SECRET"`
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	EnforceTaskOwnership bool     `env:"ENFORCE_TASK_OWNERSHIP" envDefault:"true"`
}

// Load reads configuration from the process environment. A missing signing key is an error.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom reads configuration from the given variables.
func LoadFrom(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBPort == "" {
			cfg.DBPort = "5432"
		}
	case "mysql":
		if cfg.DBPort == "" {
			cfg.DBPort = "3306"
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return &cfg, nil
}

// HTTPAddress returns the address the HTTP server binds to.
func (c *Config) HTTPAddress() string {
	return ":" + c.Port
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
