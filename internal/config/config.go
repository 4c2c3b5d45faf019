package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8000"`

	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"utility"`

	JWTSecret          string `env:"SECRET_KEY" envDefault:"change-me"`
	JWTAlgorithm       string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpires int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"REDIRECT_URI" envDefault:"http://localhost:8000/auth/google/callback"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:8000"`
	RedisURL           string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	RegisterRateTimes   int `env:"REGISTER_RATE_TIMES" envDefault:"5"`
	RegisterRateSeconds int `env:"REGISTER_RATE_SECONDS" envDefault:"10"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// PostgresDSN assembles the GORM connection string from the individual parts.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB)
}

// AccessTokenTTL returns the configured access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpires) * time.Minute
}

// RegisterRateWindow returns the registration rate-limit window.
func (c *Config) RegisterRateWindow() time.Duration {
	return time.Duration(c.RegisterRateSeconds) * time.Second
}

// CORSOrigins splits the comma separated allow list.
func (c *Config) CORSOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
