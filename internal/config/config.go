package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tradepack"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tradepack"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	// Redis is optional; lifecycle events are dropped when URL is empty.
	Redis struct {
		URL string `envconfig:"REDIS_URL"`
	}

	TextGen struct {
		URL     string        `envconfig:"TEXTGEN_URL" default:"https://api.openai.com/v1/chat/completions"`
		APIKey  string        `envconfig:"TEXTGEN_API_KEY"`
		Model   string        `envconfig:"TEXTGEN_MODEL" default:"gpt-4o-mini"`
		Timeout time.Duration `envconfig:"TEXTGEN_TIMEOUT" default:"60s"`
	}

	Quote struct {
		ValidityDays int `envconfig:"QUOTE_VALIDITY_DAYS" default:"30"`
	}

	TUI struct {
		UserID string `envconfig:"TUI_USER_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
