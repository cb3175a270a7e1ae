package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the service reads from the environment.
// Variables are prefixed FASHIONHUB_, e.g. FASHIONHUB_CATALOG_URL.
type Config struct {
	Addr        string `default:":8080"`
	Environment string `default:"development"`

	// CatalogURL is the base URL of the remote demo product catalog.
	CatalogURL string `split_words:"true" default:"https://dummyjson.com"`
	PageSize   int    `split_words:"true" default:"12"`

	// StoreBackend selects the key-value persistence backend: file, redis or postgres.
	StoreBackend string `split_words:"true" default:"file"`
	StorePath    string `split_words:"true" default:"fashionhub-store.json"`
	RedisURL     string `split_words:"true"`
	PostgresURL  string `split_words:"true"`

	// RolloutKey enables the hosted feature-flag backend; empty runs on defaults.
	RolloutKey string `split_words:"true"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("fashionhub", &c); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	switch c.StoreBackend {
	case "file", "redis", "postgres":
	default:
		return nil, fmt.Errorf("config load: unknown store backend %q", c.StoreBackend)
	}

	return &c, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
