package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported storage backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// StorageBackend selects the datastore at startup: "postgres" or "mongo".
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"postgres"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"hunter"`

	// AdminKey protects the moderation endpoints. Empty disables them.
	AdminKey string `envconfig:"ADMIN_KEY"`

	// MonthlyScanLimit is the per-user consumption ceiling per calendar
	// month. Deployment configuration, never hardcoded in the core.
	MonthlyScanLimit int `envconfig:"MONTHLY_SCAN_LIMIT" default:"50"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("HUNTER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Validate checks that the selected backend has its connection settings.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("HUNTER_DATABASE_URL is required for the postgres backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("HUNTER_MONGO_URI is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (expected %q or %q)", c.StorageBackend, BackendPostgres, BackendMongo)
	}
	if c.MonthlyScanLimit <= 0 {
		return fmt.Errorf("HUNTER_MONTHLY_SCAN_LIMIT must be positive, got %d", c.MonthlyScanLimit)
	}
	return nil
}

func (c *Config) UsesPostgres() bool {
	return c.StorageBackend == BackendPostgres
}

func (c *Config) HasAdminKey() bool {
	return c.AdminKey != ""
}
