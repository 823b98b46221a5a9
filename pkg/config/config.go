package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Values come from an optional YAML file
// (CONFIG_PATH) and the environment; environment variables win.
type Config struct {
	Env      string `yaml:"env" env:"APP_ENV" env-default:"dev"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Database DatabaseConfig `yaml:"database"`
	Billing  BillingConfig  `yaml:"billing"`
}

// DatabaseConfig selects the storage engine. SQLite is the single-user default.
type DatabaseConfig struct {
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	URL        string `yaml:"-" env:"DATABASE_URL"` // Secret - not in YAML
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"law_billing.db"`
}

// BillingConfig holds firm-wide billing defaults.
type BillingConfig struct {
	DefaultRateCents int64  `yaml:"default_rate_cents" env:"DEFAULT_BILLING_RATE_CENTS" env-default:"30000"`
	Currency         string `yaml:"currency" env:"CURRENCY" env-default:"USD"`
}

// Load reads .env (best effort), then the YAML file at path if non-empty,
// then the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills empty values the environment left blank (cleanenv applies
// env-default only to unset variables) and checks the rest.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if strings.TrimSpace(c.Database.SQLitePath) == "" {
		c.Database.SQLitePath = "law_billing.db"
	}
	if strings.TrimSpace(c.Billing.Currency) == "" {
		c.Billing.Currency = "USD"
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use sqlite or postgres)", c.Database.Driver)
	}
	if c.Billing.DefaultRateCents < 0 {
		return fmt.Errorf("DEFAULT_BILLING_RATE_CENTS must be >= 0")
	}
	if len(c.Billing.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be an ISO 4217 code, got %q", c.Billing.Currency)
	}
	c.Billing.Currency = strings.ToUpper(c.Billing.Currency)
	return nil
}

// IsProd reports whether the app runs in production mode.
func (c *Config) IsProd() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}
