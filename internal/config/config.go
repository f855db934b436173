//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-salesagent.
// Values come from defaults, an optional config file, environment
// variables and CLI flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-salesagent/internal/agent"
	"github.com/pgEdge/pgedge-salesagent/internal/db"
	"github.com/pgEdge/pgedge-salesagent/internal/sales"
)

// Config holds all configuration for pgedge-salesagent.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	Store  StoreConfig  `mapstructure:"store"`
	Seed   SeedConfig   `mapstructure:"seed"`
	Agent  AgentConfig  `mapstructure:"agent"`
	Server ServerConfig `mapstructure:"server"`
}

// StoreConfig selects the database.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`

	// Path is the SQLite database file.
	Path string `mapstructure:"path"`

	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`
}

// SeedConfig controls dataset generation.
type SeedConfig struct {
	Value        uint64 `mapstructure:"value"`
	Products     int    `mapstructure:"products"`
	Customers    int    `mapstructure:"customers"`
	Transactions int    `mapstructure:"transactions"`
	Stores       int    `mapstructure:"stores"`

	// Mode is "append" or "replace".
	Mode string `mapstructure:"mode"`

	// Anchor ends the transaction window, as RFC 3339 or YYYY-MM-DD.
	// Empty means the current time.
	Anchor string `mapstructure:"anchor"`

	// WeekdayMode is "random" or "calendar".
	WeekdayMode string `mapstructure:"weekday_mode"`

	// CustomerKeyMode is "transaction" or "customer".
	CustomerKeyMode string `mapstructure:"customer_key_mode"`
}

// AgentConfig configures the language model.
type AgentConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	MaxRows int    `mapstructure:"max_rows"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// envBindings maps config keys to the environment variables that set them.
// Where a key has several variables the first one set wins.
var envBindings = map[string][]string{
	"log_level":              {"LOG_LEVEL"},
	"store.driver":           {"STORE_DRIVER"},
	"store.path":             {"SQLITE_DB_PATH"},
	"store.connection":       {"STORE_CONNECTION"},
	"seed.value":             {"SEED_VALUE"},
	"seed.products":          {"SEED_NUM_PRODUCTS"},
	"seed.customers":         {"SEED_NUM_CUSTOMERS"},
	"seed.transactions":      {"SEED_NUM_TRANSACTIONS"},
	"seed.stores":            {"SEED_NUM_STORES"},
	"seed.mode":              {"SEED_MODE"},
	"seed.anchor":            {"SEED_ANCHOR"},
	"seed.weekday_mode":      {"SEED_WEEKDAY_MODE"},
	"seed.customer_key_mode": {"SEED_CUSTOMER_KEY_MODE"},
	"agent.api_key":          {"AGENT_API_KEY", "GEMINI_API_KEY"},
	"agent.model":            {"AGENT_MODEL"},
	"agent.max_rows":         {"AGENT_MAX_ROWS"},
	"server.addr":            {"SERVER_ADDR"},
	"server.allowed_origins": {"SERVER_ALLOWED_ORIGINS"},
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	counts := sales.DefaultCounts()
	star := sales.DefaultStarOptions()
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Driver: db.DriverSQLite,
			Path:   "./data/sales.db",
		},
		Seed: SeedConfig{
			Products:        counts.Products,
			Customers:       counts.Customers,
			Transactions:    counts.Transactions,
			Stores:          counts.Stores,
			Mode:            string(sales.WriteAppend),
			WeekdayMode:     string(star.Weekday),
			CustomerKeyMode: string(star.CustomerKey),
		},
		Agent: AgentConfig{
			Model:   agent.DefaultModelName,
			MaxRows: agent.DefaultMaxRows,
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads configuration from defaults, config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-salesagent.yaml
// 3. ~/.config/pgedge-salesagent/pgedge-salesagent.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-salesagent")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-salesagent"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks the store and seed settings.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case db.DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store path is required for sqlite")
		}
	case db.DriverPostgres:
		if c.Store.Connection == "" {
			return fmt.Errorf("store connection is required for postgres")
		}
	default:
		return fmt.Errorf("store driver must be '%s' or '%s'", db.DriverSQLite, db.DriverPostgres)
	}

	opts, err := c.SeedOptions()
	if err != nil {
		return err
	}
	return opts.Validate()
}

// ValidateServe checks configuration required for the serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Agent.MaxRows < 1 {
		return fmt.Errorf("agent max_rows must be at least 1")
	}
	return nil
}

// DBConfig returns the database settings.
func (c *Config) DBConfig() db.Config {
	return db.Config{
		Driver:     c.Store.Driver,
		Path:       c.Store.Path,
		Connection: c.Store.Connection,
	}
}

// SeedOptions converts the seed settings to generator options.
func (c *Config) SeedOptions() (sales.Options, error) {
	anchor, err := parseAnchor(c.Seed.Anchor)
	if err != nil {
		return sales.Options{}, err
	}
	return sales.Options{
		Seed: c.Seed.Value,
		Counts: sales.Counts{
			Products:     c.Seed.Products,
			Customers:    c.Seed.Customers,
			Transactions: c.Seed.Transactions,
			Stores:       c.Seed.Stores,
		},
		Anchor: anchor,
		Mode:   sales.WriteMode(c.Seed.Mode),
		Star: sales.StarOptions{
			Weekday:     sales.WeekdayMode(c.Seed.WeekdayMode),
			CustomerKey: sales.CustomerKeyMode(c.Seed.CustomerKeyMode),
		},
	}, nil
}

func parseAnchor(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("seed anchor %q must be RFC 3339 or YYYY-MM-DD", s)
}
