// Package config loads settings from an optional YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cintyy73/template-todo-list/internal/logging"
	"github.com/cintyy73/template-todo-list/internal/repository"
	"github.com/cintyy73/template-todo-list/internal/storage"
)

// Config holds all settings of the server and the CLI.
type Config struct {
	Addr        string        `yaml:"addr"`
	FrontendURL string        `yaml:"frontend_url"`
	Store       StoreConfig   `yaml:"store"`
	Log         LoggingConfig `yaml:"log"`
	// Seed fills an empty store with the sample contacts.
	Seed bool `yaml:"seed"`
}

// StoreConfig selects the durable store.
type StoreConfig struct {
	Driver string `yaml:"driver"` // local, bolt, sqlite, postgres, memory
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	Key    string `yaml:"key"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:        ":8080",
		FrontendURL: "http://localhost:5173",
		Store: StoreConfig{
			Driver: storage.DriverLocal,
			Path:   "./data",
			Key:    repository.DefaultSlot,
		},
		Log:  LoggingConfig{Level: "INFO", Format: "json"},
		Seed: true,
	}
}

// Load reads .env files (missing files are ignored), then the YAML file named
// by path or CONTACTOS_CONFIG, then environment variables.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONTACTOS_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Addr, "ADDR")
	setString(&c.FrontendURL, "FRONTEND_URL")
	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.Path, "STORE_PATH")
	setString(&c.Store.DSN, "DATABASE_URL")
	setString(&c.Store.Key, "STORE_KEY")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("SEED_CONTACTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SEED_CONTACTS: %w", err)
		}
		c.Seed = b
	}
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case storage.DriverLocal, storage.DriverBolt, storage.DriverSQLite, storage.DriverMemory:
	case storage.DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("config: postgres store requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Key == "" {
		return errors.New("config: store key must not be empty")
	}
	return nil
}

// StorageOptions converts the store settings for storage.Open.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{Driver: c.Store.Driver, Path: c.Store.Path, DSN: c.Store.DSN}
}

// LoggingOptions converts the log settings for logging.Setup.
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
