package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"forecast-api/pkg/logging"
)

// Default values for the server configuration.
const (
	DefaultConfigPath       = "config.yaml"
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8080
	DefaultReadTimeout      = 15 * time.Second
	DefaultWriteTimeout     = 15 * time.Second
	DefaultIdleTimeout      = 60 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultLogLevel         = "info"
	DefaultIdentityStrategy = "length"
	DefaultDeleteMode       = "legacy"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
	Docs    DocsConfig    `yaml:"docs"`

	// Path is the file the config was loaded from; empty when none existed.
	Path string `yaml:"-"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logger settings. Level is re-applied on reload.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StoreConfig controls identity assignment and delete behaviour.
type StoreConfig struct {
	// IdentityStrategy is one of: length | sequence.
	IdentityStrategy string `yaml:"identity_strategy"`

	// DeleteMode is one of: legacy | remove.
	DeleteMode string `yaml:"delete_mode"`
}

// DocsConfig toggles the OpenAPI document and Swagger UI routes.
type DocsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Store: StoreConfig{
			IdentityStrategy: DefaultIdentityStrategy,
			DeleteMode:       DefaultDeleteMode,
		},
		Docs: DocsConfig{Enabled: true},
	}
}

// LoadConfig loads .env (if any), then the YAML file named by FORECAST_CONFIG
// (default config.yaml), then environment overrides.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	path := os.Getenv("FORECAST_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	return Load(path)
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("STORE_IDENTITY_STRATEGY"); v != "" {
		c.Store.IdentityStrategy = v
	}
	if v := os.Getenv("STORE_DELETE_MODE"); v != "" {
		c.Store.DeleteMode = v
	}
	if v := os.Getenv("DOCS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DOCS_ENABLED: %w", err)
		}
		c.Docs.Enabled = enabled
	}
	return nil
}

// Validate checks value ranges and option combinations.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	strategy := strings.ToLower(c.Store.IdentityStrategy)
	if strategy != "length" && strategy != "sequence" {
		errs = append(errs, fmt.Errorf("store.identity_strategy %q is not one of length, sequence", c.Store.IdentityStrategy))
	}
	mode := strings.ToLower(c.Store.DeleteMode)
	if mode != "legacy" && mode != "remove" {
		errs = append(errs, fmt.Errorf("store.delete_mode %q is not one of legacy, remove", c.Store.DeleteMode))
	}
	// Length-based identities reuse ids once records can disappear.
	if mode == "remove" && strategy == "length" {
		errs = append(errs, errors.New("store.delete_mode remove requires store.identity_strategy sequence"))
	}

	return errors.Join(errs...)
}
