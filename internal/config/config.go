// Package config loads the searchdeck client configuration from YAML with
// environment variable expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// State driver names.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds the searchdeck client configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	State         StateConfig         `yaml:"state"`
	History       HistoryConfig       `yaml:"history"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig points at the document-search service.
type ServerConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// StateConfig selects the durable key-value driver for client state.
type StateConfig struct {
	Driver   string   `yaml:"driver"` // sqlite, redis, memory (default: sqlite)
	Path     string   `yaml:"path"`   // sqlite database file
	Addrs    []string `yaml:"addrs"`  // redis addresses
	Password string   `yaml:"password"`
}

// HistoryConfig tunes the search history store.
type HistoryConfig struct {
	Limit           int    `yaml:"limit"`
	DuplicatePolicy string `yaml:"duplicate_policy"` // move_to_front (default) | ignore
}

// NotificationsConfig tunes notification display.
type NotificationsConfig struct {
	TTLMillis int `yaml:"ttl_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR} / ${VAR:-default}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Server.TimeoutSec <= 0 {
		c.Server.TimeoutSec = 15
	}
	if c.State.Driver == "" {
		c.State.Driver = DriverSQLite
	}
	if c.State.Driver == DriverSQLite && c.State.Path == "" {
		c.State.Path = defaultStatePath()
	}
	if c.History.Limit <= 0 {
		c.History.Limit = 10
	}
	if c.History.DuplicatePolicy == "" {
		c.History.DuplicatePolicy = "move_to_front"
	}
	if c.Notifications.TTLMillis <= 0 {
		c.Notifications.TTLMillis = 5000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	switch c.State.Driver {
	case DriverSQLite, DriverMemory:
	case DriverRedis:
		if len(c.State.Addrs) == 0 {
			return fmt.Errorf("state.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown state.driver %q", c.State.Driver)
	}
	switch c.History.DuplicatePolicy {
	case "move_to_front", "ignore":
	default:
		return fmt.Errorf(
			"history.duplicate_policy must be \"move_to_front\" or \"ignore\", got %q",
			c.History.DuplicatePolicy,
		)
	}
	return nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "searchdeck.db"
	}
	return filepath.Join(dir, "searchdeck", "state.db")
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
