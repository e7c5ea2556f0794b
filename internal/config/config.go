// Package config handles snippets configuration.
//
// Values are resolved in this order, later entries winning:
// built-in defaults, ~/.config/snippets/config.yml, environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/snippets/config.yml.
type Config struct {
	Backend     string `yaml:"backend,omitempty"`      // sqlite or postgres
	DBPath      string `yaml:"db_path,omitempty"`      // SQLite database file
	DatabaseURL string `yaml:"database_url,omitempty"` // PostgreSQL connection URL
	LogFile     string `yaml:"log_file,omitempty"`     // Debug log destination
	LogLevel    string `yaml:"log_level,omitempty"`    // debug, info, warn, error
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME and XDG_DATA_HOME.
	ConfigDir = "snippets"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// DBFile is the default SQLite database file name.
	DBFile = "snippets.db"
	// DefaultLogFile is relative to the working directory.
	DefaultLogFile  = "snippets.log"
	DefaultLogLevel = "debug"

	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Environment variables that override file values.
const (
	EnvBackend     = "SNIPPETS_BACKEND"
	EnvDBPath      = "SNIPPETS_DB"
	EnvDatabaseURL = "SNIPPETS_DATABASE_URL"
	EnvLogFile     = "SNIPPETS_LOG_FILE"
	EnvLogLevel    = "SNIPPETS_LOG_LEVEL"

	// EnvFallbackDatabaseURL is the conventional variable used by most Postgres tooling.
	EnvFallbackDatabaseURL = "DATABASE_URL"
)

// ValidBackends lists the supported storage backends.
var ValidBackends = []string{BackendSQLite, BackendPostgres}

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

var (
	// ErrUnknownBackend is returned when backend is not one of ValidBackends.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrDatabaseURLRequired is returned when the postgres backend has no URL.
	ErrDatabaseURLRequired = errors.New("database_url is required for the postgres backend")
	// ErrInvalidLogLevel is returned when log_level is not one of ValidLogLevels.
	ErrInvalidLogLevel = errors.New("invalid log_level")
	// ErrInvalidLogFile is returned when log_file names a directory.
	ErrInvalidLogFile = errors.New("invalid log_file")
)

// ConfigPath returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/snippets/config.yml.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// DefaultDBPath returns the default SQLite database location.
// Respects XDG_DATA_HOME, defaults to ~/.local/share/snippets/snippets.db.
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DBFile
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, ConfigDir, DBFile)
}

// LoadFile reads the config file at path without applying defaults or
// environment overrides. Returns an empty config (not an error) if the file
// doesn't exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Load resolves the effective configuration: the file at path (ConfigPath()
// when empty), then environment overrides, then defaults for anything unset.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Backend = GetConfigValue(EnvBackend, c.Backend)
	c.DBPath = GetConfigValue(EnvDBPath, c.DBPath)
	c.DatabaseURL = GetConfigValue(EnvDatabaseURL, GetConfigValue(EnvFallbackDatabaseURL, c.DatabaseURL))
	c.LogFile = GetConfigValue(EnvLogFile, c.LogFile)
	c.LogLevel = GetConfigValue(EnvLogLevel, c.LogLevel)
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.DBPath = ExpandPath(c.DBPath)
	c.LogFile = ExpandPath(c.LogFile)
}

// GetConfigValue returns the environment variable if set, otherwise the fallback.
func GetConfigValue(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

// Validate checks that the configuration can be used to open a store.
func (c *Config) Validate() error {
	if err := ValidateBackend(c.Backend); err != nil {
		return err
	}
	if c.Backend == BackendPostgres && c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	if err := ValidateLogFile(c.LogFile); err != nil {
		return err
	}
	return ValidateLogLevel(c.LogLevel)
}

// ValidateLogFile rejects a log path that is an existing directory.
// Rotation would otherwise rename the directory out of the way.
func ValidateLogFile(path string) error {
	if path == "" {
		return nil
	}
	if info, err := os.Stat(ExpandPath(path)); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidLogFile, path)
	}
	return nil
}

// ValidateBackend checks that the backend value is valid.
func ValidateBackend(backend string) error {
	if backend == "" {
		return nil // Empty defaults to sqlite
	}
	for _, valid := range ValidBackends {
		if backend == valid {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (valid: %v)", ErrUnknownBackend, backend, ValidBackends)
}

// ValidateLogLevel checks that the log level value is valid.
func ValidateLogLevel(level string) error {
	if level == "" {
		return nil
	}
	for _, valid := range ValidLogLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (valid: %v)", ErrInvalidLogLevel, level, ValidLogLevels)
}

// Save writes configuration to path, creating the parent directory.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.New("no config path (cannot determine home directory)")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	// The file may hold a database password.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// RedactURL hides the password in a database URL for display.
// Strings that don't parse as URLs are returned unchanged.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
