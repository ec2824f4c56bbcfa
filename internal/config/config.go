package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/dfw/internal/constants"
)

// Config is the process configuration. It is resolved once at startup from
// defaults, the optional TOML file, and DFW_* environment variables, in that
// order; command-line flags are applied last by the caller.
type Config struct {
	// DataDir holds the database, the fallback file, logs and backups
	DataDir string `toml:"data_dir" env:"DFW_DATA_DIR"`
	// Database is a SQLite file path, a PostgreSQL DSN, or "keyring"
	Database string `toml:"database" env:"DFW_DATABASE"`
	// FallbackPath is the JSON file used when the indexed backend cannot be opened
	FallbackPath string `toml:"fallback_path" env:"DFW_FALLBACK_PATH"`
	// Timezone is an IANA name or "Local"; it decides each decision's date and hour
	Timezone string    `toml:"timezone" env:"DFW_TIMEZONE"`
	Debug    bool      `toml:"debug" env:"DFW_DEBUG"`
	Log      LogConfig `toml:"log" envPrefix:"DFW_LOG_"`
}

// LogConfig controls log file rotation
type LogConfig struct {
	MaxSizeMB  int `toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int `toml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int `toml:"max_age_days" env:"MAX_AGE_DAYS"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir:  constants.DefaultDataDir,
		Timezone: constants.DefaultTimezone,
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load resolves the configuration. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(expanded)
		switch {
		case err == nil:
			defer f.Close()
			if err := Decode(f, cfg); err != nil {
				return nil, fmt.Errorf("reading config from %s: %w", expanded, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads TOML from r over the values already in cfg
func Decode(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Encode writes cfg as TOML
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// resolve expands paths and fills the storage locations derived from DataDir
func (c *Config) resolve() error {
	dataDir, err := ExpandPath(c.DataDir)
	if err != nil {
		return err
	}
	c.DataDir = dataDir

	if c.Database == "" {
		c.Database = filepath.Join(c.DataDir, constants.DatabaseFileName)
	} else if !c.UsesPostgres() && c.Database != constants.KeyringDatabase {
		if c.Database, err = ExpandPath(c.Database); err != nil {
			return err
		}
	}

	if c.FallbackPath == "" {
		c.FallbackPath = filepath.Join(c.DataDir, constants.FallbackFileName)
	} else if c.FallbackPath, err = ExpandPath(c.FallbackPath); err != nil {
		return err
	}

	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
	return nil
}

// UsesPostgres reports whether Database is a PostgreSQL connection string
func (c *Config) UsesPostgres() bool {
	return IsPostgresDSN(c.Database)
}

// IsPostgresDSN reports whether s is a PostgreSQL URL or a keyword/value
// connection string such as "host=localhost dbname=dfw".
func IsPostgresDSN(s string) bool {
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		return true
	}
	return isKeywordDSN(s)
}

// libpq keywords that identify a keyword/value connection string
var dsnKeywords = map[string]bool{
	"host":     true,
	"hostaddr": true,
	"port":     true,
	"dbname":   true,
	"user":     true,
}

// isKeywordDSN requires every field to be key=value and at least one key to
// name the server or database, so file paths containing "=" are not matched.
func isKeywordDSN(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	known := false
	for _, field := range fields {
		key, _, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return false
		}
		if dsnKeywords[strings.ToLower(key)] {
			known = true
		}
	}
	return known
}

// ExpandPath replaces a leading "~" with the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
