// Package config loads server settings from defaults, a .env file, an optional YAML file
// and PEMINATAN_* environment variables, in that order of increasing precedence.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PEMINATAN_"

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the complete server configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Security struct {
		CSRFKey string `yaml:"csrf_key"`
	} `yaml:"security"`

	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	Import struct {
		MaxUploadMB int `yaml:"max_upload_mb"`
	} `yaml:"import"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Seed struct {
		Demo bool `yaml:"demo"`
	} `yaml:"seed"`
}

// Load builds the configuration. A missing .env or YAML file is not an error.
// PRE: path is empty or names a YAML file
// POST: returns a validated Config
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Defaults returns the development configuration.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Server.Env = EnvDevelopment
	cfg.Database.Path = "peminatan.db"
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "admin123"
	cfg.Import.MaxUploadMB = 10
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return cfg
}

// applyEnv overrides fields from PEMINATAN_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &cfg.Server.Addr)
	str("ENV", &cfg.Server.Env)
	str("DB_PATH", &cfg.Database.Path)
	str("CSRF_KEY", &cfg.Security.CSRFKey)
	str("ADMIN_USERNAME", &cfg.Admin.Username)
	str("ADMIN_PASSWORD", &cfg.Admin.Password)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	if v, ok := lookup(EnvPrefix + "MAX_UPLOAD_MB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_UPLOAD_MB: %w", EnvPrefix, err)
		}
		cfg.Import.MaxUploadMB = n
	}
	if v, ok := lookup(EnvPrefix + "SEED_DEMO"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEED_DEMO: %w", EnvPrefix, err)
		}
		cfg.Seed.Demo = b
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Server.Env != EnvDevelopment && c.Server.Env != EnvProduction {
		return fmt.Errorf("server.env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Server.Env)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Import.MaxUploadMB <= 0 {
		return errors.New("import.max_upload_mb must be positive")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if f := c.Logging.Format; f != "text" && f != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", f)
	}
	if c.Security.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			return err
		}
	} else if c.IsProduction() {
		return errors.New("security.csrf_key is required in production")
	}
	if c.IsProduction() && c.Seed.Demo {
		return errors.New("seed.demo cannot be enabled in production")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Import.MaxUploadMB) << 20
}

// CSRFKeyBytes decodes the 32-byte CSRF key. It returns nil when no key is configured.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	if c.Security.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Security.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, errors.New("security.csrf_key must be 64 hex characters")
	}
	return key, nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Logging.Level))); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
