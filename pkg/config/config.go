// Package config loads thankful's settings from a YAML file, .env files and
// THANKFUL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "THANKFUL_"

const maxConfigFileSize = 1024 * 1024

// defaults is loaded before the config file so that unset keys keep these values.
const defaults = `
db:
  wal: true
  sync: NORMAL
log:
  level: info
  format: console
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
photos:
  backend: disk
reminders:
  auto_grant: true
  reload_interval: 1m
`

type Config struct {
	DB        DBConfig        `koanf:"db"`
	Log       LogConfig       `koanf:"log"`
	Photos    PhotosConfig    `koanf:"photos"`
	Reminders RemindersConfig `koanf:"reminders"`
	Examples  ExamplesConfig  `koanf:"examples"`
}

type DBConfig struct {
	Path string `koanf:"path"`
	WAL  bool   `koanf:"wal"`
	Sync string `koanf:"sync"`
}

// LogConfig selects the log encoder and destination. An empty File logs to stderr.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

type PhotosConfig struct {
	Backend     string `koanf:"backend"`
	Dir         string `koanf:"dir"`
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3Region    string `koanf:"s3_region"`
	S3Bucket    string `koanf:"s3_bucket"`
	S3Prefix    string `koanf:"s3_prefix"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
}

// RemindersConfig holds the reminder text and the permission recorded on
// first use. Empty Title and Body use the built-in text.
type RemindersConfig struct {
	Title          string        `koanf:"title"`
	Body           string        `koanf:"body"`
	AutoGrant      bool          `koanf:"auto_grant"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

type ExamplesConfig struct {
	Path string `koanf:"path"`
}

// LoadDotEnv loads .env.local and .env from the working directory. Variables
// already set in the environment are never overwritten, and .env.local wins
// over .env. It returns the files that were loaded.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// Load builds the configuration. Precedence, highest first:
//
//  1. THANKFUL_* environment variables (THANKFUL_DB_PATH -> db.path)
//  2. the YAML file at configPath
//  3. built-in defaults
//
// An empty configPath reads DefaultConfigPath if it exists. An explicit
// configPath must exist.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath()
	}
	if configPath != "" {
		content, err := readConfigFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist) && !explicit:
		case err != nil:
			return nil, err
		default:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps THANKFUL_PHOTOS_S3_BUCKET to photos.s3_bucket: the first
// underscore after the prefix separates section and field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// applyDefaults fills values derived from other settings.
func applyDefaults(cfg *Config) {
	if cfg.DB.Path == "" {
		cfg.DB.Path = DefaultDBPath()
	}
	cfg.DB.Sync = strings.ToUpper(cfg.DB.Sync)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	cfg.Photos.Backend = strings.ToLower(cfg.Photos.Backend)
	if cfg.Photos.Backend == "disk" && cfg.Photos.Dir == "" {
		cfg.Photos.Dir = PhotoDirFor(cfg.DB.Path)
	}
}

// PhotoDirFor returns the photo directory kept next to a database file.
func PhotoDirFor(dbPath string) string {
	if strings.Contains(dbPath, ":memory:") {
		return filepath.Join(DefaultDataDir(), "photos")
	}
	return filepath.Join(filepath.Dir(dbPath), "photos")
}

var validSyncModes = map[string]bool{"OFF": true, "NORMAL": true, "FULL": true, "EXTRA": true}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if !validSyncModes[c.DB.Sync] {
		errs = append(errs, fmt.Errorf("db.sync: %q is not one of OFF, NORMAL, FULL, EXTRA", c.DB.Sync))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format: %q is not json or console", c.Log.Format))
	}
	switch c.Photos.Backend {
	case "disk":
	case "s3":
		if c.Photos.S3Bucket == "" {
			errs = append(errs, errors.New("photos.s3_bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("photos.backend: %q is not disk or s3", c.Photos.Backend))
	}
	if c.Reminders.ReloadInterval < 0 {
		errs = append(errs, errors.New("reminders.reload_interval must not be negative"))
	}

	return errors.Join(errs...)
}
