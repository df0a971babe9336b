// Package config loads the service configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	Timeout        time.Duration `yaml:"timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

// DatasetConfig selects where the training data comes from.
type DatasetConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
	Table  string `yaml:"table"`
	Target string `yaml:"target"`
}

type CacheConfig struct {
	Size int `yaml:"size"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Timeout:        30 * time.Second,
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Dataset: DatasetConfig{
			Path:   "data/healthcare_data.csv",
			Format: FormatCSV,
			Table:  "patients",
			Target: "RiskScore",
		},
		Cache: CacheConfig{Size: 256},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Validate checks for values the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, errors.New("server.timeout must be positive"))
	}
	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset.path is required"))
	}
	c.Dataset.Format = strings.ToLower(c.Dataset.Format)
	switch c.Dataset.Format {
	case FormatCSV:
	case FormatSQLite:
		if c.Dataset.Table == "" {
			errs = append(errs, errors.New("dataset.table is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("dataset.format %q is not csv or sqlite", c.Dataset.Format))
	}
	if c.Cache.Size < 0 {
		errs = append(errs, errors.New("cache.size must not be negative"))
	}
	return errors.Join(errs...)
}
