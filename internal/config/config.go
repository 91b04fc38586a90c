package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alvmarrod/link-weaver/internal/version"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration parameters
type Config struct {
	ListenAddr        string `json:"listen_addr"`
	RequestTimeoutMs  int    `json:"request_timeout_ms"`
	UserAgent         string `json:"user_agent"`
	MaxConcurrentJobs int    `json:"max_concurrent_jobs"`
	MaxPagesPerJob    int    `json:"max_pages_per_job"`
	ArchivePath       string `json:"archive_path"`
	MetricsPath       string `json:"metrics_path"`
	LogLevel          string `json:"log_level"`
}

// LoadConfig reads and validates configuration from a JSON file.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logrus.Debugf("Config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer file.Close()
		decoder := json.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// RequestTimeout returns the per-fetch timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// applyDefaults sets default values for unspecified fields.
// Zero limits mean unbounded and are left alone.
func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:8080"
	}
	if cfg.RequestTimeoutMs == 0 {
		cfg.RequestTimeoutMs = 10000
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "link-weaver/" + version.Version
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "metrics.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks that values are sensible
func validate(cfg *Config) error {
	if cfg.RequestTimeoutMs < 1000 {
		return fmt.Errorf("request_timeout_ms must be >= 1000")
	}
	if cfg.MaxConcurrentJobs < 0 {
		return fmt.Errorf("max_concurrent_jobs must be >= 0")
	}
	if cfg.MaxPagesPerJob < 0 {
		return fmt.Errorf("max_pages_per_job must be >= 0")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
