package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvPollInterval        = "POLL_INTERVAL_SECONDS"
	EnvMaxWallets          = "MAX_WALLETS_PER_USER"
	EnvLargeStakeThreshold = "LARGE_STAKE_THRESHOLD"
	EnvAPIURL              = "HYPERLIQUID_API_URL"
)

// Load reads a YAML config file and expands environment variables.
// An empty path yields a zero config so that env and defaults alone can drive the watcher.
func Load(path string) (*WatcherConfig, error) {
	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	var cfg WatcherConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// Expand ${VAR} environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*WatcherConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*WatcherConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *WatcherConfig) applyEnv() error {
	if v := os.Getenv(EnvPollInterval); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvPollInterval, v)
		}
		c.Poller.Interval = time.Duration(secs) * time.Second
	}
	if v := os.Getenv(EnvMaxWallets); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvMaxWallets, v)
		}
		c.Subscriptions.MaxWallets = n
	}
	if v := os.Getenv(EnvLargeStakeThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s must be a positive number, got %q", EnvLargeStakeThreshold, v)
		}
		c.Alerts.LargeStakeThreshold = f
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.URL = v
	}
	return nil
}
