package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearOverrides blanks the env overrides so the host environment cannot leak into a test.
func clearOverrides(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvPollInterval, EnvMaxWallets, EnvLargeStakeThreshold, EnvAPIURL} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearOverrides(t)

	yaml := `
instance:
  id: test-watcher
api:
  url: https://api.hyperliquid-testnet.xyz
poller:
  interval: 5s
  concurrency: 4
storage:
  backend: postgres
database:
  postgres:
    host: localhost
    port: 5432
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-watcher" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-watcher")
	}
	if cfg.API.URL != "https://api.hyperliquid-testnet.xyz" {
		t.Errorf("API.URL = %q, want %q", cfg.API.URL, "https://api.hyperliquid-testnet.xyz")
	}
	if cfg.Poller.Interval != 5*time.Second {
		t.Errorf("Poller.Interval = %v, want %v", cfg.Poller.Interval, 5*time.Second)
	}
	if cfg.Poller.Concurrency != 4 {
		t.Errorf("Poller.Concurrency = %d, want %d", cfg.Poller.Concurrency, 4)
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	clearOverrides(t)
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Database.Postgres.Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	clearOverrides(t)

	cfg, err := LoadWithDefaults("")
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.API.URL != DefaultAPIURL {
		t.Errorf("API.URL = %q, want default %q", cfg.API.URL, DefaultAPIURL)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want default %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.Poller.Lookback != DefaultLookback {
		t.Errorf("Poller.Lookback = %v, want default %v", cfg.Poller.Lookback, DefaultLookback)
	}
	if cfg.Subscriptions.MaxWallets != DefaultMaxWallets {
		t.Errorf("Subscriptions.MaxWallets = %d, want default %d", cfg.Subscriptions.MaxWallets, DefaultMaxWallets)
	}
	if cfg.Alerts.LargeStakeThreshold != DefaultLargeStakeThreshold {
		t.Errorf("Alerts.LargeStakeThreshold = %v, want default %v", cfg.Alerts.LargeStakeThreshold, DefaultLargeStakeThreshold)
	}
	if cfg.Listings.Interval != DefaultListingsInterval {
		t.Errorf("Listings.Interval = %v, want default %v", cfg.Listings.Interval, DefaultListingsInterval)
	}
	if cfg.Storage.DedupBackend != cfg.Storage.Backend {
		t.Errorf("Storage.DedupBackend = %q, want %q", cfg.Storage.DedupBackend, cfg.Storage.Backend)
	}
	if cfg.Redis.TTL != DefaultRedisTTL {
		t.Errorf("Redis.TTL = %v, want default %v", cfg.Redis.TTL, DefaultRedisTTL)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Database.Postgres.Port = %d, want default %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvPollInterval, "30")
	t.Setenv(EnvMaxWallets, "8")
	t.Setenv(EnvLargeStakeThreshold, "25000.5")
	t.Setenv(EnvAPIURL, "http://localhost:3001")

	path := writeTempFile(t, "poller:\n  interval: 5s\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Poller.Interval != 30*time.Second {
		t.Errorf("Poller.Interval = %v, want %v", cfg.Poller.Interval, 30*time.Second)
	}
	if cfg.Subscriptions.MaxWallets != 8 {
		t.Errorf("Subscriptions.MaxWallets = %d, want %d", cfg.Subscriptions.MaxWallets, 8)
	}
	if cfg.Alerts.LargeStakeThreshold != 25000.5 {
		t.Errorf("Alerts.LargeStakeThreshold = %v, want %v", cfg.Alerts.LargeStakeThreshold, 25000.5)
	}
	if cfg.API.URL != "http://localhost:3001" {
		t.Errorf("API.URL = %q, want %q", cfg.API.URL, "http://localhost:3001")
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvPollInterval, "ten"},
		{EnvPollInterval, "0"},
		{EnvMaxWallets, "-1"},
		{EnvLargeStakeThreshold, "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearOverrides(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			if err == nil {
				t.Fatalf("Load() expected error for %s=%q", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should mention %s", err.Error(), tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() WatcherConfig {
		cfg := WatcherConfig{}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*WatcherConfig)
		wantErr string
	}{
		{
			name:    "missing instance id",
			mutate:  func(c *WatcherConfig) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "bad api url",
			mutate:  func(c *WatcherConfig) { c.API.URL = "api.hyperliquid.xyz" },
			wantErr: `api.url must be an http(s) URL, got "api.hyperliquid.xyz"`,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *WatcherConfig) { c.Poller.Concurrency = 0 },
			wantErr: "poller.concurrency must be >= 1",
		},
		{
			name:    "zero max wallets",
			mutate:  func(c *WatcherConfig) { c.Subscriptions.MaxWallets = 0 },
			wantErr: "subscriptions.max_wallets must be >= 1",
		},
		{
			name:    "negative threshold",
			mutate:  func(c *WatcherConfig) { c.Alerts.LargeStakeThreshold = -1 },
			wantErr: "alerts.large_stake_threshold must be > 0",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *WatcherConfig) { c.Storage.Backend = "sqlite" },
			wantErr: `storage.backend must be memory or postgres, got "sqlite"`,
		},
		{
			name: "missing postgres host",
			mutate: func(c *WatcherConfig) {
				c.Storage.Backend = "postgres"
			},
			wantErr: "database.postgres.host is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *WatcherConfig) {
				c.Storage.Backend = "postgres"
				c.Database.Postgres = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10}
			},
			wantErr: "database.postgres.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "postgres dedup without postgres storage",
			mutate:  func(c *WatcherConfig) { c.Storage.DedupBackend = "postgres" },
			wantErr: "storage.dedup_backend postgres requires storage.backend postgres",
		},
		{
			name:    "kafka without brokers",
			mutate:  func(c *WatcherConfig) { c.Notifier.Backend = "kafka" },
			wantErr: "notifier.kafka.brokers is required",
		},
		{
			name: "redis dedup",
			mutate: func(c *WatcherConfig) {
				c.Storage.DedupBackend = "redis"
			},
			wantErr: "",
		},
		{
			name: "redis ttl inside lookback",
			mutate: func(c *WatcherConfig) {
				c.Storage.DedupBackend = "redis"
				c.Redis.TTL = 30 * time.Second
			},
			wantErr: "redis.ttl (30s) must exceed poller.lookback (1m0s)",
		},
		{
			name:    "valid config",
			mutate:  func(c *WatcherConfig) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
