package config

import (
	"time"

	hl "github.com/sonirico/go-hyperliquid"
)

// DefaultAPIURL is the Hyperliquid mainnet REST endpoint.
var DefaultAPIURL = hl.MainnetAPIURL

// Backend names accepted by storage and notifier configuration.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	NotifierLog     = "log"
	NotifierKafka   = "kafka"
)

// Default values for optional configuration fields.
const (
	DefaultInstanceID          = "hyperwatch"
	DefaultAPITimeout          = 10 * time.Second
	DefaultMaxRetries          = 3
	DefaultRetryBackoff        = 500 * time.Millisecond
	DefaultPollInterval        = 10 * time.Second
	DefaultLookback            = 60 * time.Second
	DefaultPollConcurrency     = 10
	DefaultRequestTimeout      = 10 * time.Second
	DefaultPruneAfter          = 24 * time.Hour
	DefaultListingsInterval    = 5 * time.Minute
	DefaultMaxWallets          = 5
	DefaultLargeStakeThreshold = 10000
	DefaultBroadcastBatchSize  = 25
	DefaultBroadcastBatchDelay = time.Second
	DefaultMaxParallelSends    = 16
	DefaultStorageBackend      = BackendMemory
	DefaultDBPort              = 5432
	DefaultDBSSLMode           = "prefer"
	DefaultMaxConns            = 10
	DefaultMinConns            = 2
	DefaultRedisAddr           = "localhost:6379"
	DefaultRedisKeyPrefix      = "hyperwatch"
	DefaultRedisTTL            = 72 * time.Hour
	DefaultNotifierBackend     = NotifierLog
	DefaultKafkaTopic          = "hyperwatch.notifications"
	DefaultHTTPAddr            = ":8080"
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
)

func (c *WatcherConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// API defaults
	if c.API.URL == "" {
		c.API.URL = DefaultAPIURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Lookback == 0 {
		c.Poller.Lookback = DefaultLookback
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.RequestTimeout == 0 {
		c.Poller.RequestTimeout = DefaultRequestTimeout
	}
	if c.Poller.PruneAfter == 0 {
		c.Poller.PruneAfter = DefaultPruneAfter
	}

	if c.Listings.Interval == 0 {
		c.Listings.Interval = DefaultListingsInterval
	}
	if c.Subscriptions.MaxWallets == 0 {
		c.Subscriptions.MaxWallets = DefaultMaxWallets
	}

	// Alert defaults
	if c.Alerts.LargeStakeThreshold == 0 {
		c.Alerts.LargeStakeThreshold = DefaultLargeStakeThreshold
	}
	if c.Alerts.BroadcastBatchSize == 0 {
		c.Alerts.BroadcastBatchSize = DefaultBroadcastBatchSize
	}
	if c.Alerts.BroadcastBatchDelay == 0 {
		c.Alerts.BroadcastBatchDelay = DefaultBroadcastBatchDelay
	}
	if c.Alerts.MaxParallelSends == 0 {
		c.Alerts.MaxParallelSends = DefaultMaxParallelSends
	}

	// Storage defaults
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultStorageBackend
	}
	if c.Storage.DedupBackend == "" {
		c.Storage.DedupBackend = c.Storage.Backend
	}
	applyDBDefaults(&c.Database.Postgres)
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultRedisTTL
	}

	// Notifier defaults
	if c.Notifier.Backend == "" {
		c.Notifier.Backend = DefaultNotifierBackend
	}
	if c.Notifier.Kafka.Topic == "" {
		c.Notifier.Kafka.Topic = DefaultKafkaTopic
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
