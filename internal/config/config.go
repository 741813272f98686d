package config

import "time"

// WatcherConfig is the root configuration for a watcher instance.
type WatcherConfig struct {
	Instance      InstanceConfig     `yaml:"instance"`
	API           APIConfig          `yaml:"api"`
	Poller        PollerConfig       `yaml:"poller"`
	Listings      ListingsConfig     `yaml:"listings"`
	Subscriptions SubscriptionConfig `yaml:"subscriptions"`
	Alerts        AlertsConfig       `yaml:"alerts"`
	Storage       StorageConfig      `yaml:"storage"`
	Database      DatabaseConfig     `yaml:"database"`
	Redis         RedisConfig        `yaml:"redis"`
	Notifier      NotifierConfig     `yaml:"notifier"`
	HTTP          HTTPConfig         `yaml:"http"`
	Log           LogConfig          `yaml:"log"`
}

// InstanceConfig identifies this watcher.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Hyperliquid info endpoint settings.
type APIConfig struct {
	URL          string        `yaml:"url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// PollerConfig holds wallet poll scheduler settings.
type PollerConfig struct {
	Interval       time.Duration `yaml:"interval"`
	Lookback       time.Duration `yaml:"lookback"`
	Concurrency    int           `yaml:"concurrency"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PruneAfter     time.Duration `yaml:"prune_after"` // Drop sliced orders not seen for this long
}

// ListingsConfig holds market-listing detector settings.
type ListingsConfig struct {
	Interval time.Duration `yaml:"interval"`
	Disabled bool          `yaml:"disabled"`
}

// SubscriptionConfig holds subscription directory limits.
type SubscriptionConfig struct {
	MaxWallets int `yaml:"max_wallets"`
}

// AlertsConfig holds notification fan-out settings.
type AlertsConfig struct {
	LargeStakeThreshold float64       `yaml:"large_stake_threshold"`
	BroadcastBatchSize  int           `yaml:"broadcast_batch_size"`
	BroadcastBatchDelay time.Duration `yaml:"broadcast_batch_delay"`
	MaxParallelSends    int           `yaml:"max_parallel_sends"`
}

// StorageConfig selects the persistence backends.
type StorageConfig struct {
	Backend      string `yaml:"backend"`       // memory | postgres
	DedupBackend string `yaml:"dedup_backend"` // memory | postgres | redis
}

// DatabaseConfig holds the PostgreSQL connection for subscriptions and processed events.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RedisConfig holds the Redis connection used by the redis dedup backend.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"` // per-wallet set expiry, refreshed on each write
}

// NotifierConfig selects where outbound messages go.
type NotifierConfig struct {
	Backend string      `yaml:"backend"` // log | kafka
	Kafka   KafkaConfig `yaml:"kafka"`
}

// KafkaConfig holds the chat front-end topic settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// HTTPConfig holds the admin/health server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}
