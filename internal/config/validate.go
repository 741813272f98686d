package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *WatcherConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("api.url must be an http(s) URL, got %q", c.API.URL)
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}
	if c.Poller.Lookback <= 0 {
		return errors.New("poller.lookback must be > 0")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	if c.Subscriptions.MaxWallets < 1 {
		return errors.New("subscriptions.max_wallets must be >= 1")
	}

	if c.Alerts.LargeStakeThreshold <= 0 {
		return errors.New("alerts.large_stake_threshold must be > 0")
	}
	if c.Alerts.BroadcastBatchSize < 1 {
		return errors.New("alerts.broadcast_batch_size must be >= 1")
	}
	if c.Alerts.MaxParallelSends < 1 {
		return errors.New("alerts.max_parallel_sends must be >= 1")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.backend must be memory or postgres, got %q", c.Storage.Backend)
	}

	switch c.Storage.DedupBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.Backend != BackendPostgres {
			return errors.New("storage.dedup_backend postgres requires storage.backend postgres")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required")
		}
		if c.Redis.TTL <= c.Poller.Lookback {
			return fmt.Errorf("redis.ttl (%s) must exceed poller.lookback (%s)", c.Redis.TTL, c.Poller.Lookback)
		}
	default:
		return fmt.Errorf("storage.dedup_backend must be memory, postgres or redis, got %q", c.Storage.DedupBackend)
	}

	switch c.Notifier.Backend {
	case NotifierLog:
	case NotifierKafka:
		if len(c.Notifier.Kafka.Brokers) == 0 {
			return errors.New("notifier.kafka.brokers is required")
		}
		if c.Notifier.Kafka.Topic == "" {
			return errors.New("notifier.kafka.topic is required")
		}
	default:
		return fmt.Errorf("notifier.backend must be log or kafka, got %q", c.Notifier.Backend)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
