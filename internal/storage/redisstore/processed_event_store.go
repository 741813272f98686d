// Package redisstore keeps the processed-event set in Redis, one set per wallet.
package redisstore

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/rickgao/hyperwatch/internal/storage"
)

// setClient is the subset of redis.Cmdable used by the store.
type setClient interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// ProcessedEventStore is a Redis implementation of storage.ProcessedEventStore.
// A wallet's set expires ttl after its last write; ttl <= 0 keeps it forever.
type ProcessedEventStore struct {
	client setClient
	prefix string
	ttl    time.Duration
}

// NewProcessedEventStore creates a store whose keys are "<prefix>:processed:<wallet>".
func NewProcessedEventStore(client setClient, prefix string, ttl time.Duration) *ProcessedEventStore {
	return &ProcessedEventStore{client: client, prefix: prefix, ttl: ttl}
}

// NewClient builds a go-redis client.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (s *ProcessedEventStore) key(wallet string) string {
	return s.prefix + ":processed:" + wallet
}

// IsProcessed checks set membership.
func (s *ProcessedEventStore) IsProcessed(ctx context.Context, wallet, eventID string) (bool, error) {
	if wallet == "" || eventID == "" {
		return false, storage.ErrInvalidInput
	}
	key := s.key(wallet)
	ok, err := s.client.SIsMember(ctx, key, eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis SISMEMBER %s: %w", key, err)
	}
	return ok, nil
}

// MarkProcessed adds the event to the wallet's set.
func (s *ProcessedEventStore) MarkProcessed(ctx context.Context, wallet, eventID string) error {
	if wallet == "" || eventID == "" {
		return storage.ErrInvalidInput
	}
	key := s.key(wallet)
	if err := s.client.SAdd(ctx, key, eventID).Err(); err != nil {
		return fmt.Errorf("redis SADD %s: %w", key, err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis EXPIRE %s: %w", key, err)
		}
	}
	return nil
}

// Ping checks connectivity.
func (s *ProcessedEventStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var (
	_ storage.ProcessedEventStore = (*ProcessedEventStore)(nil)
	_ storage.Pinger              = (*ProcessedEventStore)(nil)
)
