package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/hyperwatch/internal/storage"
)

// ProcessedEventStore is a PostgreSQL implementation of storage.ProcessedEventStore.
// Rows in processed_events are never updated or deleted.
type ProcessedEventStore struct {
	pinger
}

// NewProcessedEventStore creates a new PostgreSQL processed event store.
func NewProcessedEventStore(pool *pgxpool.Pool) *ProcessedEventStore {
	return &ProcessedEventStore{pinger{pool: pool}}
}

// IsProcessed checks whether (wallet, eventID) has been recorded.
func (s *ProcessedEventStore) IsProcessed(ctx context.Context, wallet, eventID string) (bool, error) {
	if wallet == "" || eventID == "" {
		return false, storage.ErrInvalidInput
	}

	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM processed_events WHERE wallet = $1 AND event_id = $2)
	`, wallet, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query processed event: %w", err)
	}
	return exists, nil
}

// MarkProcessed records (wallet, eventID). Existing rows are left untouched.
func (s *ProcessedEventStore) MarkProcessed(ctx context.Context, wallet, eventID string) error {
	if wallet == "" || eventID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO processed_events (wallet, event_id, processed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (wallet, event_id) DO NOTHING
	`, wallet, eventID)
	if err != nil {
		return fmt.Errorf("insert processed event: %w", err)
	}
	return nil
}

var (
	_ storage.ProcessedEventStore = (*ProcessedEventStore)(nil)
	_ storage.Pinger              = (*ProcessedEventStore)(nil)
)
