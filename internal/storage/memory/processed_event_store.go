package memory

import (
	"context"
	"sync"

	"github.com/rickgao/hyperwatch/internal/storage"
)

// ProcessedEventStore is an in-memory implementation of storage.ProcessedEventStore.
type ProcessedEventStore struct {
	mu   sync.RWMutex
	seen map[string]map[string]struct{} // wallet -> event IDs
}

// NewProcessedEventStore creates a new in-memory processed event store.
func NewProcessedEventStore() *ProcessedEventStore {
	return &ProcessedEventStore{
		seen: make(map[string]map[string]struct{}),
	}
}

// IsProcessed reports whether the event was recorded for wallet.
func (s *ProcessedEventStore) IsProcessed(_ context.Context, wallet, eventID string) (bool, error) {
	if wallet == "" || eventID == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.seen[wallet][eventID]
	return ok, nil
}

// MarkProcessed records the event. Idempotent.
func (s *ProcessedEventStore) MarkProcessed(_ context.Context, wallet, eventID string) error {
	if wallet == "" || eventID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, ok := s.seen[wallet]
	if !ok {
		events = make(map[string]struct{})
		s.seen[wallet] = events
	}
	events[eventID] = struct{}{}
	return nil
}

// Count returns the number of recorded events across all wallets.
func (s *ProcessedEventStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, events := range s.seen {
		n += len(events)
	}
	return n
}

var _ storage.ProcessedEventStore = (*ProcessedEventStore)(nil)
