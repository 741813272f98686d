// Package dedup applies the check-then-mark policy over a ProcessedEventStore.
//
// The mark is written before the caller dispatches anything, so a crash
// between the two loses a notification rather than repeating it.
package dedup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/hyperwatch/internal/metrics"
	"github.com/rickgao/hyperwatch/internal/storage"
)

// Guard decides whether an event is new for a wallet.
type Guard struct {
	store   storage.ProcessedEventStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewGuard creates a guard over store.
func NewGuard(store storage.ProcessedEventStore, logger *slog.Logger, m *metrics.Metrics) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Guard{store: store, logger: logger, metrics: m}
}

// Claim records (wallet, eventID) and reports whether this call was the first to do so.
// On a store error it returns false with the error; the caller must not notify.
// Claims for one wallet are expected from a single goroutine at a time.
func (g *Guard) Claim(ctx context.Context, wallet, eventID string) (bool, error) {
	seen, err := g.store.IsProcessed(ctx, wallet, eventID)
	if err != nil {
		g.metrics.DedupErrors.Inc()
		return false, fmt.Errorf("check processed: %w", err)
	}
	if seen {
		g.metrics.DuplicatesSkipped.Inc()
		g.logger.Debug("duplicate event skipped", "wallet", wallet, "event_id", eventID)
		return false, nil
	}

	if err := g.store.MarkProcessed(ctx, wallet, eventID); err != nil {
		g.metrics.DedupErrors.Inc()
		return false, fmt.Errorf("mark processed: %w", err)
	}
	g.metrics.EventsClaimed.Inc()
	return true, nil
}
