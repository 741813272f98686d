// Package storage defines the persistence contracts of the watcher.
//
// Backends live in subpackages: memory (tests and single-process runs),
// postgres (subscriptions and processed events) and redisstore (processed events).
package storage

import (
	"context"

	"github.com/rickgao/hyperwatch/internal/model"
)

// ProcessedEventStore is the write-once set of (wallet, eventID) facts.
type ProcessedEventStore interface {
	// IsProcessed reports whether the event was already recorded for wallet.
	IsProcessed(ctx context.Context, wallet, eventID string) (bool, error)

	// MarkProcessed records the event. Recording an existing event is a no-op.
	MarkProcessed(ctx context.Context, wallet, eventID string) error
}

// SubscriptionStore is the subscriber registry and wallet-subscription mapping.
type SubscriptionStore interface {
	// ActiveWallets returns the distinct addresses tracked by at least one active subscriber.
	ActiveWallets(ctx context.Context) ([]string, error)

	// RecipientsFor returns the active subscribers tracking wallet.
	RecipientsFor(ctx context.Context, wallet string) ([]model.Recipient, error)

	// ActiveSubscribers returns every active subscriber, ordered by ID.
	ActiveSubscribers(ctx context.Context) ([]model.Subscriber, error)

	// UpsertSubscriber creates the subscriber or reactivates it.
	UpsertSubscriber(ctx context.Context, id string) (*model.Subscriber, error)

	// DeactivateSubscriber stops all notifications to a subscriber. Returns ErrNotFound if unknown.
	DeactivateSubscriber(ctx context.Context, id string) error

	// TrackWallet adds an active wallet for a subscriber. Returns ErrNotFound for an
	// unknown subscriber, ErrAlreadyTracked if the wallet is already active for it and
	// ErrWalletLimit if the subscriber already tracks maxWallets active wallets.
	TrackWallet(ctx context.Context, w model.TrackedWallet, maxWallets int) error

	// UntrackWallet deactivates a wallet for a subscriber. Returns ErrNotFound if not tracked.
	UntrackWallet(ctx context.Context, subscriberID, address string) error

	// WalletsOf returns a subscriber's active wallets, oldest first.
	WalletsOf(ctx context.Context, subscriberID string) ([]model.TrackedWallet, error)
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
