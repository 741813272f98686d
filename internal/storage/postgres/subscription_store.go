package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/hyperwatch/internal/model"
	"github.com/rickgao/hyperwatch/internal/storage"
)

// SubscriptionStore is a PostgreSQL implementation of storage.SubscriptionStore.
// Uses two tables:
//   - subscribers: one row per front-end user
//   - wallet_subscriptions: (subscriber, address) rows, soft-deleted via active
type SubscriptionStore struct {
	pinger
}

// NewSubscriptionStore creates a new PostgreSQL subscription store.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{pinger{pool: pool}}
}

// ActiveWallets returns distinct addresses with at least one active subscriber.
func (s *SubscriptionStore) ActiveWallets(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT w.address
		FROM wallet_subscriptions w
		JOIN subscribers s ON s.id = w.subscriber_id
		WHERE w.active AND s.active
		ORDER BY w.address
	`)
	if err != nil {
		return nil, fmt.Errorf("query active wallets: %w", err)
	}

	wallets, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan active wallets: %w", err)
	}
	return wallets, nil
}

// RecipientsFor returns active subscribers of wallet, ordered by subscriber ID.
func (s *SubscriptionStore) RecipientsFor(ctx context.Context, wallet string) ([]model.Recipient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT w.subscriber_id, w.nickname
		FROM wallet_subscriptions w
		JOIN subscribers s ON s.id = w.subscriber_id
		WHERE w.address = $1 AND w.active AND s.active
		ORDER BY w.subscriber_id
	`, model.NormalizeAddress(wallet))
	if err != nil {
		return nil, fmt.Errorf("query recipients: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Recipient, error) {
		var r model.Recipient
		err := row.Scan(&r.SubscriberID, &r.Nickname)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan recipients: %w", err)
	}
	return out, nil
}

// ActiveSubscribers returns active subscribers ordered by ID.
func (s *SubscriptionStore) ActiveSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, active, created_at
		FROM subscribers
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Subscriber, error) {
		return scanSubscriber(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan subscribers: %w", err)
	}
	return out, nil
}

// UpsertSubscriber creates or reactivates a subscriber.
func (s *SubscriptionStore) UpsertSubscriber(ctx context.Context, id string) (*model.Subscriber, error) {
	if id == "" {
		return nil, storage.ErrInvalidInput
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO subscribers (id, active, created_at)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (id) DO UPDATE SET active = TRUE
		RETURNING id, active, created_at
	`, id)

	sub, err := scanSubscriber(row)
	if err != nil {
		return nil, fmt.Errorf("upsert subscriber: %w", err)
	}
	return &sub, nil
}

// DeactivateSubscriber marks a subscriber inactive.
func (s *SubscriptionStore) DeactivateSubscriber(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE subscribers SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// TrackWallet adds a wallet for a subscriber, enforcing maxWallets.
// The subscriber row is locked for the duration so concurrent adds cannot exceed the limit.
func (s *SubscriptionStore) TrackWallet(ctx context.Context, w model.TrackedWallet, maxWallets int) error {
	w.Address = model.NormalizeAddress(w.Address)
	if w.SubscriberID == "" || !model.ValidAddress(w.Address) {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var subActive bool
	err = tx.QueryRow(ctx, `SELECT active FROM subscribers WHERE id = $1 FOR UPDATE`, w.SubscriberID).Scan(&subActive)
	if isNotFoundError(err) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock subscriber: %w", err)
	}
	if !subActive {
		return storage.ErrNotFound
	}

	var tracked bool
	err = tx.QueryRow(ctx, `
		SELECT active FROM wallet_subscriptions WHERE subscriber_id = $1 AND address = $2
	`, w.SubscriberID, w.Address).Scan(&tracked)
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("query wallet: %w", err)
	}
	if tracked {
		return storage.ErrAlreadyTracked
	}

	var count int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM wallet_subscriptions WHERE subscriber_id = $1 AND active
	`, w.SubscriberID).Scan(&count)
	if err != nil {
		return fmt.Errorf("count wallets: %w", err)
	}
	if count >= maxWallets {
		return storage.ErrWalletLimit
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_subscriptions (subscriber_id, address, nickname, active, created_at)
		VALUES ($1, $2, $3, TRUE, NOW())
		ON CONFLICT (subscriber_id, address) DO UPDATE
		SET active = TRUE,
		    nickname = EXCLUDED.nickname
	`, w.SubscriberID, w.Address, w.Nickname)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UntrackWallet deactivates a wallet for a subscriber.
func (s *SubscriptionStore) UntrackWallet(ctx context.Context, subscriberID, address string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE wallet_subscriptions SET active = FALSE
		WHERE subscriber_id = $1 AND address = $2 AND active
	`, subscriberID, model.NormalizeAddress(address))
	if err != nil {
		return fmt.Errorf("untrack wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// WalletsOf returns a subscriber's active wallets, oldest first.
func (s *SubscriptionStore) WalletsOf(ctx context.Context, subscriberID string) ([]model.TrackedWallet, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM subscribers WHERE id = $1)`, subscriberID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query subscriber: %w", err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT subscriber_id, address, nickname, active, created_at
		FROM wallet_subscriptions
		WHERE subscriber_id = $1 AND active
		ORDER BY created_at, address
	`, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TrackedWallet, error) {
		var w model.TrackedWallet
		err := row.Scan(&w.SubscriberID, &w.Address, &w.Nickname, &w.Active, &w.CreatedAt)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan wallets: %w", err)
	}
	return out, nil
}

func scanSubscriber(row pgx.Row) (model.Subscriber, error) {
	var sub model.Subscriber
	err := row.Scan(&sub.ID, &sub.Active, &sub.CreatedAt)
	return sub, err
}

var (
	_ storage.SubscriptionStore = (*SubscriptionStore)(nil)
	_ storage.Pinger            = (*SubscriptionStore)(nil)
)
