package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rickgao/hyperwatch/internal/model"
	"github.com/rickgao/hyperwatch/internal/storage"
)

// SubscriptionStore is an in-memory implementation of storage.SubscriptionStore.
type SubscriptionStore struct {
	mu          sync.RWMutex
	subscribers map[string]*model.Subscriber
	wallets     map[string][]*model.TrackedWallet // subscriber ID -> wallets, insertion order
}

// NewSubscriptionStore creates a new in-memory subscription store.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subscribers: make(map[string]*model.Subscriber),
		wallets:     make(map[string][]*model.TrackedWallet),
	}
}

// ActiveWallets returns distinct addresses with at least one active subscriber, sorted.
func (s *SubscriptionStore) ActiveWallets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for subID, ws := range s.wallets {
		if !s.activeLocked(subID) {
			continue
		}
		for _, w := range ws {
			if w.Active {
				set[w.Address] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for addr := range set {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out, nil
}

// RecipientsFor returns active subscribers of wallet, ordered by subscriber ID.
func (s *SubscriptionStore) RecipientsFor(_ context.Context, wallet string) ([]model.Recipient, error) {
	wallet = model.NormalizeAddress(wallet)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Recipient
	for subID, ws := range s.wallets {
		if !s.activeLocked(subID) {
			continue
		}
		for _, w := range ws {
			if w.Active && w.Address == wallet {
				out = append(out, model.Recipient{SubscriberID: subID, Nickname: w.Nickname})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscriberID < out[j].SubscriberID })
	return out, nil
}

// ActiveSubscribers returns active subscribers ordered by ID.
func (s *SubscriptionStore) ActiveSubscribers(_ context.Context) ([]model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Subscriber
	for _, sub := range s.subscribers {
		if sub.Active {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpsertSubscriber creates or reactivates a subscriber.
func (s *SubscriptionStore) UpsertSubscriber(_ context.Context, id string) (*model.Subscriber, error) {
	if id == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscribers[id]
	if !ok {
		sub = &model.Subscriber{ID: id, CreatedAt: time.Now().UTC()}
		s.subscribers[id] = sub
	}
	sub.Active = true

	cp := *sub
	return &cp, nil
}

// DeactivateSubscriber marks a subscriber inactive.
func (s *SubscriptionStore) DeactivateSubscriber(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscribers[id]
	if !ok {
		return storage.ErrNotFound
	}
	sub.Active = false
	return nil
}

// TrackWallet adds a wallet for a subscriber, enforcing maxWallets.
func (s *SubscriptionStore) TrackWallet(_ context.Context, w model.TrackedWallet, maxWallets int) error {
	w.Address = model.NormalizeAddress(w.Address)
	if w.SubscriberID == "" || !model.ValidAddress(w.Address) {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked(w.SubscriberID) {
		return storage.ErrNotFound
	}

	var active int
	var existing *model.TrackedWallet
	for _, tw := range s.wallets[w.SubscriberID] {
		if tw.Address == w.Address {
			existing = tw
		}
		if tw.Active {
			active++
		}
	}

	if existing != nil && existing.Active {
		return storage.ErrAlreadyTracked
	}
	if active >= maxWallets {
		return storage.ErrWalletLimit
	}

	if existing != nil {
		existing.Active = true
		existing.Nickname = w.Nickname
		return nil
	}

	w.Active = true
	w.CreatedAt = time.Now().UTC()
	s.wallets[w.SubscriberID] = append(s.wallets[w.SubscriberID], &w)
	return nil
}

// UntrackWallet deactivates a wallet for a subscriber.
func (s *SubscriptionStore) UntrackWallet(_ context.Context, subscriberID, address string) error {
	address = model.NormalizeAddress(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tw := range s.wallets[subscriberID] {
		if tw.Address == address && tw.Active {
			tw.Active = false
			return nil
		}
	}
	return storage.ErrNotFound
}

// WalletsOf returns a subscriber's active wallets in insertion order.
func (s *SubscriptionStore) WalletsOf(_ context.Context, subscriberID string) ([]model.TrackedWallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.subscribers[subscriberID]; !ok {
		return nil, storage.ErrNotFound
	}

	var out []model.TrackedWallet
	for _, tw := range s.wallets[subscriberID] {
		if tw.Active {
			out = append(out, *tw)
		}
	}
	return out, nil
}

func (s *SubscriptionStore) activeLocked(id string) bool {
	sub, ok := s.subscribers[id]
	return ok && sub.Active
}

var _ storage.SubscriptionStore = (*SubscriptionStore)(nil)
