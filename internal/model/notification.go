package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind selects how a notification is rendered and routed.
type NotificationKind string

const (
	NotifyFill        NotificationKind = "fill"
	NotifyOrder       NotificationKind = "order"
	NotifyStaking     NotificationKind = "staking"
	NotifyLargeStake  NotificationKind = "large_stake"
	NotifySlicedOrder NotificationKind = "sliced_order"
	NotifyNewListing  NotificationKind = "new_listing"
)

// Listings holds newly listed instrument names per pool.
type Listings struct {
	Perp []string
	Spot []string
}

// Empty reports whether neither pool has new names.
func (l Listings) Empty() bool {
	return len(l.Perp) == 0 && len(l.Spot) == 0
}

// Notification is one event to fan out. Exactly one of Activity,
// SlicedOrder or Listings is set, matching Kind.
type Notification struct {
	ID          uuid.UUID
	Kind        NotificationKind
	Wallet      string
	Activity    Activity
	SlicedOrder *SlicedOrderEvent
	Listings    *Listings
	CreatedAt   time.Time
}

// NewActivityNotification wraps a non-sliced activity.
func NewActivityNotification(wallet string, a Activity) Notification {
	var kind NotificationKind
	switch a.(type) {
	case Fill:
		kind = NotifyFill
	case OrderEvent:
		kind = NotifyOrder
	case StakingEvent:
		kind = NotifyStaking
	case SlicedFill:
		// Slices are reported through SlicedOrderEvent; this is only reachable by misuse.
		kind = NotifySlicedOrder
	}
	return Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Wallet:    wallet,
		Activity:  a,
		CreatedAt: time.Now().UTC(),
	}
}

// NewSlicedOrderNotification wraps an aggregator lifecycle event.
func NewSlicedOrderNotification(ev SlicedOrderEvent) Notification {
	return Notification{
		ID:          uuid.New(),
		Kind:        NotifySlicedOrder,
		Wallet:      ev.Wallet,
		SlicedOrder: &ev,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewListingNotification wraps newly listed instruments.
func NewListingNotification(l Listings) Notification {
	return Notification{
		ID:        uuid.New(),
		Kind:      NotifyNewListing,
		Listings:  &l,
		CreatedAt: time.Now().UTC(),
	}
}
