package model

import (
	"strings"
	"time"

	"github.com/rickgao/hyperwatch/internal/idhash"
	"github.com/shopspring/decimal"
)

// ActivityKind tags an Activity variant.
type ActivityKind string

const (
	KindFill       ActivityKind = "fill"
	KindOrder      ActivityKind = "order"
	KindSlicedFill ActivityKind = "sliced_fill"
	KindStaking    ActivityKind = "staking"
)

// Side is the venue's side code: "B" for bids (buys), "A" for asks (sells).
type Side string

const (
	SideBuy  Side = "B"
	SideSell Side = "A"
)

// ParseSide accepts the venue codes and their spelled-out forms.
func ParseSide(s string) Side {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B", "BUY", "BID", "LONG":
		return SideBuy
	case "A", "SELL", "ASK", "SHORT":
		return SideSell
	default:
		return ""
	}
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "?"
	}
}

// Activity is one classified event from a wallet's history. The set of
// implementations is closed; switch on the concrete type.
type Activity interface {
	Kind() ActivityKind
	// Timestamp is the venue time in milliseconds since epoch.
	Timestamp() int64
	// EventID is a deterministic identity derived from immutable fields.
	EventID() string

	activity()
}

// Fill is an executed trade on the wallet's account.
type Fill struct {
	Time      int64
	TradeID   int64 // tid
	OrderID   int64 // oid
	Hash      string
	Coin      string
	Side      Side
	Size      decimal.Decimal
	Price     decimal.Decimal
	Direction string           // e.g. "Open Long", "Close Short"
	ClosedPnl *decimal.Decimal // nil when the venue did not report one
}

func (f Fill) Kind() ActivityKind { return KindFill }
func (f Fill) Timestamp() int64   { return f.Time }
func (f Fill) activity()          {}

func (f Fill) EventID() string {
	return idhash.FillID(f.Time, f.TradeID, f.OrderID, f.Hash, f.Coin, string(f.Side), f.Size.String(), f.Price.String())
}

// OrderStatus is the venue's order status string.
type OrderStatus string

const (
	OrderOpen           OrderStatus = "open"
	OrderFilled         OrderStatus = "filled"
	OrderCanceled       OrderStatus = "canceled"
	OrderTriggered      OrderStatus = "triggered"
	OrderRejected       OrderStatus = "rejected"
	OrderMarginCanceled OrderStatus = "marginCanceled"
)

// OrderEvent is an order status change from the wallet's order history.
type OrderEvent struct {
	Time     int64 // status timestamp
	OrderID  int64
	Status   OrderStatus
	Coin     string
	Side     Side
	Size     decimal.Decimal // remaining size
	OrigSize decimal.Decimal
	Price    decimal.Decimal // limit price
}

func (o OrderEvent) Kind() ActivityKind { return KindOrder }
func (o OrderEvent) Timestamp() int64   { return o.Time }
func (o OrderEvent) activity()          {}

func (o OrderEvent) EventID() string {
	return idhash.OrderID(o.Time, o.OrderID, string(o.Status), o.Coin, string(o.Side), o.OrigSize.String(), o.Price.String())
}

// SlicedFill is one slice of a TWAP order.
type SlicedFill struct {
	Time              int64
	SliceID           int64 // trade id of the slice
	SliceOrderID      int64 // parent TWAP id
	Coin              string
	Side              Side
	Size              decimal.Decimal
	Price             decimal.Decimal
	ClosedPnl         *decimal.Decimal
	TerminalDone      bool
	TerminalCancelled bool
	FilledSize        *decimal.Decimal // cumulative filled size, when the venue reports it
}

func (s SlicedFill) Kind() ActivityKind { return KindSlicedFill }
func (s SlicedFill) Timestamp() int64   { return s.Time }
func (s SlicedFill) activity()          {}

// EventID identifies the slice within its parent order.
func (s SlicedFill) EventID() string {
	return idhash.SliceID(s.SliceOrderID, s.SliceID, s.Time, s.Size.String())
}

// StakingAction is the kind of staking ledger movement.
type StakingAction string

const (
	StakingDelegate   StakingAction = "delegate"
	StakingUndelegate StakingAction = "undelegate"
	StakingDeposit    StakingAction = "depositToStaking"
	StakingWithdraw   StakingAction = "withdrawFromStaking"
)

// StakingEvent is a delegation or staking balance movement.
type StakingEvent struct {
	Time      int64
	Hash      string
	Action    StakingAction
	Amount    decimal.Decimal
	Validator string
}

func (s StakingEvent) Kind() ActivityKind { return KindStaking }
func (s StakingEvent) Timestamp() int64   { return s.Time }
func (s StakingEvent) activity()          {}

func (s StakingEvent) EventID() string {
	return idhash.StakingID(s.Time, s.Hash, string(s.Action), s.Amount.String(), s.Validator)
}

// MillisToTime converts a venue timestamp to time.Time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
