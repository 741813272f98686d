package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/hyperwatch/internal/model"
)

const stakeToken = "HYPE"

// Render produces the plain-text body of n as seen by a recipient who knows
// the wallet as label.
func Render(n model.Notification, label string) string {
	switch n.Kind {
	case model.NotifyFill, model.NotifyOrder, model.NotifyStaking:
		return renderActivity(n.Activity, label)
	case model.NotifyLargeStake:
		if s, ok := n.Activity.(model.StakingEvent); ok {
			return "Large stake alert: " + renderStaking(s, model.ShortAddress(n.Wallet))
		}
	case model.NotifySlicedOrder:
		if n.SlicedOrder != nil {
			return renderSlicedOrder(*n.SlicedOrder, label)
		}
		if n.Activity != nil {
			return renderActivity(n.Activity, label)
		}
	case model.NotifyNewListing:
		if n.Listings != nil {
			return renderListings(*n.Listings)
		}
	}
	return fmt.Sprintf("%s: %s activity", label, n.Kind)
}

// RenderActivity describes a single activity, including raw TWAP slices.
func RenderActivity(a model.Activity, label string) string {
	return renderActivity(a, label)
}

func renderActivity(a model.Activity, label string) string {
	switch v := a.(type) {
	case model.Fill:
		var b strings.Builder
		fmt.Fprintf(&b, "%s filled: %s %s %s @ %s", label, titleSide(v.Side), v.Size, v.Coin, v.Price)
		if v.Direction != "" {
			fmt.Fprintf(&b, " (%s)", v.Direction)
		}
		if v.ClosedPnl != nil && !v.ClosedPnl.IsZero() {
			fmt.Fprintf(&b, ", closed PnL %s", signed(*v.ClosedPnl))
		}
		return b.String()
	case model.OrderEvent:
		return fmt.Sprintf("%s order %s: %s %s %s @ %s", label, v.Status, titleSide(v.Side), v.OrigSize, v.Coin, v.Price)
	case model.StakingEvent:
		return renderStaking(v, label)
	case model.SlicedFill:
		out := fmt.Sprintf("%s TWAP %d slice: %s %s %s @ %s", label, v.SliceOrderID, titleSide(v.Side), v.Size, v.Coin, v.Price)
		switch {
		case v.TerminalCancelled:
			out += " (cancelled)"
		case v.TerminalDone:
			out += " (done)"
		}
		return out
	default:
		return label + ": new activity"
	}
}

func renderStaking(s model.StakingEvent, label string) string {
	var verb string
	switch s.Action {
	case model.StakingDelegate:
		verb = "delegated"
	case model.StakingUndelegate:
		verb = "undelegated"
	case model.StakingDeposit:
		verb = "deposited to staking"
	case model.StakingWithdraw:
		verb = "withdrew from staking"
	default:
		verb = string(s.Action)
	}

	out := fmt.Sprintf("%s %s %s %s", label, verb, s.Amount.StringFixed(2), stakeToken)
	if s.Validator != "" {
		switch s.Action {
		case model.StakingUndelegate:
			out += " from " + model.ShortAddress(s.Validator)
		default:
			out += " to " + model.ShortAddress(s.Validator)
		}
	}
	return out
}

func renderSlicedOrder(ev model.SlicedOrderEvent, label string) string {
	switch ev.Stage {
	case model.StageStarted:
		return fmt.Sprintf("%s TWAP started: %s %s %s", label, titleSide(ev.Side), ev.InitialSize, ev.Coin)
	case model.StageCompleted:
		out := fmt.Sprintf("%s TWAP completed: %s %s %s, %d fills over %s",
			label, titleSide(ev.Side), ev.InitialSize, ev.Coin, ev.Fills, ev.Duration().Round(time.Millisecond))
		if ev.RealizedPnl != nil {
			out += ", PnL " + signed(*ev.RealizedPnl)
		}
		return out
	case model.StageCancelled:
		return fmt.Sprintf("%s TWAP cancelled: %s %s, filled %s of %s after %d fills",
			label, titleSide(ev.Side), ev.Coin, ev.FilledSize, ev.InitialSize, ev.Fills)
	default:
		return fmt.Sprintf("%s TWAP %s: %s", label, ev.Stage, ev.Coin)
	}
}

func renderListings(l model.Listings) string {
	var b strings.Builder
	b.WriteString("New listings")
	if len(l.Perp) > 0 {
		b.WriteString("\nPerp: " + strings.Join(l.Perp, ", "))
	}
	if len(l.Spot) > 0 {
		b.WriteString("\nSpot: " + strings.Join(l.Spot, ", "))
	}
	return b.String()
}

func titleSide(s model.Side) string {
	switch s {
	case model.SideBuy:
		return "Buy"
	case model.SideSell:
		return "Sell"
	default:
		return "?"
	}
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}
