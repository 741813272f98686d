package api

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	hl "github.com/sonirico/go-hyperliquid"

	"github.com/rickgao/hyperwatch/internal/model"
)

// unknownCoin stands in for a missing coin name.
const unknownCoin = "?"

// ParseDecimal converts a venue number (usually a decimal string) to a decimal.
// Returns zero for empty or invalid input.
func ParseDecimal(v any) decimal.Decimal {
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" || s == "<nil>" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseOptionalDecimal returns nil for empty or invalid input.
func parseOptionalDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func coinName(coin string) string {
	if strings.TrimSpace(coin) == "" {
		return unknownCoin
	}
	return coin
}

// FillToModel converts a venue fill to model.Fill.
func FillToModel(f hl.Fill) model.Fill {
	return model.Fill{
		Time:      f.Time,
		TradeID:   f.Tid,
		OrderID:   f.Oid,
		Hash:      f.Hash,
		Coin:      coinName(f.Coin),
		Side:      model.ParseSide(f.Side),
		Size:      ParseDecimal(f.Size),
		Price:     ParseDecimal(f.Price),
		Direction: f.Dir,
		ClosedPnl: parseOptionalDecimal(f.ClosedPnl),
	}
}

// OrderToModel converts a historical order status entry to model.OrderEvent.
func OrderToModel(o hl.OrderQueryResponse) model.OrderEvent {
	ts := o.StatusTimestamp
	if ts == 0 {
		ts = o.Order.Timestamp
	}
	return model.OrderEvent{
		Time:     ts,
		OrderID:  o.Order.Oid,
		Status:   model.OrderStatus(o.Status),
		Coin:     coinName(o.Order.Coin),
		Side:     model.ParseSide(string(o.Order.Side)),
		Size:     ParseDecimal(o.Order.Sz),
		OrigSize: ParseDecimal(o.Order.OrigSz),
		Price:    ParseDecimal(o.Order.LimitPx),
	}
}

// ToModel converts an APITwapSliceFill to model.SlicedFill.
func (s *APITwapSliceFill) ToModel() model.SlicedFill {
	fill := FillToModel(s.Fill)
	done, cancelled := twapTerminal(s.TwapStatus)
	return model.SlicedFill{
		Time:              fill.Time,
		SliceID:           fill.TradeID,
		SliceOrderID:      s.TwapID,
		Coin:              fill.Coin,
		Side:              fill.Side,
		Size:              fill.Size,
		Price:             fill.Price,
		ClosedPnl:         fill.ClosedPnl,
		TerminalDone:      done,
		TerminalCancelled: cancelled,
		FilledSize:        parseOptionalDecimal(s.FilledSz),
	}
}

// twapTerminal maps the TWAP status carried on a slice to terminal flags.
func twapTerminal(status string) (done, cancelled bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "finished", "done", "completed":
		return true, false
	case "terminated", "cancelled", "canceled", "error":
		return false, true
	default:
		return false, false
	}
}

// ToModel converts an APIDelegatorEvent to model.StakingEvent.
// Returns false for deltas that are not staking movements.
func (d *APIDelegatorEvent) ToModel() (model.StakingEvent, bool) {
	ev := model.StakingEvent{
		Time: d.Time,
		Hash: d.Hash,
	}

	switch {
	case d.Delta.Delegate != nil:
		ev.Action = model.StakingDelegate
		if d.Delta.Delegate.IsUndelegate {
			ev.Action = model.StakingUndelegate
		}
		ev.Amount = ParseDecimal(d.Delta.Delegate.Amount)
		ev.Validator = d.Delta.Delegate.Validator
	case d.Delta.CDeposit != nil:
		ev.Action = model.StakingDeposit
		ev.Amount = ParseDecimal(d.Delta.CDeposit.Amount)
	case d.Delta.Withdrawal != nil:
		ev.Action = model.StakingWithdraw
		ev.Amount = ParseDecimal(d.Delta.Withdrawal.Amount)
	default:
		return model.StakingEvent{}, false
	}

	return ev, true
}
