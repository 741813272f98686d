package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlicedOrderStage is a lifecycle transition of a TWAP order.
type SlicedOrderStage string

const (
	StageStarted   SlicedOrderStage = "started"
	StageCompleted SlicedOrderStage = "completed"
	StageCancelled SlicedOrderStage = "cancelled"
)

// Terminal reports whether the stage ends the order's lifecycle.
func (s SlicedOrderStage) Terminal() bool {
	return s == StageCompleted || s == StageCancelled
}

// SlicedOrderEvent is emitted by the TWAP aggregator on a lifecycle transition.
type SlicedOrderEvent struct {
	Stage        SlicedOrderStage
	Wallet       string
	SliceOrderID int64
	Coin         string
	Side         Side
	InitialSize  decimal.Decimal
	FilledSize   decimal.Decimal
	Fills        int
	StartTime    int64
	EndTime      int64 // time of the last slice seen
	RealizedPnl  *decimal.Decimal
}

// Duration is the span between the first and last observed slice.
func (e SlicedOrderEvent) Duration() time.Duration {
	return time.Duration(e.EndTime-e.StartTime) * time.Millisecond
}
