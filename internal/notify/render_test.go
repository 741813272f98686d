package notify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rickgao/hyperwatch/internal/model"
)

func TestRender(t *testing.T) {
	pnl := decimal.RequireFromString("5")

	tests := []struct {
		name string
		n    model.Notification
		want string
	}{
		{
			name: "fill",
			n: model.NewActivityNotification(watched, model.Fill{
				Coin:      "ETH",
				Side:      model.SideSell,
				Size:      decimal.RequireFromString("2"),
				Price:     decimal.RequireFromString("3100.5"),
				Direction: "Close Long",
				ClosedPnl: &pnl,
			}),
			want: "whale filled: Sell 2 ETH @ 3100.5 (Close Long), closed PnL +5",
		},
		{
			name: "order",
			n: model.NewActivityNotification(watched, model.OrderEvent{
				Status:   model.OrderCanceled,
				Coin:     "SOL",
				Side:     model.SideBuy,
				OrigSize: decimal.RequireFromString("10"),
				Price:    decimal.RequireFromString("150"),
			}),
			want: "whale order canceled: Buy 10 SOL @ 150",
		},
		{
			name: "staking",
			n: model.NewActivityNotification(watched, model.StakingEvent{
				Action: model.StakingDeposit,
				Amount: decimal.RequireFromString("12.3456"),
			}),
			want: "whale deposited to staking 12.35 HYPE",
		},
		{
			name: "twap started",
			n: model.NewSlicedOrderNotification(model.SlicedOrderEvent{
				Stage:       model.StageStarted,
				Wallet:      watched,
				Coin:        "BTC",
				Side:        model.SideBuy,
				InitialSize: decimal.RequireFromString("10"),
			}),
			want: "whale TWAP started: Buy 10 BTC",
		},
		{
			name: "twap completed",
			n: model.NewSlicedOrderNotification(model.SlicedOrderEvent{
				Stage:       model.StageCompleted,
				Wallet:      watched,
				Coin:        "BTC",
				Side:        model.SideBuy,
				InitialSize: decimal.RequireFromString("10"),
				Fills:       3,
				StartTime:   100,
				EndTime:     300,
				RealizedPnl: &pnl,
			}),
			want: "whale TWAP completed: Buy 10 BTC, 3 fills over 200ms, PnL +5",
		},
		{
			name: "twap cancelled",
			n: model.NewSlicedOrderNotification(model.SlicedOrderEvent{
				Stage:       model.StageCancelled,
				Wallet:      watched,
				Coin:        "BTC",
				Side:        model.SideSell,
				InitialSize: decimal.RequireFromString("10"),
				FilledSize:  decimal.RequireFromString("4"),
				Fills:       2,
			}),
			want: "whale TWAP cancelled: Sell BTC, filled 4 of 10 after 2 fills",
		},
		{
			name: "listings",
			n:    model.NewListingNotification(model.Listings{Perp: []string{"AAA", "BBB"}, Spot: []string{"CCC/USDC"}}),
			want: "New listings\nPerp: AAA, BBB\nSpot: CCC/USDC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.n, "whale"))
		})
	}
}

func TestRenderActivity_TwapSlice(t *testing.T) {
	s := model.SlicedFill{
		SliceOrderID: 3,
		Coin:         "BTC",
		Side:         model.SideBuy,
		Size:         decimal.RequireFromString("0.5"),
		Price:        decimal.RequireFromString("65000"),
	}
	assert.Equal(t, "whale TWAP 3 slice: Buy 0.5 BTC @ 65000", RenderActivity(s, "whale"))

	s.TerminalDone = true
	assert.Equal(t, "whale TWAP 3 slice: Buy 0.5 BTC @ 65000 (done)", RenderActivity(s, "whale"))

	// wrapped as an activity notification it renders the same way
	n := model.NewActivityNotification(watched, s)
	assert.Equal(t, "whale TWAP 3 slice: Buy 0.5 BTC @ 65000 (done)", Render(n, "whale"))
	assert.NotContains(t, Render(n, "whale"), "sliced_order activity")
}

func TestRenderLargeStakeUsesAddress(t *testing.T) {
	n := stake("20000")
	n.Kind = model.NotifyLargeStake

	got := Render(n, "ignored")
	assert.Equal(t, "Large stake alert: 0xabcd…1234 delegated 20000.00 HYPE to 0x5555…5555", got)
}
