package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
		str  string
	}{
		{"B", SideBuy, "buy"},
		{"a", SideSell, "sell"},
		{" buy ", SideBuy, "buy"},
		{"Short", SideSell, "sell"},
		{"x", "", "?"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseSide(tt.in)
			if got != tt.want {
				t.Errorf("ParseSide(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestActivityVariants(t *testing.T) {
	activities := []Activity{
		Fill{Time: 1, TradeID: 10},
		OrderEvent{Time: 2, OrderID: 20, Status: OrderOpen},
		SlicedFill{Time: 3, SliceID: 30, SliceOrderID: 3},
		StakingEvent{Time: 4, Action: StakingDelegate, Amount: decimal.NewFromInt(1)},
	}
	wantKinds := []ActivityKind{KindFill, KindOrder, KindSlicedFill, KindStaking}

	seen := make(map[string]bool)
	for i, a := range activities {
		if a.Kind() != wantKinds[i] {
			t.Errorf("activities[%d].Kind() = %q, want %q", i, a.Kind(), wantKinds[i])
		}
		if a.Timestamp() != int64(i+1) {
			t.Errorf("activities[%d].Timestamp() = %d, want %d", i, a.Timestamp(), i+1)
		}
		id := a.EventID()
		if len(id) != 64 {
			t.Errorf("activities[%d].EventID() length = %d, want 64", i, len(id))
		}
		if seen[id] {
			t.Errorf("activities[%d].EventID() collides", i)
		}
		seen[id] = true
	}
}

func TestNewActivityNotification(t *testing.T) {
	tests := []struct {
		activity Activity
		want     NotificationKind
	}{
		{Fill{}, NotifyFill},
		{OrderEvent{}, NotifyOrder},
		{StakingEvent{}, NotifyStaking},
	}

	for _, tt := range tests {
		n := NewActivityNotification("0xabc", tt.activity)
		if n.Kind != tt.want {
			t.Errorf("Kind = %q, want %q", n.Kind, tt.want)
		}
		if n.Wallet != "0xabc" {
			t.Errorf("Wallet = %q, want %q", n.Wallet, "0xabc")
		}
		if n.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Error("ID should be set")
		}
	}
}

func TestSlicedOrderEventDuration(t *testing.T) {
	ev := SlicedOrderEvent{StartTime: 100, EndTime: 300}
	if got := ev.Duration(); got != 200*time.Millisecond {
		t.Errorf("Duration() = %v, want %v", got, 200*time.Millisecond)
	}
	if !StageCompleted.Terminal() || !StageCancelled.Terminal() || StageStarted.Terminal() {
		t.Error("Terminal() mismatch")
	}
}

func TestAddresses(t *testing.T) {
	addr := "  0xABCDEF0123456789abcdef0123456789ABCDEF01 "
	if got := NormalizeAddress(addr); got != "0xabcdef0123456789abcdef0123456789abcdef01" {
		t.Errorf("NormalizeAddress() = %q", got)
	}
	if !ValidAddress(addr) {
		t.Error("ValidAddress() = false, want true")
	}
	if ValidAddress("0x1234") {
		t.Error("ValidAddress(short) = true, want false")
	}

	r := Recipient{SubscriberID: "1"}
	if got := r.Label("0xabcdef0123456789abcdef0123456789abcdef01"); got != "0xabcd…ef01" {
		t.Errorf("Label() = %q, want %q", got, "0xabcd…ef01")
	}
	r.Nickname = "whale"
	if got := r.Label("0xabcdef"); got != "whale" {
		t.Errorf("Label() = %q, want %q", got, "whale")
	}
}
