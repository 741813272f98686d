package api

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	hl "github.com/sonirico/go-hyperliquid"

	"github.com/rickgao/hyperwatch/internal/model"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"0.52", "0.52"},
		{"  12.5 ", "12.5"},
		{"-3", "-3"},
		{"", "0"},
		{"invalid", "0"},
		{nil, "0"},
		{1.25, "1.25"},
	}

	for _, tt := range tests {
		got := ParseDecimal(tt.input)
		if got.String() != tt.want {
			t.Errorf("ParseDecimal(%v) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func decodeFill(t *testing.T, raw string) hl.Fill {
	t.Helper()
	var f hl.Fill
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal fill: %v", err)
	}
	return f
}

func TestFillToModel(t *testing.T) {
	f := decodeFill(t, `{"coin":"ETH","px":"3000.1","sz":"2","side":"A","time":1000,"dir":"Close Long",
		"closedPnl":"-12.5","hash":"0xbb","oid":5,"tid":6}`)

	m := FillToModel(f)
	if m.Coin != "ETH" || m.Side != model.SideSell {
		t.Errorf("Coin/Side = %q/%q, want ETH/A", m.Coin, m.Side)
	}
	if !m.Price.Equal(decimal.RequireFromString("3000.1")) {
		t.Errorf("Price = %s, want 3000.1", m.Price)
	}
	if !m.Size.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Size = %s, want 2", m.Size)
	}
	if m.TradeID != 6 || m.OrderID != 5 || m.Time != 1000 {
		t.Errorf("ids/time = %d/%d/%d, want 6/5/1000", m.TradeID, m.OrderID, m.Time)
	}
	if m.ClosedPnl == nil || !m.ClosedPnl.Equal(decimal.RequireFromString("-12.5")) {
		t.Errorf("ClosedPnl = %v, want -12.5", m.ClosedPnl)
	}
	if m.Direction != "Close Long" {
		t.Errorf("Direction = %q, want %q", m.Direction, "Close Long")
	}
}

func TestFillToModelDegradesMissingFields(t *testing.T) {
	f := decodeFill(t, `{"px":"bad","sz":"1","side":"B","time":1}`)

	m := FillToModel(f)
	if m.Coin != "?" {
		t.Errorf("Coin = %q, want placeholder", m.Coin)
	}
	if !m.Price.IsZero() {
		t.Errorf("Price = %s, want 0", m.Price)
	}
	if m.ClosedPnl != nil {
		t.Errorf("ClosedPnl = %v, want nil", m.ClosedPnl)
	}
}

func TestHistoricalOrderToModel(t *testing.T) {
	var o hl.OrderQueryResponse
	raw := `{"order":{"coin":"SOL","side":"B","limitPx":"150","sz":"0","origSz":"10","oid":77,"timestamp":500},
		"status":"canceled","statusTimestamp":900}`
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	m := OrderToModel(o)
	if m.Time != 900 {
		t.Errorf("Time = %d, want 900", m.Time)
	}
	if m.Status != model.OrderCanceled {
		t.Errorf("Status = %q, want %q", m.Status, model.OrderCanceled)
	}
	if m.OrderID != 77 || !m.OrigSize.Equal(decimal.NewFromInt(10)) {
		t.Errorf("OrderID/OrigSize = %d/%s", m.OrderID, m.OrigSize)
	}
}

func TestTwapSliceToModel(t *testing.T) {
	tests := []struct {
		status       string
		done, cancel bool
	}{
		{"", false, false},
		{"activated", false, false},
		{"finished", true, false},
		{"terminated", false, true},
		{"Cancelled", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			s := APITwapSliceFill{
				Fill:       decodeFill(t, `{"coin":"BTC","px":"1","sz":"10","side":"B","time":100,"tid":9,"closedPnl":"5"}`),
				TwapID:     3,
				TwapStatus: tt.status,
				FilledSz:   "30",
			}
			m := s.ToModel()
			if m.TerminalDone != tt.done || m.TerminalCancelled != tt.cancel {
				t.Errorf("flags = %v/%v, want %v/%v", m.TerminalDone, m.TerminalCancelled, tt.done, tt.cancel)
			}
			if m.SliceOrderID != 3 || m.SliceID != 9 {
				t.Errorf("SliceOrderID/SliceID = %d/%d, want 3/9", m.SliceOrderID, m.SliceID)
			}
			if m.FilledSize == nil || !m.FilledSize.Equal(decimal.NewFromInt(30)) {
				t.Errorf("FilledSize = %v, want 30", m.FilledSize)
			}
		})
	}
}

func TestDelegatorEventToModel(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   model.StakingAction
		amount string
		ok     bool
	}{
		{
			name:   "delegate",
			raw:    `{"time":1,"hash":"0x1","delta":{"delegate":{"validator":"0xv","amount":"100.5","isUndelegate":false}}}`,
			want:   model.StakingDelegate,
			amount: "100.5",
			ok:     true,
		},
		{
			name:   "undelegate",
			raw:    `{"time":1,"hash":"0x1","delta":{"delegate":{"validator":"0xv","amount":"7","isUndelegate":true}}}`,
			want:   model.StakingUndelegate,
			amount: "7",
			ok:     true,
		},
		{
			name:   "deposit",
			raw:    `{"time":1,"hash":"0x1","delta":{"cDeposit":{"amount":"20000"}}}`,
			want:   model.StakingDeposit,
			amount: "20000",
			ok:     true,
		},
		{
			name:   "withdrawal",
			raw:    `{"time":1,"hash":"0x1","delta":{"withdrawal":{"amount":"3","phase":"initiated"}}}`,
			want:   model.StakingWithdraw,
			amount: "3",
			ok:     true,
		},
		{
			name: "unknown delta",
			raw:  `{"time":1,"hash":"0x1","delta":{"somethingElse":{}}}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d APIDelegatorEvent
			if err := json.Unmarshal([]byte(tt.raw), &d); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			ev, ok := d.ToModel()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if ev.Action != tt.want {
				t.Errorf("Action = %q, want %q", ev.Action, tt.want)
			}
			if ev.Amount.String() != tt.amount {
				t.Errorf("Amount = %s, want %s", ev.Amount, tt.amount)
			}
		})
	}
}
