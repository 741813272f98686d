package api

import (
	"context"
	"sort"
	"testing"
	"time"
)

const testWallet = "0x1111111111111111111111111111111111111111"

func TestUserFillsByTime(t *testing.T) {
	server, rec := infoServer(t, map[string]string{
		QueryUserFillsByTime: `[{"coin":"BTC","px":"65000.5","sz":"0.1","side":"B","time":1700000000100,
			"startPosition":"0","dir":"Open Long","closedPnl":"0.0","hash":"0xaa","oid":11,"tid":22}]`,
	})

	c := NewClient(server.URL)
	start := time.UnixMilli(1700000000000)
	fills, err := c.UserFillsByTime(context.Background(), testWallet, start, time.Time{})
	if err != nil {
		t.Fatalf("UserFillsByTime failed: %v", err)
	}

	if len(fills) != 1 {
		t.Fatalf("len(fills) = %d, want 1", len(fills))
	}
	if fills[0].Coin != "BTC" {
		t.Errorf("Coin = %q, want %q", fills[0].Coin, "BTC")
	}
	if fills[0].Dir != "Open Long" {
		t.Errorf("Dir = %q, want %q", fills[0].Dir, "Open Long")
	}
	if fills[0].ClosedPnl != "0.0" {
		t.Errorf("ClosedPnl = %q, want %q", fills[0].ClosedPnl, "0.0")
	}

	reqs := rec.all()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].User != testWallet {
		t.Errorf("User = %q, want %q", reqs[0].User, testWallet)
	}
	if reqs[0].StartTime != 1700000000000 {
		t.Errorf("StartTime = %d, want %d", reqs[0].StartTime, int64(1700000000000))
	}
	if reqs[0].EndTime != 0 {
		t.Errorf("EndTime = %d, want omitted", reqs[0].EndTime)
	}
}

func TestNullResponsesAreEmpty(t *testing.T) {
	server, _ := infoServer(t, map[string]string{
		QueryHistoricalOrders: `null`,
		QueryDelegatorHistory: `[]`,
		QueryAllMids:          `null`,
		QueryOpenOrders:       `null`,
	})

	c := NewClient(server.URL)
	ctx := context.Background()

	orders, err := c.HistoricalOrders(ctx, testWallet)
	if err != nil || len(orders) != 0 {
		t.Errorf("HistoricalOrders() = %v, %v; want empty, nil", orders, err)
	}
	history, err := c.DelegatorHistory(ctx, testWallet)
	if err != nil || len(history) != 0 {
		t.Errorf("DelegatorHistory() = %v, %v; want empty, nil", history, err)
	}
	mids, err := c.AllMids(ctx)
	if err != nil || mids == nil || len(mids) != 0 {
		t.Errorf("AllMids() = %v, %v; want empty map, nil", mids, err)
	}
	open, err := c.OpenOrders(ctx, testWallet)
	if err != nil || len(open) != 0 {
		t.Errorf("OpenOrders() = %v, %v; want empty, nil", open, err)
	}
}

func TestAccountQueries(t *testing.T) {
	server, rec := infoServer(t, map[string]string{
		QueryClearinghouseState: `{"marginSummary":{"accountValue":"1000.5"},"withdrawable":"250",
			"assetPositions":[{"type":"oneWay","position":{"coin":"ETH","szi":"-2","leverage":{"type":"cross","value":5}}}],"time":1}`,
		QuerySpotClearinghouseState: `{"balances":[{"coin":"USDC","token":0,"total":"10","hold":"0"}]}`,
		QueryDelegations:            `[{"validator":"0xv","amount":"100","lockedUntilTimestamp":5}]`,
		QueryDelegatorSummary:       `{"delegated":"100","undelegated":"0","totalPendingWithdrawal":"0","nPendingWithdrawals":0}`,
		QueryDelegatorRewards:       `[{"time":1,"source":"delegation","totalAmount":"0.5"}]`,
	})

	c := NewClient(server.URL)
	ctx := context.Background()

	state, err := c.ClearinghouseState(ctx, testWallet)
	if err != nil {
		t.Fatalf("ClearinghouseState failed: %v", err)
	}
	if state.MarginSummary.AccountValue != "1000.5" {
		t.Errorf("AccountValue = %q, want %q", state.MarginSummary.AccountValue, "1000.5")
	}
	if len(state.AssetPositions) != 1 || state.AssetPositions[0].Position.Leverage.Value != 5 {
		t.Errorf("AssetPositions = %+v", state.AssetPositions)
	}

	spot, err := c.SpotClearinghouseState(ctx, testWallet)
	if err != nil || len(spot.Balances) != 1 {
		t.Fatalf("SpotClearinghouseState() = %+v, %v", spot, err)
	}

	delegations, err := c.Delegations(ctx, testWallet)
	if err != nil || len(delegations) != 1 || delegations[0].Amount != "100" {
		t.Errorf("Delegations() = %+v, %v", delegations, err)
	}

	summary, err := c.DelegatorSummary(ctx, testWallet)
	if err != nil || summary.Delegated != "100" {
		t.Errorf("DelegatorSummary() = %+v, %v", summary, err)
	}

	rewards, err := c.DelegatorRewards(ctx, testWallet)
	if err != nil || len(rewards) != 1 || rewards[0].Source != "delegation" {
		t.Errorf("DelegatorRewards() = %+v, %v", rewards, err)
	}

	var types []string
	for _, r := range rec.all() {
		types = append(types, r.Type)
		if r.User != testWallet {
			t.Errorf("%s sent user %q, want %q", r.Type, r.User, testWallet)
		}
	}
	want := []string{QueryClearinghouseState, QuerySpotClearinghouseState, QueryDelegations, QueryDelegatorSummary, QueryDelegatorRewards}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("types[%d] = %q, want %q", i, types[i], want[i])
		}
	}
}

func TestSpotMids(t *testing.T) {
	server, _ := infoServer(t, map[string]string{
		QueryAllMids: `{"BTC":"65000","ETH":"3000","@1":"0.5","PURR/USDC":"0.2"}`,
	})

	c := NewClient(server.URL)
	spot, err := c.SpotMids(context.Background())
	if err != nil {
		t.Fatalf("SpotMids failed: %v", err)
	}

	var keys []string
	for k := range spot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "@1" || keys[1] != "PURR/USDC" {
		t.Errorf("spot keys = %v, want [@1 PURR/USDC]", keys)
	}
}

func TestMetaNames(t *testing.T) {
	server, _ := infoServer(t, map[string]string{
		QueryMeta: `{"universe":[{"name":"BTC","szDecimals":5,"maxLeverage":50},
			{"name":"OLD","szDecimals":0,"maxLeverage":3,"isDelisted":true},{"name":"ETH","szDecimals":4,"maxLeverage":50}],
			"marginTables":[[50,{"description":"","marginTiers":[{"lowerBound":"0.0","maxLeverage":50}]}]],"collateralToken":0}`,
		QuerySpotMeta: `{"universe":[{"name":"PURR/USDC","tokens":[1,0],"index":0,"isCanonical":true},
			{"name":"@1","tokens":[2,0],"index":1,"isCanonical":false},{"name":"@2","tokens":[9,0],"index":2}],
			"tokens":[{"name":"USDC","index":0},{"name":"PURR","index":1},{"name":"HFUN","index":2}]}`,
	})

	c := NewClient(server.URL)
	ctx := context.Background()

	meta, err := c.Meta(ctx)
	if err != nil {
		t.Fatalf("Meta failed: %v", err)
	}
	perps := PerpNames(meta)
	if len(perps) != 2 || perps[0] != "BTC" || perps[1] != "ETH" {
		t.Errorf("PerpNames = %v, want [BTC ETH]", perps)
	}

	spotMeta, err := c.SpotMeta(ctx)
	if err != nil {
		t.Fatalf("SpotMeta failed: %v", err)
	}
	pairs := SpotPairNames(spotMeta)
	want := []string{"PURR/USDC", "HFUN/USDC", "@2"}
	if len(pairs) != len(want) {
		t.Fatalf("SpotPairNames = %v, want %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("SpotPairNames[%d] = %q, want %q", i, pairs[i], want[i])
		}
	}
}
