package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	hl "github.com/sonirico/go-hyperliquid"
)

// Query type names accepted by /info.
const (
	QueryUserFillsByTime          = "userFillsByTime"
	QueryHistoricalOrders         = "historicalOrders"
	QueryUserTwapSliceFillsByTime = "userTwapSliceFillsByTime"
	QueryOpenOrders               = "openOrders"
	QueryClearinghouseState       = "clearinghouseState"
	QuerySpotClearinghouseState   = "spotClearinghouseState"
	QueryDelegations              = "delegations"
	QueryDelegatorSummary         = "delegatorSummary"
	QueryDelegatorHistory         = "delegatorHistory"
	QueryDelegatorRewards         = "delegatorRewards"
	QueryAllMids                  = "allMids"
	QueryMeta                     = "meta"
	QuerySpotMeta                 = "spotMeta"
)

// timeRange converts an optional window to millisecond bounds; zero times are omitted.
func timeRange(start, end time.Time) (int64, int64) {
	var s, e int64
	if !start.IsZero() {
		s = start.UnixMilli()
	}
	if !end.IsZero() {
		e = end.UnixMilli()
	}
	return s, e
}

// UserFillsByTime fetches fills for user in [start, end]. A zero end means "until now".
func (c *Client) UserFillsByTime(ctx context.Context, user string, start, end time.Time) ([]hl.Fill, error) {
	s, e := timeRange(start, end)
	var fills []hl.Fill
	if err := c.info(ctx, infoRequest{Type: QueryUserFillsByTime, User: user, StartTime: s, EndTime: e}, &fills); err != nil {
		return nil, fmt.Errorf("get user fills: %w", err)
	}
	return fills, nil
}

// HistoricalOrders fetches the user's recent order status history.
func (c *Client) HistoricalOrders(ctx context.Context, user string) ([]hl.OrderQueryResponse, error) {
	var orders []hl.OrderQueryResponse
	if err := c.info(ctx, infoRequest{Type: QueryHistoricalOrders, User: user}, &orders); err != nil {
		return nil, fmt.Errorf("get historical orders: %w", err)
	}
	return orders, nil
}

// UserTwapSliceFillsByTime fetches TWAP slice fills for user in [start, end].
func (c *Client) UserTwapSliceFillsByTime(ctx context.Context, user string, start, end time.Time) ([]APITwapSliceFill, error) {
	s, e := timeRange(start, end)
	var slices []APITwapSliceFill
	if err := c.info(ctx, infoRequest{Type: QueryUserTwapSliceFillsByTime, User: user, StartTime: s, EndTime: e}, &slices); err != nil {
		return nil, fmt.Errorf("get twap slice fills: %w", err)
	}
	return slices, nil
}

// OpenOrders fetches the user's resting orders.
func (c *Client) OpenOrders(ctx context.Context, user string) ([]hl.OpenOrder, error) {
	var orders []hl.OpenOrder
	if err := c.info(ctx, infoRequest{Type: QueryOpenOrders, User: user}, &orders); err != nil {
		return nil, fmt.Errorf("get open orders: %w", err)
	}
	return orders, nil
}

// ClearinghouseState fetches the user's perpetual account state.
func (c *Client) ClearinghouseState(ctx context.Context, user string) (*hl.UserState, error) {
	var state hl.UserState
	if err := c.info(ctx, infoRequest{Type: QueryClearinghouseState, User: user}, &state); err != nil {
		return nil, fmt.Errorf("get clearinghouse state: %w", err)
	}
	return &state, nil
}

// SpotClearinghouseState fetches the user's spot balances.
func (c *Client) SpotClearinghouseState(ctx context.Context, user string) (*hl.SpotUserState, error) {
	var state hl.SpotUserState
	if err := c.info(ctx, infoRequest{Type: QuerySpotClearinghouseState, User: user}, &state); err != nil {
		return nil, fmt.Errorf("get spot clearinghouse state: %w", err)
	}
	return &state, nil
}

// Delegations fetches the user's active delegations.
func (c *Client) Delegations(ctx context.Context, user string) ([]hl.StakingDelegation, error) {
	var out []hl.StakingDelegation
	if err := c.info(ctx, infoRequest{Type: QueryDelegations, User: user}, &out); err != nil {
		return nil, fmt.Errorf("get delegations: %w", err)
	}
	return out, nil
}

// DelegatorSummary fetches the user's staking totals.
func (c *Client) DelegatorSummary(ctx context.Context, user string) (*hl.StakingSummary, error) {
	var out hl.StakingSummary
	if err := c.info(ctx, infoRequest{Type: QueryDelegatorSummary, User: user}, &out); err != nil {
		return nil, fmt.Errorf("get delegator summary: %w", err)
	}
	return &out, nil
}

// DelegatorHistory fetches the user's staking ledger.
func (c *Client) DelegatorHistory(ctx context.Context, user string) ([]APIDelegatorEvent, error) {
	var out []APIDelegatorEvent
	if err := c.info(ctx, infoRequest{Type: QueryDelegatorHistory, User: user}, &out); err != nil {
		return nil, fmt.Errorf("get delegator history: %w", err)
	}
	return out, nil
}

// DelegatorRewards fetches the user's staking rewards.
func (c *Client) DelegatorRewards(ctx context.Context, user string) ([]hl.StakingReward, error) {
	var out []hl.StakingReward
	if err := c.info(ctx, infoRequest{Type: QueryDelegatorRewards, User: user}, &out); err != nil {
		return nil, fmt.Errorf("get delegator rewards: %w", err)
	}
	return out, nil
}

// AllMids fetches mid prices for every perp and spot market.
func (c *Client) AllMids(ctx context.Context) (map[string]string, error) {
	var mids map[string]string
	if err := c.info(ctx, infoRequest{Type: QueryAllMids}, &mids); err != nil {
		return nil, fmt.Errorf("get all mids: %w", err)
	}
	if mids == nil {
		mids = map[string]string{}
	}
	return mids, nil
}

// SpotMids returns the spot subset of AllMids. Spot keys are "@index" or "BASE/QUOTE".
func (c *Client) SpotMids(ctx context.Context) (map[string]string, error) {
	mids, err := c.AllMids(ctx)
	if err != nil {
		return nil, err
	}
	spot := make(map[string]string)
	for k, v := range mids {
		if isSpotKey(k) {
			spot[k] = v
		}
	}
	return spot, nil
}

func isSpotKey(k string) bool {
	return strings.HasPrefix(k, "@") || strings.Contains(k, "/")
}

// Meta fetches perpetual instrument metadata. Only the universe is decoded;
// marginTables arrives as [id, table] tuples that hl.Meta cannot take as is.
func (c *Client) Meta(ctx context.Context) (*hl.Meta, error) {
	var resp struct {
		Universe []hl.AssetInfo `json:"universe"`
	}
	if err := c.info(ctx, infoRequest{Type: QueryMeta}, &resp); err != nil {
		return nil, fmt.Errorf("get meta: %w", err)
	}
	return &hl.Meta{Universe: resp.Universe}, nil
}

// SpotMeta fetches spot instrument metadata.
func (c *Client) SpotMeta(ctx context.Context) (*hl.SpotMeta, error) {
	var meta hl.SpotMeta
	if err := c.info(ctx, infoRequest{Type: QuerySpotMeta}, &meta); err != nil {
		return nil, fmt.Errorf("get spot meta: %w", err)
	}
	return &meta, nil
}

// PerpNames returns the names of listed perpetuals, skipping delisted ones.
func PerpNames(m *hl.Meta) []string {
	names := make([]string, 0, len(m.Universe))
	for _, u := range m.Universe {
		if u.IsDelisted || u.Name == "" {
			continue
		}
		names = append(names, u.Name)
	}
	return names
}

// SpotPairNames returns spot pair names as BASE/QUOTE, resolving "@index" pairs through the token table.
func SpotPairNames(m *hl.SpotMeta) []string {
	tokens := make(map[int]string, len(m.Tokens))
	for _, t := range m.Tokens {
		tokens[t.Index] = t.Name
	}

	names := make([]string, 0, len(m.Universe))
	for _, u := range m.Universe {
		name := u.Name
		if len(u.Tokens) == 2 {
			base, okB := tokens[u.Tokens[0]]
			quote, okQ := tokens[u.Tokens[1]]
			if okB && okQ {
				name = base + "/" + quote
			}
		}
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
