// Package twap reconstructs sliced (TWAP) orders from their partial fills.
//
// Each (wallet, slice order id) moves through started, accumulating and one
// terminal stage (completed or cancelled). Only started and terminal
// transitions produce events. State is in memory and is lost on restart;
// an order seen again after a restart starts over.
package twap

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/hyperwatch/internal/metrics"
	"github.com/rickgao/hyperwatch/internal/model"
)

type orderKey struct {
	wallet string
	id     int64
}

// orderState is the running summary of a live sliced order.
type orderState struct {
	coin        string
	side        model.Side
	initialSize decimal.Decimal
	startTime   int64
	lastSeen    int64
	fills       int
	summed      decimal.Decimal
	reported    *decimal.Decimal // largest cumulative filled size reported by the venue
	pnl         *decimal.Decimal
	slices      map[string]struct{}
}

func (s *orderState) filledSize() decimal.Decimal {
	if s.reported != nil {
		return *s.reported
	}
	return s.summed
}

// Tracker holds live sliced orders for all wallets. Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	live     map[orderKey]*orderState
	finished map[orderKey]int64 // terminal orders -> last slice time, so replays stay silent

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewTracker creates an empty tracker.
func NewTracker(logger *slog.Logger, m *metrics.Metrics) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Tracker{
		live:     make(map[orderKey]*orderState),
		finished: make(map[orderKey]int64),
		logger:   logger.With("component", "twap"),
		metrics:  m,
	}
}

// Apply feeds one polling batch of slices for wallet and returns the lifecycle
// events it caused, in order. Slices are grouped by parent order and each group
// is applied in ascending (time, slice id) order. Slices already counted for a
// live order are ignored. An order ends only when the group's latest slice
// carries a terminal flag; it ends cancelled if any newly counted slice in the
// group is flagged cancelled.
func (t *Tracker) Apply(wallet string, slices []model.SlicedFill) []model.SlicedOrderEvent {
	if len(slices) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var events []model.SlicedOrderEvent
	for _, group := range groupByOrder(slices) {
		events = append(events, t.applyGroup(wallet, group)...)
	}

	t.metrics.LiveSlicedOrders.Set(float64(len(t.live)))
	for _, ev := range events {
		t.metrics.LifecycleEvents.WithLabelValues(string(ev.Stage)).Inc()
	}
	return events
}

func (t *Tracker) applyGroup(wallet string, group []model.SlicedFill) []model.SlicedOrderEvent {
	first := group[0]
	key := orderKey{wallet: wallet, id: first.SliceOrderID}

	if _, done := t.finished[key]; done {
		return nil
	}

	var events []model.SlicedOrderEvent

	st, ok := t.live[key]
	if !ok {
		st = &orderState{
			coin:        first.Coin,
			side:        first.Side,
			initialSize: first.Size,
			startTime:   first.Time,
			lastSeen:    first.Time,
			slices:      make(map[string]struct{}),
		}
		t.live[key] = st
		events = append(events, model.SlicedOrderEvent{
			Stage:        model.StageStarted,
			Wallet:       wallet,
			SliceOrderID: key.id,
			Coin:         st.coin,
			Side:         st.side,
			InitialSize:  st.initialSize,
			FilledSize:   first.Size,
			Fills:        1,
			StartTime:    st.startTime,
			EndTime:      first.Time,
		})
		t.logger.Debug("sliced order started", "wallet", wallet, "twap_id", key.id, "coin", st.coin)
	}

	var anyCancelled bool
	for _, s := range group {
		id := s.EventID()
		if _, seen := st.slices[id]; seen {
			continue
		}
		st.slices[id] = struct{}{}

		st.fills++
		st.summed = st.summed.Add(s.Size)
		if s.Time > st.lastSeen {
			st.lastSeen = s.Time
		}
		if s.FilledSize != nil && (st.reported == nil || s.FilledSize.GreaterThan(*st.reported)) {
			v := *s.FilledSize
			st.reported = &v
		}
		if s.ClosedPnl != nil {
			sum := *s.ClosedPnl
			if st.pnl != nil {
				sum = st.pnl.Add(sum)
			}
			st.pnl = &sum
		}
		anyCancelled = anyCancelled || s.TerminalCancelled
	}

	last := group[len(group)-1]
	if !last.TerminalDone && !last.TerminalCancelled {
		return events
	}
	stage := model.StageCompleted
	if last.TerminalCancelled || anyCancelled {
		stage = model.StageCancelled
	}

	delete(t.live, key)
	t.finished[key] = st.lastSeen
	events = append(events, model.SlicedOrderEvent{
		Stage:        stage,
		Wallet:       wallet,
		SliceOrderID: key.id,
		Coin:         st.coin,
		Side:         st.side,
		InitialSize:  st.initialSize,
		FilledSize:   st.filledSize(),
		Fills:        st.fills,
		StartTime:    st.startTime,
		EndTime:      st.lastSeen,
		RealizedPnl:  st.pnl,
	})
	t.logger.Debug("sliced order ended", "wallet", wallet, "twap_id", key.id, "stage", stage, "fills", st.fills)
	return events
}

// groupByOrder splits slices by parent order. Groups are ordered by their
// earliest slice; slices within a group by (time, slice id).
func groupByOrder(slices []model.SlicedFill) [][]model.SlicedFill {
	byID := make(map[int64][]model.SlicedFill)
	var ids []int64
	for _, s := range slices {
		if _, ok := byID[s.SliceOrderID]; !ok {
			ids = append(ids, s.SliceOrderID)
		}
		byID[s.SliceOrderID] = append(byID[s.SliceOrderID], s)
	}

	groups := make([][]model.SlicedFill, 0, len(ids))
	for _, id := range ids {
		g := byID[id]
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].Time != g[j].Time {
				return g[i].Time < g[j].Time
			}
			return g[i].SliceID < g[j].SliceID
		})
		groups = append(groups, g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i][0].Time != groups[j][0].Time {
			return groups[i][0].Time < groups[j][0].Time
		}
		return groups[i][0].SliceOrderID < groups[j][0].SliceOrderID
	})
	return groups
}

// Live returns the number of sliced orders currently tracked.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Prune drops live orders whose last slice is older than cutoff, along with
// remembered terminal orders past the same cutoff. Nothing is emitted for
// pruned orders. Returns the number of live orders dropped.
func (t *Tracker) Prune(cutoff time.Time) int {
	ms := cutoff.UnixMilli()

	t.mu.Lock()
	defer t.mu.Unlock()

	var pruned int
	for key, st := range t.live {
		if st.lastSeen < ms {
			delete(t.live, key)
			pruned++
			t.logger.Info("dropping stale sliced order", "wallet", key.wallet, "twap_id", key.id, "fills", st.fills)
		}
	}
	for key, end := range t.finished {
		if end < ms {
			delete(t.finished, key)
		}
	}

	t.metrics.SlicedPruned.Add(float64(pruned))
	t.metrics.LiveSlicedOrders.Set(float64(len(t.live)))
	return pruned
}
