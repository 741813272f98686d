package api

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/rickgao/hyperwatch/internal/model"
)

// Source fetches and classifies a wallet's activity since a checkpoint.
type Source struct {
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

// NewSource creates a Source backed by client.
func NewSource(client *Client, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		client: client,
		logger: logger.With("component", "activity_source"),
		now:    time.Now,
	}
}

// Fetch returns the wallet's fills, order status changes, TWAP slices and
// staking movements at or after since, sorted by time.
//
// A failed query contributes nothing and does not stop the others; the
// joined error is returned alongside whatever was fetched.
func (s *Source) Fetch(ctx context.Context, wallet string, since time.Time) ([]model.Activity, error) {
	end := s.now()
	sinceMs := since.UnixMilli()

	var (
		out  []model.Activity
		errs []error
	)

	slices, err := s.client.UserTwapSliceFillsByTime(ctx, wallet, since, end)
	if err != nil {
		errs = append(errs, err)
		s.logger.Warn("twap slice query failed", "wallet", wallet, "err", err)
	}
	sliceTids := make(map[int64]struct{}, len(slices))
	for i := range slices {
		sf := slices[i].ToModel()
		if sf.SliceID != 0 {
			sliceTids[sf.SliceID] = struct{}{}
		}
		out = append(out, sf)
	}

	fills, err := s.client.UserFillsByTime(ctx, wallet, since, end)
	if err != nil {
		errs = append(errs, err)
		s.logger.Warn("fills query failed", "wallet", wallet, "err", err)
	}
	for i := range fills {
		f := FillToModel(fills[i])
		// TWAP slices also show up as plain fills; they are reported by the aggregator.
		if _, ok := sliceTids[f.TradeID]; ok && f.TradeID != 0 {
			continue
		}
		out = append(out, f)
	}

	orders, err := s.client.HistoricalOrders(ctx, wallet)
	if err != nil {
		errs = append(errs, err)
		s.logger.Warn("order history query failed", "wallet", wallet, "err", err)
	}
	for i := range orders {
		o := OrderToModel(orders[i])
		if o.Time < sinceMs {
			continue
		}
		out = append(out, o)
	}

	history, err := s.client.DelegatorHistory(ctx, wallet)
	if err != nil {
		errs = append(errs, err)
		s.logger.Warn("delegator history query failed", "wallet", wallet, "err", err)
	}
	for i := range history {
		ev, ok := history[i].ToModel()
		if !ok || ev.Time < sinceMs {
			continue
		}
		out = append(out, ev)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp() < out[j].Timestamp()
	})

	return out, errors.Join(errs...)
}
