package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/hyperwatch/internal/api"
	"github.com/rickgao/hyperwatch/internal/metrics"
	"github.com/rickgao/hyperwatch/internal/model"
)

// ListingSource returns the current instrument names of each pool.
type ListingSource interface {
	PerpNames(ctx context.Context) ([]string, error)
	SpotNames(ctx context.Context) ([]string, error)
}

// ListingHandler receives non-empty sets of new listings.
type ListingHandler interface {
	HandleListings(ctx context.Context, l model.Listings) error
}

// ListingHandlerFunc is a function adapter for ListingHandler.
type ListingHandlerFunc func(context.Context, model.Listings) error

func (f ListingHandlerFunc) HandleListings(ctx context.Context, l model.Listings) error {
	return f(ctx, l)
}

// APISource reads listings from the venue's metadata queries.
type APISource struct {
	Client *api.Client
}

func (s APISource) PerpNames(ctx context.Context) ([]string, error) {
	meta, err := s.Client.Meta(ctx)
	if err != nil {
		return nil, err
	}
	return api.PerpNames(meta), nil
}

func (s APISource) SpotNames(ctx context.Context) ([]string, error) {
	meta, err := s.Client.SpotMeta(ctx)
	if err != nil {
		return nil, err
	}
	return api.SpotPairNames(meta), nil
}

// Config holds detector configuration.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration // per check
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 5 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

// Detector periodically diffs instrument listings.
type Detector struct {
	cfg     Config
	source  ListingSource
	handler ListingHandler
	logger  *slog.Logger
	metrics *metrics.Metrics

	state *snapshotState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDetector creates a new listing detector.
func NewDetector(cfg Config, source ListingSource, handler ListingHandler, logger *slog.Logger, m *metrics.Metrics) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Detector{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger.With("component", "listings"),
		metrics: m,
		state:   newSnapshotState(),
	}
}

// Start runs a baseline check and begins periodic checks in the background.
func (d *Detector) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.loop(d.ctx)
	}()

	d.logger.Info("listing detector started", "interval", d.cfg.Interval)
	return nil
}

// Stop gracefully shuts down.
func (d *Detector) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("listing detector stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Detector) loop(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	// Baseline immediately on start.
	d.checkAndNotify(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndNotify(ctx)
		}
	}
}

func (d *Detector) checkAndNotify(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	// Fetch errors are already logged per pool.
	l, _ := d.Check(checkCtx)
	if l.Empty() || d.handler == nil {
		return
	}
	if err := d.handler.HandleListings(ctx, l); err != nil {
		d.logger.Warn("listing handler failed", "err", err)
	}
}

// Check fetches both pools and returns names not present in the previous
// snapshot. Pools are independent: a failure in one does not affect the other,
// and the returned error joins the failed fetches.
func (d *Detector) Check(ctx context.Context) (model.Listings, error) {
	var l model.Listings
	var perpErr, spotErr error
	l.Perp, perpErr = d.checkPool(ctx, PoolPerp, d.source.PerpNames)
	l.Spot, spotErr = d.checkPool(ctx, PoolSpot, d.source.SpotNames)
	return l, errors.Join(perpErr, spotErr)
}

func (d *Detector) checkPool(ctx context.Context, pool Pool, fetch func(context.Context) ([]string, error)) ([]string, error) {
	names, err := fetch(ctx)
	if err != nil {
		d.metrics.ListingChecks.WithLabelValues(string(pool), "error").Inc()
		d.logger.Warn("listing fetch failed", "pool", pool, "err", err)
		return nil, fmt.Errorf("fetch %s listings: %w", pool, err)
	}
	if len(names) == 0 {
		d.metrics.ListingChecks.WithLabelValues(string(pool), "empty").Inc()
		d.logger.Warn("empty listing response, keeping previous snapshot", "pool", pool)
		return nil, nil
	}
	d.metrics.ListingChecks.WithLabelValues(string(pool), "ok").Inc()

	_, hadBaseline := d.state.size(pool)
	added := d.state.observe(pool, names)
	if !hadBaseline {
		d.logger.Info("listing baseline established", "pool", pool, "count", len(names))
		return nil, nil
	}
	if len(added) > 0 {
		d.metrics.NewListings.WithLabelValues(string(pool)).Add(float64(len(added)))
		d.logger.Info("new listings detected", "pool", pool, "names", added)
	}
	return added, nil
}
