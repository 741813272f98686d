package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/hyperwatch/internal/metrics"
	"github.com/rickgao/hyperwatch/internal/model"
	"github.com/rickgao/hyperwatch/internal/notify"
)

// ActivitySource fetches a wallet's classified activity since a time.
// It may return partial results together with an error.
type ActivitySource interface {
	Fetch(ctx context.Context, wallet string, since time.Time) ([]model.Activity, error)
}

// ActivitySourceFunc is a function adapter for ActivitySource.
type ActivitySourceFunc func(ctx context.Context, wallet string, since time.Time) ([]model.Activity, error)

func (f ActivitySourceFunc) Fetch(ctx context.Context, wallet string, since time.Time) ([]model.Activity, error) {
	return f(ctx, wallet, since)
}

// WalletDirectory lists the wallets to sweep.
type WalletDirectory interface {
	ActiveWallets(ctx context.Context) ([]string, error)
}

// EventGuard records an event and reports whether it was new.
type EventGuard interface {
	Claim(ctx context.Context, wallet, eventID string) (bool, error)
}

// SliceAggregator turns TWAP slices into lifecycle events.
type SliceAggregator interface {
	Apply(wallet string, slices []model.SlicedFill) []model.SlicedOrderEvent
	Prune(cutoff time.Time) int
}

// Notifier fans a notification out to its recipients.
type Notifier interface {
	Dispatch(ctx context.Context, n model.Notification) (notify.Result, error)
}

// Config holds poller configuration.
type Config struct {
	Interval       time.Duration // Sweep interval (default: 10s)
	Lookback       time.Duration // Window for a wallet's first fetch (default: 60s)
	Concurrency    int           // Max wallets polled at once (default: 10)
	RequestTimeout time.Duration // Deadline for one wallet's fetch (default: 10s)
	PruneAfter     time.Duration // Drop live TWAPs idle this long (default: 24h)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:       10 * time.Second,
		Lookback:       60 * time.Second,
		Concurrency:    10,
		RequestTimeout: 10 * time.Second,
		PruneAfter:     24 * time.Hour,
	}
}

// SweepStats summarizes one sweep.
type SweepStats struct {
	Wallets  int
	Launched int
	Skipped  int
	Failed   int
}

// Poller periodically sweeps tracked wallets for new activity.
type Poller struct {
	cfg      Config
	source   ActivitySource
	wallets  WalletDirectory
	guard    EventGuard
	tracker  SliceAggregator
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics

	state *State
	sem   chan struct{} // shared by all sweeps
	now   func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(
	cfg Config,
	source ActivitySource,
	wallets WalletDirectory,
	guard EventGuard,
	tracker SliceAggregator,
	notifier Notifier,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Poller{
		cfg:      cfg,
		source:   source,
		wallets:  wallets,
		guard:    guard,
		tracker:  tracker,
		notifier: notifier,
		logger:   logger.With("component", "poller"),
		metrics:  m,
		state:    NewState(),
		sem:      make(chan struct{}, cfg.Concurrency),
		now:      time.Now,
	}
}

// State exposes the poller's bookkeeping.
func (p *Poller) State() *State {
	return p.state
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("wallet poller started",
		"interval", p.cfg.Interval,
		"lookback", p.cfg.Lookback,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop cancels the loop and waits for running sweeps.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("wallet poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop. Sweeps run in the background so a slow
// wallet never delays the next tick for the others.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.launchSweep()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.prune()
			p.launchSweep()
		}
	}
}

func (p *Poller) launchSweep() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Sweep(p.ctx)
	}()
}

func (p *Poller) prune() {
	if p.cfg.PruneAfter <= 0 {
		return
	}
	if n := p.tracker.Prune(p.now().Add(-p.cfg.PruneAfter)); n > 0 {
		p.logger.Info("pruned stale sliced orders", "count", n)
	}
}

// Sweep polls every active wallet that is not already in flight and waits
// for the polls it launched.
func (p *Poller) Sweep(ctx context.Context) SweepStats {
	start := time.Now()
	sweepID := uuid.NewString()
	p.metrics.SweepsTotal.Inc()

	wallets, err := p.wallets.ActiveWallets(ctx)
	if err != nil {
		p.logger.Warn("failed to list active wallets", "sweep_id", sweepID, "err", err)
		p.metrics.WalletErrors.WithLabelValues("directory").Inc()
		return SweepStats{}
	}
	p.state.Retain(wallets)
	if len(wallets) == 0 {
		p.logger.Debug("no active wallets to poll")
		return SweepStats{}
	}

	var wg sync.WaitGroup
	var launched, skipped, failed atomic.Int64

	for _, wallet := range wallets {
		if !p.state.TryAcquire(wallet) {
			skipped.Add(1)
			p.metrics.WalletsSkipped.Inc()
			p.logger.Debug("wallet still in flight, skipping", "wallet", wallet)
			continue
		}
		p.metrics.InFlightWallets.Set(float64(p.state.InFlight()))
		launched.Add(1)

		wg.Add(1)
		go func(wallet string) {
			defer wg.Done()
			defer func() {
				p.state.Release(wallet)
				p.metrics.InFlightWallets.Set(float64(p.state.InFlight()))
			}()

			// Acquire semaphore slot.
			select {
			case p.sem <- struct{}{}:
				defer func() { <-p.sem }()
			case <-ctx.Done():
				return
			}

			p.metrics.WalletsPolled.Inc()
			if err := p.pollWallet(ctx, wallet); err != nil {
				p.logger.Warn("wallet poll incomplete",
					"wallet", wallet,
					"sweep_id", sweepID,
					"err", err,
				)
				failed.Add(1)
			}
		}(wallet)
	}

	wg.Wait()

	duration := time.Since(start)
	p.metrics.SweepDuration.Observe(duration.Seconds())

	stats := SweepStats{
		Wallets:  len(wallets),
		Launched: int(launched.Load()),
		Skipped:  int(skipped.Load()),
		Failed:   int(failed.Load()),
	}
	p.logger.Info("poll cycle complete",
		"sweep_id", sweepID,
		"wallets", stats.Wallets,
		"launched", stats.Launched,
		"skipped", stats.Skipped,
		"errors", stats.Failed,
		"duration", duration,
	)
	return stats
}

// pollWallet runs fetch, dedup, aggregation and dispatch for one wallet,
// strictly in that order. The checkpoint advances however it ends.
func (p *Poller) pollWallet(ctx context.Context, wallet string) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.metrics.WalletErrors.WithLabelValues("panic").Inc()
			p.logger.Error("wallet poll panicked",
				"wallet", wallet,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("panic: %v", r)
		}
		p.metrics.WalletPollDuration.Observe(time.Since(start).Seconds())
	}()

	now := p.now()
	since, ok := p.state.Checkpoint(wallet)
	if !ok {
		since = now.Add(-p.cfg.Lookback)
	}
	defer p.state.SetCheckpoint(wallet, now)

	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	activities, fetchErr := p.source.Fetch(fetchCtx, wallet, since)
	cancel()

	var errs []error
	if fetchErr != nil {
		p.metrics.WalletErrors.WithLabelValues("fetch").Inc()
		errs = append(errs, fmt.Errorf("fetch activity: %w", fetchErr))
	}

	var slices []model.SlicedFill
	for _, a := range activities {
		p.metrics.ActivitiesFetched.WithLabelValues(string(a.Kind())).Inc()

		switch v := a.(type) {
		case model.SlicedFill:
			slices = append(slices, v)
			continue
		case model.OrderEvent:
			// fills report these
			if v.Status == model.OrderFilled {
				continue
			}
		}

		claimed, err := p.guard.Claim(ctx, wallet, a.EventID())
		if err != nil {
			p.metrics.WalletErrors.WithLabelValues("dedup").Inc()
			errs = append(errs, fmt.Errorf("claim %s event: %w", a.Kind(), err))
			continue
		}
		if !claimed {
			continue
		}
		p.dispatch(ctx, model.NewActivityNotification(wallet, a))
	}

	for _, ev := range p.tracker.Apply(wallet, slices) {
		p.dispatch(ctx, model.NewSlicedOrderNotification(ev))
	}

	return errors.Join(errs...)
}

func (p *Poller) dispatch(ctx context.Context, n model.Notification) {
	res, err := p.notifier.Dispatch(ctx, n)
	if err != nil {
		p.metrics.WalletErrors.WithLabelValues("dispatch").Inc()
		p.logger.Warn("dispatch failed",
			"wallet", n.Wallet,
			"kind", n.Kind,
			"notification_id", n.ID,
			"err", err,
		)
		return
	}
	p.logger.Debug("notification dispatched",
		"wallet", n.Wallet,
		"kind", n.Kind,
		"recipients", res.Recipients,
		"sent", res.Sent,
		"failed", res.Failed,
	)
}
