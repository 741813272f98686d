package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/hyperwatch/internal/metrics"
	"github.com/rickgao/hyperwatch/internal/model"
)

// Directory resolves who receives a notification.
type Directory interface {
	RecipientsFor(ctx context.Context, wallet string) ([]model.Recipient, error)
	ActiveSubscribers(ctx context.Context) ([]model.Subscriber, error)
}

// Config holds dispatcher settings.
type Config struct {
	LargeStakeThreshold decimal.Decimal
	BroadcastBatchSize  int
	BroadcastBatchDelay time.Duration
	MaxParallelSends    int
}

// Result counts the outcome of one fan-out.
type Result struct {
	Recipients int
	Sent       int
	Failed     int
}

func (r *Result) add(o Result) {
	r.Recipients += o.Recipients
	r.Sent += o.Sent
	r.Failed += o.Failed
}

// Dispatcher fans notifications out to recipients.
type Dispatcher struct {
	cfg     Config
	dir     Directory
	sender  Sender
	logger  *slog.Logger
	metrics *metrics.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a dispatcher. Zero batch size or parallelism mean one.
func NewDispatcher(cfg Config, dir Directory, sender Sender, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if cfg.BroadcastBatchSize <= 0 {
		cfg.BroadcastBatchSize = 1
	}
	if cfg.MaxParallelSends <= 0 {
		cfg.MaxParallelSends = 1
	}
	return &Dispatcher{
		cfg:     cfg,
		dir:     dir,
		sender:  sender,
		logger:  logger.With("component", "notify"),
		metrics: m,
		sleep:   sleepCtx,
	}
}

// Dispatch sends n to every subscriber of its wallet and, for large stakes,
// broadcasts a separate alert to every active subscriber. A failed recipient
// lookup does not suppress the broadcast. The returned error covers resolving
// recipients and subscribers; per-recipient failures are counted in Result.
func (d *Dispatcher) Dispatch(ctx context.Context, n model.Notification) (Result, error) {
	var res Result

	recipients, lookupErr := d.dir.RecipientsFor(ctx, n.Wallet)
	if lookupErr != nil {
		lookupErr = fmt.Errorf("resolve recipients: %w", lookupErr)
	} else {
		msgs := make([]Message, 0, len(recipients))
		for _, r := range recipients {
			msgs = append(msgs, newMessage(n, r.SubscriberID, Render(n, r.Label(n.Wallet))))
		}
		res = d.sendAll(ctx, n, msgs)
	}

	var broadcastErr error
	if d.IsLargeStake(n) {
		alert := n
		alert.ID = uuid.New()
		alert.Kind = model.NotifyLargeStake
		var br Result
		br, broadcastErr = d.Broadcast(ctx, alert)
		res.add(br)
	}
	return res, errors.Join(lookupErr, broadcastErr)
}

// IsLargeStake reports whether n is a staking movement strictly above the threshold.
func (d *Dispatcher) IsLargeStake(n model.Notification) bool {
	if n.Kind != model.NotifyStaking {
		return false
	}
	s, ok := n.Activity.(model.StakingEvent)
	return ok && s.Amount.GreaterThan(d.cfg.LargeStakeThreshold)
}

// Broadcast sends n once to every active subscriber, in batches separated by
// the configured delay. Cancelling ctx stops before the next batch.
func (d *Dispatcher) Broadcast(ctx context.Context, n model.Notification) (Result, error) {
	subs, err := d.dir.ActiveSubscribers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list subscribers: %w", err)
	}
	d.metrics.Broadcasts.WithLabelValues(string(n.Kind)).Inc()

	text := Render(n, model.ShortAddress(n.Wallet))

	var res Result
	size := d.cfg.BroadcastBatchSize
	for start := 0; start < len(subs); start += size {
		if start > 0 {
			if err := d.sleep(ctx, d.cfg.BroadcastBatchDelay); err != nil {
				d.logger.Warn("broadcast interrupted",
					"kind", n.Kind,
					"delivered_batches", start/size,
					"remaining", len(subs)-start,
				)
				return res, err
			}
		}

		end := min(start+size, len(subs))
		batch := make([]Message, 0, end-start)
		for _, s := range subs[start:end] {
			batch = append(batch, newMessage(n, s.ID, text))
		}
		res.add(d.sendAll(ctx, n, batch))
	}

	d.logger.Info("broadcast complete",
		"kind", n.Kind,
		"wallet", n.Wallet,
		"subscribers", len(subs),
		"sent", res.Sent,
		"failed", res.Failed,
	)
	return res, nil
}

// sendAll sends msgs concurrently and waits for all of them.
func (d *Dispatcher) sendAll(ctx context.Context, n model.Notification, msgs []Message) Result {
	var sent, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.cfg.MaxParallelSends)
	for _, msg := range msgs {
		g.Go(func() error {
			if err := d.sender.Send(ctx, msg); err != nil {
				failed.Add(1)
				d.metrics.NotificationsFailed.WithLabelValues(string(msg.Kind)).Inc()
				d.logger.Warn("send failed",
					"subscriber", msg.SubscriberID,
					"wallet", n.Wallet,
					"kind", msg.Kind,
					"error", err,
				)
				return nil
			}
			sent.Add(1)
			d.metrics.NotificationsSent.WithLabelValues(string(msg.Kind)).Inc()
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Recipients: len(msgs),
		Sent:       int(sent.Load()),
		Failed:     int(failed.Load()),
	}
}

func newMessage(n model.Notification, subscriberID, text string) Message {
	return Message{
		ID:             uuid.New(),
		NotificationID: n.ID,
		SubscriberID:   subscriberID,
		Kind:           n.Kind,
		Wallet:         n.Wallet,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
