package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hyperwatch"

// Metrics holds all Prometheus metrics for the watcher.
type Metrics struct {
	// Poller metrics
	SweepsTotal        prometheus.Counter
	SweepDuration      prometheus.Histogram
	WalletsPolled      prometheus.Counter
	WalletsSkipped     prometheus.Counter
	WalletErrors       *prometheus.CounterVec
	InFlightWallets    prometheus.Gauge
	ActivitiesFetched  *prometheus.CounterVec
	WalletPollDuration prometheus.Histogram

	// Dedup metrics
	EventsClaimed     prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	DedupErrors       prometheus.Counter

	// Sliced order metrics
	LiveSlicedOrders prometheus.Gauge
	LifecycleEvents  *prometheus.CounterVec
	SlicedPruned     prometheus.Counter

	// Notification metrics
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	Broadcasts          *prometheus.CounterVec

	// Listing metrics
	ListingChecks *prometheus.CounterVec
	NewListings   *prometheus.CounterVec
}

// New creates all metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		SweepsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "sweeps_total",
			Help:      "Total number of sweeps started",
		}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of a sweep, from listing wallets to its last wallet task",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		WalletsPolled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "wallets_polled_total",
			Help:      "Total number of wallet polls launched",
		}),
		WalletsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "wallets_skipped_total",
			Help:      "Wallet ticks skipped because the previous poll was still running",
		}),
		WalletErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "wallet_errors_total",
			Help:      "Wallet poll failures by stage",
		}, []string{"stage"}),
		InFlightWallets: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "wallets_in_flight",
			Help:      "Wallet polls currently running",
		}),
		ActivitiesFetched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "activities_fetched_total",
			Help:      "Activities returned by the upstream, by kind",
		}, []string{"kind"}),
		WalletPollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "wallet_poll_duration_seconds",
			Help:      "Wall time of one wallet poll",
			Buckets:   prometheus.DefBuckets,
		}),

		EventsClaimed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "events_claimed_total",
			Help:      "Events recorded as processed for the first time",
		}),
		DuplicatesSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "duplicates_skipped_total",
			Help:      "Events skipped because they were already processed",
		}),
		DedupErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "errors_total",
			Help:      "Processed-event store failures",
		}),

		LiveSlicedOrders: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "live_orders",
			Help:      "Sliced orders currently tracked",
		}),
		LifecycleEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "lifecycle_events_total",
			Help:      "Sliced order lifecycle events emitted, by stage",
		}, []string{"stage"}),
		SlicedPruned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "twap",
			Name:      "pruned_total",
			Help:      "Stale sliced orders dropped without a terminal slice",
		}),

		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "sent_total",
			Help:      "Messages accepted by the sender, by notification kind",
		}, []string{"kind"}),
		NotificationsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "failed_total",
			Help:      "Messages the sender rejected, by notification kind",
		}, []string{"kind"}),
		Broadcasts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "broadcasts_total",
			Help:      "Broadcast alerts fanned out to all subscribers, by kind",
		}, []string{"kind"}),

		ListingChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "checks_total",
			Help:      "Listing snapshot fetches by pool and result",
		}, []string{"pool", "result"}),
		NewListings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "new_listings_total",
			Help:      "Newly listed instruments detected, by pool",
		}, []string{"pool"}),
	}
}

// Handler serves the metrics gathered from g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
