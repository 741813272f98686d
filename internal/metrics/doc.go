// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Sweep counts, durations and per-wallet outcomes
//   - Activities fetched by kind and upstream fetch failures
//   - Deduplication claims and duplicates skipped
//   - Live sliced orders and lifecycle events emitted
//   - Notifications sent and failed, by kind
//   - Listing checks and newly listed instruments by pool
//
// All collectors are registered on the Registerer passed to New; nothing is
// registered on the global default registry.
package metrics
