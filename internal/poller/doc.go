// Package poller implements the Poll Scheduler component.
//
// The Poll Scheduler:
//   - Sweeps every actively tracked wallet on a fixed interval (default 10s)
//   - Fetches each wallet's activity since its last checkpoint, or since now
//     minus the lookback on first sight
//   - Advances the checkpoint after every attempt, successful or not
//   - Claims fills, order updates and staking events through the dedup guard
//     before dispatching them
//   - Feeds TWAP slices to the aggregator and dispatches its lifecycle events
//   - Runs wallets concurrently on a bounded pool, one poll per wallet at a
//     time; a wallet still in flight when the next tick fires is skipped
package poller
