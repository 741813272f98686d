// Package model defines shared data types used across the wallet watcher.
//
// Conventions:
//   - Timestamps: int64 milliseconds since Unix epoch, as reported by Hyperliquid
//   - Sizes, prices, amounts: decimal.Decimal, parsed from the venue's decimal strings
//   - Addresses: lowercase 0x-prefixed hex (see NormalizeAddress)
//   - Activities: a closed tagged union (Fill, OrderEvent, SlicedFill, StakingEvent)
package model
