// Package notify turns notifications into per-recipient messages and hands
// them to a Sender.
//
// Dispatch resolves the wallet's subscribers and sends to each of them
// concurrently. A failed send is logged and counted; it does not affect the
// other recipients, is not retried and does not undo the dedup record.
//
// Staking movements above the configured threshold are additionally broadcast
// to every active subscriber in fixed-size batches with a delay between
// batches. Listing alerts use the same broadcast path.
package notify
