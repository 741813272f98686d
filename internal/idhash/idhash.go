// Package idhash derives deterministic event identities for deduplication.
//
// Every ID is SHA256 over pipe-joined parts, hex-encoded (64 characters).
// Exchange-assigned identifiers are preferred; when they are missing the ID
// falls back to a composite of immutable fields, never to a random value.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// zeroHash is what the venue reports for actions without an L1 transaction.
const zeroHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Compute hashes the parts joined by "|".
func Compute(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}

// FillID identifies a fill by trade id, then order id + tx hash, then a composite key.
func FillID(timeMs, tid, oid int64, hash, coin, side, size, price string) string {
	t := strconv.FormatInt(timeMs, 10)
	switch {
	case tid != 0:
		return Compute("fill", t, strconv.FormatInt(tid, 10))
	case oid != 0:
		return Compute("fill", t, strconv.FormatInt(oid, 10), hash)
	default:
		return Compute("fill", t, coin, side, size, price)
	}
}

// OrderID identifies one status transition of an order.
func OrderID(timeMs, oid int64, status, coin, side, size, price string) string {
	t := strconv.FormatInt(timeMs, 10)
	if oid != 0 {
		return Compute("order", strconv.FormatInt(oid, 10), status, t)
	}
	return Compute("order", t, coin, side, size, price, status)
}

// SliceID identifies a TWAP slice within its parent order.
func SliceID(sliceOrderID, sliceID, timeMs int64, size string) string {
	if sliceID != 0 {
		return Compute("slice", strconv.FormatInt(sliceOrderID, 10), strconv.FormatInt(sliceID, 10))
	}
	return Compute("slice", strconv.FormatInt(sliceOrderID, 10), strconv.FormatInt(timeMs, 10), size)
}

// StakingID identifies a staking ledger entry by tx hash, else by a composite key.
func StakingID(timeMs int64, hash, action, amount, validator string) string {
	if HasHash(hash) {
		return Compute("stake", strings.ToLower(hash), action)
	}
	return Compute("stake", strconv.FormatInt(timeMs, 10), action, amount, validator)
}

// HasHash reports whether hash is a real transaction hash.
func HasHash(hash string) bool {
	return hash != "" && hash != zeroHash
}
