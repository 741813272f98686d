package model

import (
	"regexp"
	"strings"
	"time"
)

// Subscriber is a front-end user who can track wallets.
type Subscriber struct {
	ID        string
	Active    bool
	CreatedAt time.Time
}

// TrackedWallet links a subscriber to a wallet address.
type TrackedWallet struct {
	SubscriberID string
	Address      string
	Nickname     string
	Active       bool
	CreatedAt    time.Time
}

// Recipient is a subscriber resolved for one wallet, with their display preference.
type Recipient struct {
	SubscriberID string
	Nickname     string
}

// Label returns the nickname when set, otherwise a shortened address.
func (r Recipient) Label(address string) string {
	if r.Nickname != "" {
		return r.Nickname
	}
	return ShortAddress(address)
}

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// NormalizeAddress trims and lowercases an address.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// ValidAddress reports whether addr is a 0x-prefixed 20-byte hex address.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(NormalizeAddress(addr))
}

// ShortAddress renders 0x1234…abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
