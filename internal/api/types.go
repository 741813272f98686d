package api

import (
	hl "github.com/sonirico/go-hyperliquid"
)

// Responses the venue library already models are decoded into its types
// (hl.Fill, hl.OrderQueryResponse, hl.UserState, hl.Meta, ...). The two
// below have no library counterpart.

// APITwapSliceFill from userTwapSliceFillsByTime.
type APITwapSliceFill struct {
	Fill       hl.Fill `json:"fill"`
	TwapID     int64   `json:"twapId"`
	TwapStatus string  `json:"twapStatus,omitempty"` // finished | terminated | cancelled
	FilledSz   string  `json:"filledSz,omitempty"`
}

// APIDelegatorEvent from delegatorHistory. Exactly one delta member is set.
type APIDelegatorEvent struct {
	Time  int64  `json:"time"`
	Hash  string `json:"hash"`
	Delta struct {
		Delegate *struct {
			Validator    string `json:"validator"`
			Amount       string `json:"amount"`
			IsUndelegate bool   `json:"isUndelegate"`
		} `json:"delegate,omitempty"`
		CDeposit *struct {
			Amount string `json:"amount"`
		} `json:"cDeposit,omitempty"`
		Withdrawal *struct {
			Amount string `json:"amount"`
			Phase  string `json:"phase"`
		} `json:"withdrawal,omitempty"`
	} `json:"delta"`
}
