package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWalletLimit is returned when a subscriber is at its wallet capacity.
	ErrWalletLimit = errors.New("wallet limit reached")

	// ErrAlreadyTracked is returned when a subscriber already tracks the wallet.
	ErrAlreadyTracked = errors.New("wallet already tracked")
)
