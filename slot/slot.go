// Package slot defines the storage slot and value-transfer collaborators the
// resizer works against, plus a Provider-backed implementation of both.
//
// A Slot is a resizable byte buffer with a funding balance. A Ledger holds
// account balances and moves value between accounts. A slot's balance is the
// ledger balance of its own Account, so a transfer to slot.ID() funds the slot.
package slot

import (
	"context"
	"errors"
)

// Account identifies a balance holder: a payer or a slot.
type Account string

var (
	ErrInsufficientFunds = errors.New("rentslot: insufficient funds")
	ErrCapacityExceeded  = errors.New("rentslot: capacity exceeded")
	ErrLengthMismatch    = errors.New("rentslot: write length does not match slot length")
	ErrBalanceOverflow   = errors.New("rentslot: balance overflow")
	ErrRejected          = errors.New("rentslot: provider rejected write")
)

// Slot is an externally owned, resizable byte buffer with a funding balance.
type Slot interface {
	ID() Account

	// Len is the current byte length. A slot that was never written has length 0.
	Len(ctx context.Context) (int, error)
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the content. It fails with ErrLengthMismatch unless
	// len(b) equals the current length.
	Write(ctx context.Context, b []byte) error

	// Resize sets the length to exactly n bytes. Existing content is kept up
	// to min(old, n); grown bytes are zero. Fails with ErrCapacityExceeded
	// when n is beyond the backend limit.
	Resize(ctx context.Context, n int) error

	Balance(ctx context.Context) (uint64, error)
	AdjustBalance(ctx context.Context, delta int64) error
}

// Ledger moves value between accounts.
type Ledger interface {
	Balance(ctx context.Context, a Account) (uint64, error)

	// Transfer moves amount from one account to another, all or nothing.
	// Fails with ErrInsufficientFunds if from holds less than amount.
	Transfer(ctx context.Context, from, to Account, amount uint64) error

	// Adjust adds delta to a balance. A debit below zero fails with
	// ErrInsufficientFunds and leaves the balance untouched.
	Adjust(ctx context.Context, a Account, delta int64) error
}
