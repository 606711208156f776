package rentslot

import (
	"context"
	"fmt"
	"strings"

	"github.com/unkn0wn-root/rentslot/record"
	"github.com/unkn0wn-root/rentslot/rent"
	"github.com/unkn0wn-root/rentslot/revision"
	"github.com/unkn0wn-root/rentslot/slot"
)

// Manager is the record-level API: decode, mutate, reconcile, re-encode.
// Callers must not run two updates against the same slot concurrently.
type Manager interface {
	// Initialize writes the empty record into a fresh (zero-length) slot,
	// funding min_balance(4) from payer. It is a no-op on a slot that already
	// holds the empty record and fails with ErrAlreadyInitialized otherwise.
	Initialize(ctx context.Context, s slot.Slot, payer slot.Account) (Result, error)

	// Update appends key (add) or removes every entry equal to key.
	Update(ctx context.Context, s slot.Slot, payer slot.Account, add bool, key record.Element) (Result, error)
	Add(ctx context.Context, s slot.Slot, payer slot.Account, key record.Element) (Result, error)
	Remove(ctx context.Context, s slot.Slot, payer slot.Account, key record.Element) (Result, error)

	Load(ctx context.Context, s slot.Slot) (record.Record, error)
	Snapshot(ctx context.Context, s slot.Slot) (Snapshot, error)
	Revision(ctx context.Context, s slot.Slot) (uint64, error)

	Close(context.Context) error
}

// Result describes a completed update.
type Result struct {
	Record   record.Record
	Change   Change
	Removed  int    // entries dropped by a remove
	Revision uint64 // slot revision after the write; 0 if the bump failed
}

// DuplicatePolicy decides what an append does when the key is present.
type DuplicatePolicy int

const (
	DuplicatesReject DuplicatePolicy = iota // fail with ErrDuplicateElement
	DuplicatesAllow                         // append anyway; remove drops all copies
	DuplicatesIgnore                        // leave the record unchanged
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicatesAllow:
		return "allow"
	case DuplicatesIgnore:
		return "ignore"
	default:
		return "reject"
	}
}

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DuplicatesReject, nil
	case "allow":
		return DuplicatesAllow, nil
	case "ignore":
		return DuplicatesIgnore, nil
	default:
		return DuplicatesReject, fmt.Errorf("rentslot: unknown duplicate policy %q", s)
	}
}

// Options tune the Manager. Only Ledger is required; others have sensible defaults.
type Options struct {
	// Required. Must be the ledger the slots' balances live in.
	Ledger slot.Ledger

	Rent       rent.Func       // nil => rent.Default().MinimumBalance
	Logger     Logger          // nil => NopLogger
	Hooks      Hooks           // nil => NopHooks
	Revisions  revision.Store  // nil => revision.Local (in-process)
	Duplicates DuplicatePolicy // default DuplicatesReject
	MaxLen     int             // 0 => slot.DefaultMaxLen
	MaxGrowth  int             // bytes per update; 0 => DefaultMaxGrowth

	// KeepResizeOnFundingFailure leaves a slot at its new length when the
	// transfer that should fund it fails. Default false: the resize is undone.
	KeepResizeOnFundingFailure bool
}

func New(opts Options) (Manager, error) {
	return newManager(opts)
}
