package rentslot

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/rentslot/internal/layout"
	"github.com/unkn0wn-root/rentslot/slot"
)

// Error kinds. Match with errors.Is; operations wrap them with context.
var (
	ErrCorruptLayout      = layout.ErrCorrupt
	ErrInsufficientFunds  = slot.ErrInsufficientFunds
	ErrCapacityExceeded   = slot.ErrCapacityExceeded
	ErrLengthMismatch     = slot.ErrLengthMismatch
	ErrDuplicateElement   = errors.New("rentslot: duplicate element")
	ErrAlreadyInitialized = errors.New("rentslot: slot already initialized")
)

// FundingError reports a transfer that failed after the slot was resized.
// Err is the transfer failure. RollbackErr is set when restoring the previous
// length also failed, in which case the slot length disagrees with its content
// until the next successful update.
type FundingError struct {
	Slot        slot.Account
	From, To    int
	Required    uint64
	Err         error
	RollbackErr error
	RolledBack  bool
}

func (e *FundingError) Error() string {
	switch {
	case e.RollbackErr != nil:
		return fmt.Sprintf("fund slot %q resize %d->%d (%d required): %v; rollback failed: %v",
			e.Slot, e.From, e.To, e.Required, e.Err, e.RollbackErr)
	case e.RolledBack:
		return fmt.Sprintf("fund slot %q resize %d->%d (%d required), resize rolled back: %v",
			e.Slot, e.From, e.To, e.Required, e.Err)
	default:
		return fmt.Sprintf("fund slot %q resize %d->%d (%d required): %v",
			e.Slot, e.From, e.To, e.Required, e.Err)
	}
}

func (e *FundingError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.RollbackErr != nil {
		errs = append(errs, e.RollbackErr)
	}
	return errs
}

// Inconsistent reports whether the slot was left resized without funding.
func (e *FundingError) Inconsistent() bool { return !e.RolledBack }
