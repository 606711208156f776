package rentslot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/unkn0wn-root/rentslot/internal/layout"
	"github.com/unkn0wn-root/rentslot/record"
	"github.com/unkn0wn-root/rentslot/rent"
	"github.com/unkn0wn-root/rentslot/slot"
)

type Direction int

const (
	Unchanged Direction = iota
	Grow
	Shrink
)

func (d Direction) String() string {
	switch d {
	case Grow:
		return "grow"
	case Shrink:
		return "shrink"
	default:
		return "unchanged"
	}
}

// Change describes one reconciliation. Required is min_balance(|To-From|)
// and is zero when Direction is Unchanged.
type Change struct {
	From      int
	To        int
	Required  uint64
	Direction Direction
}

func (c Change) Delta() int { return c.To - c.From }

// Resizer reconciles a slot's length and balance with a mutated record.
// It holds no per-slot state; every Reconcile is a one-shot transition.
type Resizer struct {
	ledger     slot.Ledger
	rent       rent.Func
	maxLen     int
	maxGrowth  int
	keepResize bool
	log        Logger
	hooks      Hooks
}

// NewResizer builds a Resizer from the relevant Options fields.
func NewResizer(opts Options) (*Resizer, error) {
	if opts.Ledger == nil {
		return nil, errors.New("rentslot: ledger is required")
	}
	r := &Resizer{
		ledger:     opts.Ledger,
		rent:       opts.Rent,
		keepResize: opts.KeepResizeOnFundingFailure,
	}
	if r.rent == nil {
		r.rent = rent.Default().MinimumBalance
	}
	r.maxLen = coalesce(opts.MaxLen, slot.DefaultMaxLen)
	r.maxGrowth = coalesce(opts.MaxGrowth, DefaultMaxGrowth)
	r.log = coalesce[Logger](opts.Logger, NopLogger{})
	r.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return r, nil
}

// MinBalance exposes the configured minimum-balance function.
func (r *Resizer) MinBalance(byteLen int) uint64 { return r.rent(byteLen) }

// Reconcile resizes s to the exact encoded size of rec and moves the rent
// delta between payer and s. It never writes slot content; on success the
// caller writes the encoded rec into the resized slot.
//
// Any failure leaves the content untouched. With KeepResizeOnFundingFailure
// a failed transfer leaves the slot at its new length (see FundingError);
// otherwise the previous length and bytes are restored.
//
// ctx is honoured until the resize is requested. From then on the resize,
// transfer and any rollback run to completion regardless of cancellation.
func (r *Resizer) Reconcile(ctx context.Context, s slot.Slot, payer slot.Account, rec record.Record) (Change, error) {
	if uint64(len(rec)) > math.MaxUint32 {
		return Change{}, fmt.Errorf("reconcile slot %q: %w: %w", s.ID(), ErrCapacityExceeded, layout.ErrTooLarge)
	}
	prev, err := s.Read(ctx)
	if err != nil {
		return Change{}, err
	}

	ch := Change{From: len(prev), To: layout.Size(len(rec))}
	if ch.To == ch.From {
		return ch, nil
	}
	if ch.To > r.maxLen {
		return ch, fmt.Errorf("reconcile slot %q: %d bytes exceeds max %d: %w", s.ID(), ch.To, r.maxLen, ErrCapacityExceeded)
	}
	if ch.Delta() > r.maxGrowth {
		return ch, fmt.Errorf("reconcile slot %q: growth of %d bytes exceeds max %d: %w", s.ID(), ch.Delta(), r.maxGrowth, ErrCapacityExceeded)
	}

	abs := ch.Delta()
	ch.Direction = Grow
	if abs < 0 {
		abs = -abs
		ch.Direction = Shrink
	}
	ch.Required = r.rent(abs)

	f := Fields{"slot": string(s.ID()), "payer": string(payer), "from": ch.From, "to": ch.To, "required": ch.Required}

	ctx = context.WithoutCancel(ctx)

	// resize once, to the final size
	if err := s.Resize(ctx, ch.To); err != nil {
		return ch, fmt.Errorf("reconcile slot %q: %w", s.ID(), err)
	}
	r.hooks.Resized(string(s.ID()), ch.From, ch.To)
	r.log.Debug("slot resized", f)

	if ch.Direction == Grow {
		err = r.ledger.Transfer(ctx, payer, s.ID(), ch.Required)
	} else {
		err = r.refund(ctx, s, payer, ch.Required)
	}
	if err != nil {
		return ch, r.fundingFailed(ctx, s, ch, prev, err, f)
	}

	if ch.Direction == Grow {
		r.hooks.Funded(string(s.ID()), string(payer), ch.Required)
		r.log.Debug("slot funded", f)
	} else {
		r.hooks.Refunded(string(s.ID()), string(payer), ch.Required)
		r.log.Debug("slot refunded", f)
	}
	return ch, nil
}

// refund debits the slot balance and credits payer. The slot balance is
// checked first so a short balance is reported, never underflowed.
func (r *Resizer) refund(ctx context.Context, s slot.Slot, payer slot.Account, amount uint64) error {
	if amount > math.MaxInt64 {
		return fmt.Errorf("refund %d: %w", amount, slot.ErrBalanceOverflow)
	}
	bal, err := s.Balance(ctx)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("refund %d from slot %q (has %d): %w", amount, s.ID(), bal, ErrInsufficientFunds)
	}
	if err := s.AdjustBalance(ctx, -int64(amount)); err != nil {
		return err
	}
	if err := r.ledger.Adjust(ctx, payer, int64(amount)); err != nil {
		if rerr := s.AdjustBalance(ctx, int64(amount)); rerr != nil {
			return fmt.Errorf("credit payer %q: %w; restore slot balance: %v", payer, err, rerr)
		}
		return fmt.Errorf("credit payer %q: %w", payer, err)
	}
	return nil
}

func (r *Resizer) fundingFailed(ctx context.Context, s slot.Slot, ch Change, prev []byte, cause error, f Fields) error {
	id := string(s.ID())
	fe := &FundingError{Slot: s.ID(), From: ch.From, To: ch.To, Required: ch.Required, Err: cause}
	r.hooks.FundingFailed(id, ch.Required, cause)

	if r.keepResize {
		r.hooks.InconsistentWindow(id, ch.From, ch.To, cause)
		r.log.Warn("slot resized but not funded", f.with(Fields{"err": cause}))
		return fe
	}

	if err := r.restore(ctx, s, prev); err != nil {
		fe.RollbackErr = err
		r.hooks.InconsistentWindow(id, ch.From, ch.To, cause)
		r.log.Error("slot resize rollback failed", f.with(Fields{"err": cause, "rollbackErr": err}))
		return fe
	}
	fe.RolledBack = true
	r.hooks.ResizeRolledBack(id, ch.From, ch.To)
	r.log.Warn("slot funding failed; resize rolled back", f.with(Fields{"err": cause}))
	return fe
}

// revert undoes a successful Reconcile whose content write failed: the rent
// moves back and the previous length and bytes are restored.
func (r *Resizer) revert(ctx context.Context, s slot.Slot, payer slot.Account, ch Change, prev []byte) error {
	ctx = context.WithoutCancel(ctx)
	var err error
	switch ch.Direction {
	case Unchanged:
		return nil
	case Grow:
		err = r.refund(ctx, s, payer, ch.Required)
	case Shrink:
		err = r.ledger.Transfer(ctx, payer, s.ID(), ch.Required)
	}
	if err != nil {
		return fmt.Errorf("return rent: %w", err)
	}
	if err := r.restore(ctx, s, prev); err != nil {
		return fmt.Errorf("restore length: %w", err)
	}
	r.hooks.ResizeRolledBack(string(s.ID()), ch.From, ch.To)
	return nil
}

// restore resizes s back to len(prev) and rewrites prev unless the resize
// alone already brought it back.
func (r *Resizer) restore(ctx context.Context, s slot.Slot, prev []byte) error {
	if err := s.Resize(ctx, len(prev)); err != nil {
		return err
	}
	cur, err := s.Read(ctx)
	if err != nil {
		return err
	}
	if bytes.Equal(cur, prev) {
		return nil
	}
	return s.Write(ctx, prev)
}
