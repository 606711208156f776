package rentslot

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/rentslot/codec"
	"github.com/unkn0wn-root/rentslot/internal/layout"
	"github.com/unkn0wn-root/rentslot/record"
	"github.com/unkn0wn-root/rentslot/revision"
	"github.com/unkn0wn-root/rentslot/slot"
)

type manager struct {
	*Resizer

	codec codec.Codec[record.Record]
	revs  revision.Store
	dups  DuplicatePolicy
}

func newManager(opts Options) (*manager, error) {
	rz, err := NewResizer(opts)
	if err != nil {
		return nil, err
	}
	m := &manager{
		Resizer: rz,
		codec:   codec.LimitCodec[record.Record]{Inner: codec.Layout{}, MaxDecode: rz.maxLen},
		dups:    opts.Duplicates,
	}
	m.revs = coalesce[revision.Store](opts.Revisions, revision.NewLocal())
	return m, nil
}

func (m *manager) Close(ctx context.Context) error {
	return m.revs.Close(ctx)
}

func (m *manager) Initialize(ctx context.Context, s slot.Slot, payer slot.Account) (Result, error) {
	raw, err := s.Read(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(raw) > 0 {
		rec, err := m.codec.Decode(raw)
		if err != nil {
			return Result{}, fmt.Errorf("initialize slot %q: %w", s.ID(), err)
		}
		if rec.Len() > 0 {
			return Result{}, fmt.Errorf("initialize slot %q (%d elements): %w", s.ID(), rec.Len(), ErrAlreadyInitialized)
		}
	}
	res, err := m.commit(ctx, s, payer, record.Record{}, raw)
	if err != nil {
		return res, fmt.Errorf("initialize slot %q: %w", s.ID(), err)
	}
	m.log.Info("slot initialized", Fields{"slot": string(s.ID()), "payer": string(payer), "revision": res.Revision})
	return res, nil
}

func (m *manager) Add(ctx context.Context, s slot.Slot, payer slot.Account, key record.Element) (Result, error) {
	return m.Update(ctx, s, payer, true, key)
}

func (m *manager) Remove(ctx context.Context, s slot.Slot, payer slot.Account, key record.Element) (Result, error) {
	return m.Update(ctx, s, payer, false, key)
}

func (m *manager) Update(ctx context.Context, s slot.Slot, payer slot.Account, add bool, key record.Element) (Result, error) {
	rec, raw, err := m.load(ctx, s)
	if err != nil {
		return Result{}, err
	}

	removed := 0
	if add {
		switch {
		case !rec.Contains(key) || m.dups == DuplicatesAllow:
			rec = rec.Append(key)
		case m.dups == DuplicatesIgnore:
			// unchanged; still rewritten below
		default:
			m.hooks.DuplicateRejected(string(s.ID()))
			return Result{Record: rec}, fmt.Errorf("add %s to slot %q: %w", key, s.ID(), ErrDuplicateElement)
		}
	} else {
		rec, removed = rec.Remove(key)
	}

	m.log.Debug("updating slot", Fields{"slot": string(s.ID()), "add": add, "key": key.String(), "count": rec.Len()})

	res, err := m.commit(ctx, s, payer, rec, raw)
	res.Removed = removed
	if err != nil {
		return res, fmt.Errorf("update slot %q: %w", s.ID(), err)
	}
	return res, nil
}

// commit reconciles s with rec and writes the encoding. prev is the slot
// content rec was decoded from. Nothing is written unless Reconcile succeeds.
// Once a resize happened the write is not cancellable, and a failed write
// reverts the resize and its transfer.
func (m *manager) commit(ctx context.Context, s slot.Slot, payer slot.Account, rec record.Record, prev []byte) (Result, error) {
	res := Result{Record: rec}

	enc, err := m.codec.Encode(rec)
	if err != nil {
		return res, err
	}
	ch, err := m.Reconcile(ctx, s, payer, rec)
	res.Change = ch
	if err != nil {
		return res, err
	}

	// hard invariant before every write
	if err := layout.Check(enc); err != nil {
		return res, err
	}
	if len(enc) != ch.To {
		return res, fmt.Errorf("encoded %d bytes for a %d byte slot: %w", len(enc), ch.To, ErrLengthMismatch)
	}
	wctx := ctx
	if ch.Direction != Unchanged {
		wctx = context.WithoutCancel(ctx)
	}
	if err := s.Write(wctx, enc); err != nil {
		if rerr := m.revert(wctx, s, payer, ch, prev); rerr != nil {
			m.hooks.InconsistentWindow(string(s.ID()), ch.From, ch.To, err)
			m.log.Error("slot write revert failed", Fields{"slot": string(s.ID()), "from": ch.From, "to": ch.To, "err": err, "revertErr": rerr})
			return res, fmt.Errorf("write slot %q: %w; revert: %w", s.ID(), err, rerr)
		}
		return res, fmt.Errorf("write slot %q: %w", s.ID(), err)
	}

	rev, err := m.revs.Bump(ctx, string(s.ID()))
	if err != nil {
		// the write is durable; only the counter is behind
		m.log.Warn("revision bump failed", Fields{"slot": string(s.ID()), "err": err})
	}
	res.Revision = rev
	return res, nil
}

func (m *manager) Load(ctx context.Context, s slot.Slot) (record.Record, error) {
	rec, _, err := m.load(ctx, s)
	return rec, err
}

// load returns the decoded record along with the raw bytes it came from.
func (m *manager) load(ctx context.Context, s slot.Slot) (record.Record, []byte, error) {
	raw, err := s.Read(ctx)
	if err != nil {
		return nil, nil, err
	}
	rec, err := m.codec.Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode slot %q (%d bytes): %w", s.ID(), len(raw), err)
	}
	return rec, raw, nil
}

func (m *manager) Revision(ctx context.Context, s slot.Slot) (uint64, error) {
	return m.revs.Current(ctx, string(s.ID()))
}
