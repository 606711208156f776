package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/unkn0wn-root/rentslot"
	"github.com/unkn0wn-root/rentslot/slot"
)

// Run executes cfg.Ops in order against one slot.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) (err error) {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	ops, err := parseOps(cfg.Ops)
	if err != nil {
		return err
	}
	dups, err := rentslot.ParseDuplicatePolicy(cfg.Duplicates)
	if err != nil {
		return err
	}
	if !formats[cfg.Format] {
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	logger, flush, err := newLogger(cfg.Log, errOut)
	if err != nil {
		return err
	}
	defer flush()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeWith(ctx, &err, be.store.Close)

	opts := rentslot.Options{
		Ledger:                     be.store.Ledger(),
		Logger:                     logger,
		Revisions:                  be.revs,
		Duplicates:                 dups,
		MaxLen:                     be.store.MaxLen(),
		KeepResizeOnFundingFailure: cfg.KeepResize,
	}
	if cfg.Log != "none" {
		hooks := newHooks(errOut)
		defer hooks.Close()
		opts.Hooks = hooks
	}
	mgr, err := rentslot.New(opts)
	if err != nil {
		return err
	}
	defer closeWith(ctx, &err, mgr.Close)

	s := be.store.Slot(slot.Account(cfg.Slot))
	payer := slot.Account(cfg.Payer)
	for _, o := range ops {
		if err := execOp(ctx, mgr, be.store.Ledger(), s, payer, cfg.Format, o, out); err != nil {
			return err
		}
	}
	return nil
}

func execOp(ctx context.Context, mgr rentslot.Manager, ledger slot.Ledger, s slot.Slot, payer slot.Account, format string, o op, out io.Writer) error {
	switch o.kind {
	case opInit:
		res, err := mgr.Initialize(ctx, s, payer)
		if err != nil {
			return err
		}
		printResult(out, "init", res)
	case opAdd:
		res, err := mgr.Add(ctx, s, payer, o.key)
		if err != nil {
			return err
		}
		printResult(out, "add "+o.key.String(), res)
	case opRemove:
		res, err := mgr.Remove(ctx, s, payer, o.key)
		if err != nil {
			return err
		}
		printResult(out, "remove "+o.key.String(), res)
	case opFund:
		if err := ledger.Adjust(ctx, o.account, o.amount); err != nil {
			return fmt.Errorf("fund %s: %w", o.account, err)
		}
		bal, err := ledger.Balance(ctx, o.account)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "fund %s: balance=%d\n", o.account, bal)
	case opShow:
		snap, err := mgr.Snapshot(ctx, s)
		if err != nil {
			return err
		}
		text, err := encodeSnapshot(format, snap)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	}
	return nil
}

// closeWith runs c on an uncancelled ctx and keeps its error unless err
// already holds one.
func closeWith(ctx context.Context, err *error, c func(context.Context) error) {
	if cerr := c(context.WithoutCancel(ctx)); cerr != nil && *err == nil {
		*err = cerr
	}
}
