package slot

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/unkn0wn-root/rentslot/internal/util"
	pr "github.com/unkn0wn-root/rentslot/provider"
)

// KVLedger keeps balances as 8-byte little-endian values in a Provider.
// Missing accounts hold zero. Operations are serialized in-process; two
// KVLedgers sharing a remote Provider do not coordinate.
type KVLedger struct {
	mu sync.Mutex
	p  pr.Provider
	ns string
}

var _ Ledger = (*KVLedger)(nil)

func NewKVLedger(p pr.Provider, namespace string) *KVLedger {
	return &KVLedger{p: p, ns: namespace}
}

func (l *KVLedger) key(a Account) string { return util.StorageKey("acct", l.ns, string(a)) }

func (l *KVLedger) Balance(ctx context.Context, a Account) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(ctx, a)
}

func (l *KVLedger) Transfer(ctx context.Context, from, to Account, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fb, err := l.get(ctx, from)
	if err != nil {
		return err
	}
	if fb < amount {
		return fmt.Errorf("transfer %d from %q (has %d): %w", amount, from, fb, ErrInsufficientFunds)
	}
	tb, err := l.get(ctx, to)
	if err != nil {
		return err
	}
	if tb > math.MaxUint64-amount {
		return fmt.Errorf("transfer %d to %q: %w", amount, to, ErrBalanceOverflow)
	}

	if err := l.put(ctx, from, fb-amount); err != nil {
		return err
	}
	if err := l.put(ctx, to, tb+amount); err != nil {
		// restore the debit so the transfer stays all-or-nothing
		if rerr := l.put(ctx, from, fb); rerr != nil {
			return fmt.Errorf("transfer credit failed: %w; restore debit failed: %v", err, rerr)
		}
		return err
	}
	return nil
}

func (l *KVLedger) Adjust(ctx context.Context, a Account, delta int64) error {
	if delta == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := l.get(ctx, a)
	if err != nil {
		return err
	}
	next, err := applyDelta(b, delta)
	if err != nil {
		return fmt.Errorf("adjust %q by %d: %w", a, delta, err)
	}
	return l.put(ctx, a, next)
}

func (l *KVLedger) get(ctx context.Context, a Account) (uint64, error) {
	raw, ok, err := l.p.Get(ctx, l.key(a))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("ledger: corrupt balance for %q (%d bytes)", a, len(raw))
	}
	return binary.LittleEndian.Uint64(raw), nil
}

func (l *KVLedger) put(ctx context.Context, a Account, v uint64) error {
	var u8 [8]byte
	binary.LittleEndian.PutUint64(u8[:], v)
	ok, err := l.p.Set(ctx, l.key(a), u8[:], 8, 0)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("ledger: balance for %q: %w", a, ErrRejected)
	}
	return nil
}

func applyDelta(b uint64, delta int64) (uint64, error) {
	if delta < 0 {
		d := uint64(-(delta + 1)) + 1 // |delta| without overflowing on MinInt64
		if b < d {
			return 0, ErrInsufficientFunds
		}
		return b - d, nil
	}
	if b > math.MaxUint64-uint64(delta) {
		return 0, ErrBalanceOverflow
	}
	return b + uint64(delta), nil
}
