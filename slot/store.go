package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/unkn0wn-root/rentslot/internal/util"
	pr "github.com/unkn0wn-root/rentslot/provider"
)

// DefaultMaxLen is the largest slot a Store will allocate (10 MiB).
const DefaultMaxLen = 10 * 1024 * 1024

// StoreOptions configure a Store. Only Namespace and Provider are required.
type StoreOptions struct {
	Namespace string
	Provider  pr.Provider

	Ledger Ledger // nil => KVLedger over Provider
	MaxLen int    // 0 => DefaultMaxLen
}

// Store hands out Provider-backed slots whose balances live in Ledger.
type Store struct {
	ns     string
	p      pr.Provider
	ledger Ledger
	maxLen int
}

func NewStore(opts StoreOptions) (*Store, error) {
	if opts.Provider == nil {
		return nil, errors.New("slot: provider is required")
	}
	if opts.Namespace == "" {
		return nil, errors.New("slot: namespace is required")
	}
	s := &Store{
		ns:     opts.Namespace,
		p:      opts.Provider,
		ledger: opts.Ledger,
		maxLen: opts.MaxLen,
	}
	if s.ledger == nil {
		s.ledger = NewKVLedger(opts.Provider, opts.Namespace)
	}
	if s.maxLen <= 0 {
		s.maxLen = DefaultMaxLen
	}
	return s, nil
}

func (s *Store) Ledger() Ledger { return s.ledger }
func (s *Store) MaxLen() int    { return s.maxLen }

// Slot returns a handle for id. Handles are cheap; the bytes live in Provider.
func (s *Store) Slot(id Account) Slot {
	return &kvSlot{id: id, key: util.StorageKey("slot", s.ns, string(id)), st: s}
}

func (s *Store) Close(ctx context.Context) error { return s.p.Close(ctx) }

type kvSlot struct {
	id  Account
	key string
	st  *Store
}

var _ Slot = (*kvSlot)(nil)

func (k *kvSlot) ID() Account { return k.id }

func (k *kvSlot) Len(ctx context.Context) (int, error) {
	b, err := k.Read(ctx)
	return len(b), err
}

func (k *kvSlot) Read(ctx context.Context) ([]byte, error) {
	b, ok, err := k.st.p.Get(ctx, k.key)
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", k.id, err)
	}
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (k *kvSlot) Write(ctx context.Context, b []byte) error {
	cur, err := k.Len(ctx)
	if err != nil {
		return err
	}
	if cur != len(b) {
		return fmt.Errorf("write slot %q: %d bytes into %d: %w", k.id, len(b), cur, ErrLengthMismatch)
	}
	return k.set(ctx, b)
}

func (k *kvSlot) Resize(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("resize slot %q: negative length %d", k.id, n)
	}
	if n > k.st.maxLen {
		return fmt.Errorf("resize slot %q to %d (max %d): %w", k.id, n, k.st.maxLen, ErrCapacityExceeded)
	}
	cur, err := k.Read(ctx)
	if err != nil {
		return err
	}
	if len(cur) == n {
		return nil
	}
	next := make([]byte, n)
	copy(next, cur)
	return k.set(ctx, next)
}

func (k *kvSlot) Balance(ctx context.Context) (uint64, error) {
	return k.st.ledger.Balance(ctx, k.id)
}

func (k *kvSlot) AdjustBalance(ctx context.Context, delta int64) error {
	return k.st.ledger.Adjust(ctx, k.id, delta)
}

func (k *kvSlot) set(ctx context.Context, b []byte) error {
	ok, err := k.st.p.Set(ctx, k.key, b, int64(len(b)), 0)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", k.id, err)
	}
	if !ok {
		return fmt.Errorf("write slot %q: %w", k.id, ErrRejected)
	}
	return nil
}
