package slot

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/unkn0wn-root/rentslot/provider/memory"
)

func newTestStore(t *testing.T, maxLen int) *Store {
	t.Helper()
	st, err := NewStore(StoreOptions{Namespace: "test", Provider: memory.New(), MaxLen: maxLen})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return st
}

func TestNewStoreRequiresFields(t *testing.T) {
	if _, err := NewStore(StoreOptions{Namespace: "x"}); err == nil {
		t.Fatalf("expected error without provider")
	}
	if _, err := NewStore(StoreOptions{Provider: memory.New()}); err == nil {
		t.Fatalf("expected error without namespace")
	}
}

func TestFreshSlotIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0).Slot("s1")

	n, err := s.Len(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Len = %d, %v", n, err)
	}
	if bal, err := s.Balance(ctx); err != nil || bal != 0 {
		t.Fatalf("Balance = %d, %v", bal, err)
	}
}

func TestResizeKeepsPrefixAndZeroFills(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0).Slot("s1")

	if err := s.Resize(ctx, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := s.Resize(ctx, 6); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Read(ctx)
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 0, 0}) {
		t.Fatalf("after grow: %v", got)
	}
	if err := s.Resize(ctx, 2); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Read(ctx)
	if !bytes.Equal(got, []byte{1, 2}) {
		t.Fatalf("after shrink: %v", got)
	}
}

func TestWriteRequiresExactLength(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0).Slot("s1")
	_ = s.Resize(ctx, 4)

	for _, b := range [][]byte{{1, 2, 3}, {1, 2, 3, 4, 5}} {
		if err := s.Write(ctx, b); !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch for %d bytes, got %v", len(b), err)
		}
	}
	got, _ := s.Read(ctx)
	if !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Fatalf("failed write modified content: %v", got)
	}
}

func TestResizeBeyondMaxLen(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 16).Slot("s1")
	if err := s.Resize(ctx, 17); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if n, _ := s.Len(ctx); n != 0 {
		t.Fatalf("length changed after rejected resize: %d", n)
	}
}

func TestSlotBalanceIsLedgerBalance(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, 0)
	s := st.Slot("s1")

	if err := st.Ledger().Adjust(ctx, "payer", 100); err != nil {
		t.Fatal(err)
	}
	if err := st.Ledger().Transfer(ctx, "payer", s.ID(), 40); err != nil {
		t.Fatal(err)
	}
	if bal, _ := s.Balance(ctx); bal != 40 {
		t.Fatalf("slot balance = %d want 40", bal)
	}
	if err := s.AdjustBalance(ctx, -10); err != nil {
		t.Fatal(err)
	}
	if bal, _ := st.Ledger().Balance(ctx, s.ID()); bal != 30 {
		t.Fatalf("ledger balance = %d want 30", bal)
	}
}

func TestKVLedgerTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewKVLedger(memory.New(), "test")

	_ = l.Adjust(ctx, "a", 50)
	if err := l.Transfer(ctx, "a", "b", 51); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	a, _ := l.Balance(ctx, "a")
	b, _ := l.Balance(ctx, "b")
	if a != 50 || b != 0 {
		t.Fatalf("failed transfer moved value: a=%d b=%d", a, b)
	}

	if err := l.Transfer(ctx, "a", "b", 50); err != nil {
		t.Fatal(err)
	}
	a, _ = l.Balance(ctx, "a")
	b, _ = l.Balance(ctx, "b")
	if a != 0 || b != 50 {
		t.Fatalf("after transfer: a=%d b=%d", a, b)
	}
}

func TestKVLedgerAdjustBounds(t *testing.T) {
	ctx := context.Background()
	l := NewKVLedger(memory.New(), "test")

	if err := l.Adjust(ctx, "a", -1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if err := l.Adjust(ctx, "a", math.MaxInt64); err != nil {
		t.Fatal(err)
	}
	if err := l.Adjust(ctx, "a", math.MaxInt64); err != nil {
		t.Fatal(err)
	}
	if err := l.Adjust(ctx, "a", 2); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
	if err := l.Adjust(ctx, "a", math.MinInt64); err != nil {
		t.Fatalf("debit MinInt64: %v", err)
	}
	if bal, _ := l.Balance(ctx, "a"); bal != math.MaxInt64-1 {
		t.Fatalf("balance = %d want %d", bal, uint64(math.MaxInt64-1))
	}
}
