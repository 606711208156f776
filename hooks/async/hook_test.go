package asynchook

import (
	"sync/atomic"
	"testing"

	"github.com/unkn0wn-root/rentslot"
)

type countHooks struct {
	rentslot.NopHooks
	resized atomic.Int64
	funded  atomic.Uint64
}

func (c *countHooks) Resized(string, int, int)     { c.resized.Add(1) }
func (c *countHooks) Funded(_, _ string, a uint64) { c.funded.Add(a) }

func TestForwardsAndDrainsOnClose(t *testing.T) {
	inner := &countHooks{}
	h := New(inner, 2, 64)

	for i := 0; i < 10; i++ {
		h.Resized("s", 4, 36)
		h.Funded("s", "p", 5)
	}
	h.Close()
	h.Close() // idempotent

	if inner.resized.Load() != 10 || inner.funded.Load() != 50 {
		t.Fatalf("resized=%d funded=%d", inner.resized.Load(), inner.funded.Load())
	}
}

func TestDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	inner := &blockingHooks{block: block}
	h := New(inner, 1, 1)

	for i := 0; i < 100; i++ {
		h.DuplicateRejected("s") // must never block
	}
	close(block)
	h.Close()

	if got := inner.n.Load(); got >= 100 {
		t.Fatalf("expected drops, got %d delivered", got)
	}
}

type blockingHooks struct {
	rentslot.NopHooks
	block chan struct{}
	n     atomic.Int64
}

func (b *blockingHooks) DuplicateRejected(string) {
	<-b.block
	b.n.Add(1)
}
