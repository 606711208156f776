// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    ResizeEvery: 10, // sample logs: ~every 10th resize
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	mgr, _ := rentslot.New(rentslot.Options{
//	    Ledger: store.Ledger(),
//	    Hooks:  hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/rentslot"
)

// Hooks forwards events to inner on a worker pool. Events are dropped when
// the queue is full so the update path never blocks.
type Hooks struct {
	inner rentslot.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ rentslot.Hooks = (*Hooks)(nil)

func New(inner rentslot.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Resized(s string, from, to int) { h.try(func() { h.inner.Resized(s, from, to) }) }
func (h *Hooks) DuplicateRejected(s string)     { h.try(func() { h.inner.DuplicateRejected(s) }) }
func (h *Hooks) Funded(s, p string, amt uint64) {
	h.try(func() { h.inner.Funded(s, p, amt) })
}
func (h *Hooks) Refunded(s, p string, amt uint64) {
	h.try(func() { h.inner.Refunded(s, p, amt) })
}
func (h *Hooks) FundingFailed(s string, req uint64, err error) {
	h.try(func() { h.inner.FundingFailed(s, req, err) })
}
func (h *Hooks) ResizeRolledBack(s string, from, to int) {
	h.try(func() { h.inner.ResizeRolledBack(s, from, to) })
}
func (h *Hooks) InconsistentWindow(s string, declared, actual int, err error) {
	h.try(func() { h.inner.InconsistentWindow(s, declared, actual, err) })
}
