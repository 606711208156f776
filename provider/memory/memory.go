package memory

import (
	"context"
	"sync"
	"time"

	pr "github.com/unkn0wn-root/rentslot/provider"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Memory is an in-process Provider. Values are copied on Set and Get so
// callers never share backing arrays with the store.
type Memory struct {
	mu sync.RWMutex
	m  map[string]entry
}

var _ pr.Provider = (*Memory)(nil)

func New() *Memory { return &Memory{m: make(map[string]entry)} }

func (p *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.RLock()
	e, ok := p.m[key]
	p.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		p.mu.Lock()
		delete(p.m, key)
		p.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.v...), true, nil
}

func (p *Memory) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.mu.Lock()
	p.m[key] = entry{v: append([]byte(nil), value...), exp: exp}
	p.mu.Unlock()
	return true, nil
}

func (p *Memory) Del(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}

func (p *Memory) Close(_ context.Context) error { return nil }

// Keys returns a snapshot of stored keys. Intended for tests and diagnostics.
func (p *Memory) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.m))
	for k := range p.m {
		out = append(out, k)
	}
	return out
}
