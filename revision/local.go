package revision

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	Rev       uint64
	UpdatedAt time.Time
}

// Local keeps revisions in-process.
type Local struct {
	mu   sync.RWMutex
	revs map[string]localEntry
}

var _ Store = (*Local)(nil)

func NewLocal() *Local {
	return &Local{revs: make(map[string]localEntry)}
}

func (s *Local) Current(_ context.Context, k string) (uint64, error) {
	s.mu.RLock()
	e := s.revs[k]
	s.mu.RUnlock()
	return e.Rev, nil
}

func (s *Local) Bump(_ context.Context, k string) (uint64, error) {
	now := time.Now()
	s.mu.Lock()
	e := s.revs[k]
	e.Rev++
	e.UpdatedAt = now
	s.revs[k] = e
	s.mu.Unlock()
	return e.Rev, nil
}

// UpdatedAt reports when k was last bumped; zero if never.
func (s *Local) UpdatedAt(k string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revs[k].UpdatedAt
}

func (s *Local) Close(context.Context) error { return nil }
