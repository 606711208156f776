// Package revision counts durable writes per slot.
//
// Every successful update bumps the slot's revision. A caller that read a
// slot at revision r and sees a different revision before retrying knows the
// slot changed and must re-read before recomputing.
package revision

import "context"

// Store abstracts where revisions live.
// Use Local (default) for in-process counters, or Redis to share them.
type Store interface {
	// Current returns the revision; missing => 0.
	Current(ctx context.Context, slotKey string) (uint64, error)
	// Bump atomically increments and returns the new revision.
	Bump(ctx context.Context, slotKey string) (uint64, error)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
