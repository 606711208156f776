package rentslot

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/rentslot/internal/layout"
	"github.com/unkn0wn-root/rentslot/slot"
)

// Snapshot is a point-in-time view of a slot, shaped for export through the
// codec package.
type Snapshot struct {
	Slot       string   `json:"slot" msgpack:"slot" cbor:"slot"`
	Keys       []string `json:"keys" msgpack:"keys" cbor:"keys"`
	Length     int      `json:"length" msgpack:"length" cbor:"length"`
	Balance    uint64   `json:"balance" msgpack:"balance" cbor:"balance"`
	MinBalance uint64   `json:"minBalance" msgpack:"minBalance" cbor:"minBalance"`
	RentExempt bool     `json:"rentExempt" msgpack:"rentExempt" cbor:"rentExempt"`
	Revision   uint64   `json:"revision" msgpack:"revision" cbor:"revision"`
}

// Map renders the snapshot with protobuf Struct-compatible values
// (structpb.NewStruct accepts it as is).
func (s Snapshot) Map() map[string]any {
	keys := make([]any, len(s.Keys))
	for i, k := range s.Keys {
		keys[i] = k
	}
	return map[string]any{
		"slot":       s.Slot,
		"keys":       keys,
		"length":     s.Length,
		"balance":    s.Balance,
		"minBalance": s.MinBalance,
		"rentExempt": s.RentExempt,
		"revision":   s.Revision,
	}
}

func (m *manager) Snapshot(ctx context.Context, s slot.Slot) (Snapshot, error) {
	rec, err := m.Load(ctx, s)
	if err != nil {
		return Snapshot{}, err
	}
	bal, err := s.Balance(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot slot %q: %w", s.ID(), err)
	}
	rev, err := m.revs.Current(ctx, string(s.ID()))
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot slot %q: %w", s.ID(), err)
	}

	length := layout.Size(rec.Len())
	minBal := m.rent(length)
	return Snapshot{
		Slot:       string(s.ID()),
		Keys:       rec.Strings(),
		Length:     length,
		Balance:    bal,
		MinBalance: minBal,
		RentExempt: bal >= minBal,
		Revision:   rev,
	}, nil
}
