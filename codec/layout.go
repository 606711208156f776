package codec

import (
	"github.com/unkn0wn-root/rentslot/internal/layout"
	"github.com/unkn0wn-root/rentslot/record"
)

// Layout is the slot codec: count(u32 le) followed by each element's raw bytes.
// Decode fails with an error matching rentslot.ErrCorruptLayout when the
// buffer length disagrees with its prefix. The zero value is ready to use.
type Layout struct{}

var _ Codec[record.Record] = Layout{}

func (Layout) Encode(r record.Record) ([]byte, error) { return layout.Encode(r) }
func (Layout) Decode(b []byte) (record.Record, error) { return layout.Decode(b) }

// Size returns the encoded length of a record with n elements.
func (Layout) Size(n int) int { return layout.Size(n) }
