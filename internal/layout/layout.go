package layout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/unkn0wn-root/rentslot/record"
)

const prefixLen = 4

var (
	ErrCorrupt  = errors.New("rentslot: corrupt layout")
	ErrTooLarge = errors.New("rentslot: record count exceeds u32")
)

// Size returns the exact encoded length of a record holding n elements.
func Size(n int) int {
	return prefixLen + n*record.ElementSize
}

// Prefix reads the declared element count. ok is false for buffers shorter
// than the prefix.
func Prefix(b []byte) (n uint32, ok bool) {
	if len(b) < prefixLen {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[:prefixLen]), true
}

// Check verifies len(b) == Size(prefix(b)). It is run before every write.
func Check(b []byte) error {
	n, ok := Prefix(b)
	if !ok {
		return ErrCorrupt
	}
	// overflow-safe: compare in element units rather than computing n*size
	body := len(b) - prefixLen
	if body%record.ElementSize != 0 || uint64(body/record.ElementSize) != uint64(n) {
		return ErrCorrupt
	}
	return nil
}

// count(u32 le) | element(32) * count
func Encode(r record.Record) ([]byte, error) {
	if uint64(len(r)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	var buf bytes.Buffer
	buf.Grow(Size(len(r)))

	var u4 [4]byte
	binary.LittleEndian.PutUint32(u4[:], uint32(len(r)))
	buf.Write(u4[:])

	for i := range r {
		buf.Write(r[i][:])
	}
	return buf.Bytes(), nil
}

// Decode copies elements out of b; the returned Record never aliases b.
func Decode(b []byte) (record.Record, error) {
	if err := Check(b); err != nil {
		return nil, err
	}
	n, _ := Prefix(b)

	out := make(record.Record, n)
	off := prefixLen
	for i := range out {
		copy(out[i][:], b[off:off+record.ElementSize])
		off += record.ElementSize
	}
	return out, nil
}
