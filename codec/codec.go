// Package codec converts values to and from bytes.
//
// Layout is the one codec used for slot contents; the rest render
// snapshots for export (CLI output, diagnostics, shipping to other systems).
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
