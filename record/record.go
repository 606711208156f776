// Package record defines the fixed-size Element key and the ordered Record
// that a slot persists.
package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ElementSize is the encoded width of one Element in bytes.
const ElementSize = 32

// Element is a fixed-width identifier. Equality is byte-for-byte.
type Element [ElementSize]byte

// ParseElement parses a 64 character hex string.
func ParseElement(s string) (Element, error) {
	var e Element
	if len(s) != 2*ElementSize {
		return e, fmt.Errorf("record: element must be %d hex chars, got %d", 2*ElementSize, len(s))
	}
	if _, err := hex.Decode(e[:], []byte(s)); err != nil {
		return e, fmt.Errorf("record: parse element: %w", err)
	}
	return e, nil
}

// DeriveElement returns the sha256 digest of label as an Element.
func DeriveElement(label string) Element {
	return Element(sha256.Sum256([]byte(label)))
}

func (e Element) String() string { return hex.EncodeToString(e[:]) }

func (e Element) MarshalText() ([]byte, error) {
	out := make([]byte, 2*ElementSize)
	hex.Encode(out, e[:])
	return out, nil
}

func (e *Element) UnmarshalText(b []byte) error {
	v, err := ParseElement(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Record is an ordered multiset of Elements. Order is insertion-derived.
type Record []Element

func (r Record) Len() int { return len(r) }

// Index returns the position of the first element equal to key, or -1.
func (r Record) Index(key Element) int {
	for i, e := range r {
		if e == key {
			return i
		}
	}
	return -1
}

func (r Record) Contains(key Element) bool { return r.Index(key) >= 0 }

// Append returns a new Record with key at the end. r is not modified.
func (r Record) Append(key Element) Record {
	out := make(Record, len(r), len(r)+1)
	copy(out, r)
	return append(out, key)
}

// Remove returns a new Record without any element equal to key, along with
// the number of entries dropped.
func (r Record) Remove(key Element) (Record, int) {
	out := make(Record, 0, len(r))
	for _, e := range r {
		if e != key {
			out = append(out, e)
		}
	}
	return out, len(r) - len(out)
}

// Equal reports whether both records hold the same elements in the same order.
// A nil and an empty Record are equal.
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// Strings renders each element as hex, preserving order.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = e.String()
	}
	return out
}
