package layout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/unkn0wn-root/rentslot/record"
)

func mustEncode(t *testing.T, r record.Record) []byte {
	t.Helper()
	b, err := Encode(r)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	return b
}

func mustDecode(t *testing.T, b []byte) record.Record {
	t.Helper()
	r, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return r
}

func TestRoundTrip(t *testing.T) {
	k1, k2, k3 := record.DeriveElement("1"), record.DeriveElement("2"), record.DeriveElement("3")
	cases := []record.Record{
		nil,
		{k1},
		{k1, k2, k3},
		{k2, k2, k1}, // duplicates preserved
	}
	for _, r := range cases {
		enc := mustEncode(t, r)
		if len(enc) != Size(len(r)) {
			t.Fatalf("encoded len %d want %d", len(enc), Size(len(r)))
		}
		got := mustDecode(t, enc)
		if !got.Equal(r) {
			t.Fatalf("round trip mismatch: got %v want %v", got, r)
		}
	}
}

func TestEmptyIsFourZeroBytes(t *testing.T) {
	enc := mustEncode(t, record.Record{})
	if !bytes.Equal(enc, []byte{0, 0, 0, 0}) {
		t.Fatalf("empty encoding = %x", enc)
	}
}

func TestBitExactLayout(t *testing.T) {
	k1, k2 := record.DeriveElement("K1"), record.DeriveElement("K2")
	enc := mustEncode(t, record.Record{k1, k2})

	want := append([]byte{2, 0, 0, 0}, k1[:]...)
	want = append(want, k2[:]...)
	if !bytes.Equal(enc, want) {
		t.Fatalf("layout mismatch:\n got %x\nwant %x", enc, want)
	}
}

func TestDecodeRejectsInconsistentLengths(t *testing.T) {
	k := record.DeriveElement("k")
	enc := mustEncode(t, record.Record{k, k})

	cases := map[string][]byte{
		"empty":         nil,
		"short prefix":  {1, 0},
		"truncated":     enc[:len(enc)-1],
		"trailing":      append(append([]byte(nil), enc...), 0xDE, 0xAD),
		"extra element": append(append([]byte(nil), enc...), k[:]...),
		"prefix only":   {1, 0, 0, 0},
	}
	for name, b := range cases {
		if _, err := Decode(b); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}

	// prefix announcing more than is available
	huge := append([]byte(nil), enc...)
	binary.LittleEndian.PutUint32(huge[:4], 0xFFFFFFFF)
	if _, err := Decode(huge); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on huge prefix, got %v", err)
	}
}

func TestDecodeCopiesOutOfBuffer(t *testing.T) {
	k := record.DeriveElement("z")
	enc := mustEncode(t, record.Record{k})
	r := mustDecode(t, enc)

	enc[4] ^= 0xFF
	if r[0] != k {
		t.Fatalf("decoded record aliases the input buffer")
	}
}

func TestPrefix(t *testing.T) {
	if _, ok := Prefix([]byte{1, 2, 3}); ok {
		t.Fatalf("expected !ok for short buffer")
	}
	n, ok := Prefix([]byte{7, 1, 0, 0, 0xFF})
	if !ok || n != 263 {
		t.Fatalf("Prefix = %d, %v", n, ok)
	}
}
