package record

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseElement(t *testing.T) {
	want := DeriveElement("k1")
	got, err := ParseElement(want.String())
	if err != nil {
		t.Fatalf("ParseElement: %v", err)
	}
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	bad := []string{
		"",
		"abc",
		strings.Repeat("z", 64),
		strings.Repeat("a", 66),
	}
	for _, s := range bad {
		if _, err := ParseElement(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	e := DeriveElement("text")
	b, err := e.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var back Element
	if err := back.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if back != e {
		t.Fatalf("text round trip mismatch")
	}
}

func TestAppendDoesNotAlias(t *testing.T) {
	k1, k2 := DeriveElement("a"), DeriveElement("b")
	base := make(Record, 1, 8)
	base[0] = k1

	r1 := base.Append(k2)
	r2 := base.Append(k1)
	if r1[1] != k2 {
		t.Fatalf("append result overwritten by a later append")
	}
	if base.Len() != 1 || r2.Len() != 2 {
		t.Fatalf("unexpected lengths base=%d r2=%d", base.Len(), r2.Len())
	}
}

func TestRemoveDropsAllMatches(t *testing.T) {
	k1, k2, k3 := DeriveElement("1"), DeriveElement("2"), DeriveElement("3")
	r := Record{k1, k2, k1, k3}

	out, n := r.Remove(k1)
	if n != 2 {
		t.Fatalf("removed %d want 2", n)
	}
	if diff := cmp.Diff(Record{k2, k3}, out); diff != "" {
		t.Fatalf("remove mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 4 {
		t.Fatalf("input mutated")
	}

	same, n := out.Remove(k1)
	if n != 0 || !same.Equal(out) {
		t.Fatalf("removing absent key changed record")
	}
}

func TestIndexContainsEqual(t *testing.T) {
	k1, k2 := DeriveElement("x"), DeriveElement("y")
	r := Record{k1, k2}
	if r.Index(k2) != 1 || r.Index(DeriveElement("z")) != -1 {
		t.Fatalf("unexpected Index results")
	}
	if !r.Contains(k1) {
		t.Fatalf("expected Contains(k1)")
	}
	if !Record(nil).Equal(Record{}) {
		t.Fatalf("nil and empty should be equal")
	}
	if r.Equal(Record{k2, k1}) {
		t.Fatalf("order must matter for Equal")
	}
	if got := r.Strings(); got[0] != k1.String() || got[1] != k2.String() {
		t.Fatalf("Strings order mismatch: %v", got)
	}
}
