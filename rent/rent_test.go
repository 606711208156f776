package rent

import "testing"

func TestDefaultMatchesReferenceRuntime(t *testing.T) {
	r := Default()
	// (128 + 0) * 3480 * 2
	if got := r.MinimumBalance(0); got != 890880 {
		t.Fatalf("MinimumBalance(0) = %d", got)
	}
	// (128 + 4) * 3480 * 2
	if got := r.MinimumBalance(4); got != 918720 {
		t.Fatalf("MinimumBalance(4) = %d", got)
	}
	if r.MinimumBalance(-5) != r.MinimumBalance(0) {
		t.Fatalf("negative length should clamp to zero")
	}
}

func TestMonotonic(t *testing.T) {
	fns := map[string]Func{
		"default": Default().Func(),
		"linear":  Linear(7),
	}
	for name, f := range fns {
		prev := f(0)
		for n := 1; n < 4096; n += 31 {
			cur := f(n)
			if cur < prev {
				t.Fatalf("%s: not monotonic at %d: %d < %d", name, n, cur, prev)
			}
			prev = cur
		}
	}
}

func TestLinear(t *testing.T) {
	f := Linear(10)
	if f(0) != 0 || f(-1) != 0 || f(32) != 320 {
		t.Fatalf("unexpected Linear results: %d %d %d", f(0), f(-1), f(32))
	}
}
