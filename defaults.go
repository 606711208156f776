package rentslot

// DefaultMaxGrowth is the largest growth allowed in a single update, in bytes.
const DefaultMaxGrowth = 10 * 1024

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
