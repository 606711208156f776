// Package rent provides minimum-balance functions for slots.
//
// A minimum-balance function maps a byte length to the balance a slot of that
// size must hold. Implementations must be pure and monotonically
// non-decreasing in the byte length.
package rent

import "math"

// Func is a minimum-balance function.
type Func func(byteLen int) uint64

const (
	DefaultLamportsPerByteYear uint64  = 3480
	DefaultExemptionThreshold  float64 = 2.0
	DefaultStorageOverhead     uint64  = 128
)

// Rent charges (overhead + n) * perByteYear * threshold.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	StorageOverhead     uint64 // bytes charged on top of every length
}

// Default returns the rent parameters of the reference runtime.
func Default() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		StorageOverhead:     DefaultStorageOverhead,
	}
}

// MinimumBalance returns the balance required for byteLen bytes.
// Negative lengths are treated as zero.
func (r Rent) MinimumBalance(byteLen int) uint64 {
	if byteLen < 0 {
		byteLen = 0
	}
	perYear := (r.StorageOverhead + uint64(byteLen)) * r.LamportsPerByteYear
	v := float64(perYear) * r.ExemptionThreshold
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(v)
}

// Func returns r.MinimumBalance as a Func.
func (r Rent) Func() Func { return r.MinimumBalance }

// Linear charges perByte for every byte, with no overhead.
func Linear(perByte uint64) Func {
	return func(byteLen int) uint64 {
		if byteLen <= 0 {
			return 0
		}
		return uint64(byteLen) * perByte
	}
}
