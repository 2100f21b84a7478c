package keccache

import (
	"fmt"
	"math/bits"
)

// Options configure a [Cache].
type Options struct {
	// Capacity is the number of slots. Must be a power of two in
	// [1, 1<<24]. Zero means the default (1<<16).
	Capacity uint64

	// MaxKeyLen is the longest input that is cached; longer inputs are
	// hashed directly. Must be in [1, 88]. Zero means the default (88).
	MaxKeyLen int

	// Hash computes digests on a miss. Nil means [Sum] (Keccak-256).
	// Tests substitute counting or slowed-down functions here.
	Hash HashFunc

	// TrackStats enables the counters reported by [Cache.Stats]. Counting
	// costs one or two atomic adds per call.
	TrackStats bool
}

// DefaultOptions returns the options used by the process-wide cache unless
// [Configure] replaced them.
func DefaultOptions() Options {
	return Options{
		Capacity:  defaultCapacity,
		MaxKeyLen: defaultMaxKeyLen,
	}
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Capacity == 0 {
		o.Capacity = defaultCapacity
	}

	if o.MaxKeyLen == 0 {
		o.MaxKeyLen = defaultMaxKeyLen
	}

	if o.Hash == nil {
		o.Hash = Sum
	}

	return o
}

// Validate reports whether o (after defaults are applied) can build a cache.
// Errors wrap [ErrInvalidOptions].
func (o Options) Validate() error {
	o = o.withDefaults()

	if bits.OnesCount64(o.Capacity) != 1 {
		return fmt.Errorf("%w: capacity %d is not a power of two", ErrInvalidOptions, o.Capacity)
	}

	if o.Capacity > maxCapacity {
		return fmt.Errorf("%w: capacity %d exceeds %d", ErrInvalidOptions, o.Capacity, maxCapacity)
	}

	if o.MaxKeyLen < 1 || o.MaxKeyLen > maxKeyLenLimit {
		return fmt.Errorf("%w: max key length %d outside [1, %d]", ErrInvalidOptions, o.MaxKeyLen, maxKeyLenLimit)
	}

	return nil
}
