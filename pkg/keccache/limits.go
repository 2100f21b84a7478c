package keccache

// Hardcoded implementation limits.
//
// Violations are configuration errors and return ErrInvalidOptions.
const (
	// Size of the inline key buffer in every slot, and therefore the largest
	// MaxKeyLen that can be configured. 88 bytes covers addresses, words
	// and two-word mapping keys with room to spare.
	maxKeyLenLimit = 88

	// Largest allowed table capacity (number of slots). Each slot is
	// 136 bytes, so this bounds a single table to roughly 2 GiB.
	maxCapacity = uint64(1) << 24

	defaultCapacity = uint64(1) << 16

	defaultMaxKeyLen = maxKeyLenLimit
)
