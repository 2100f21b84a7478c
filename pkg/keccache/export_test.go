package keccache

// Export internal functions and variables for testing.
// This file is only compiled during tests.

// FingerprintForTesting exposes the slot-placement hash.
func FingerprintForTesting(key []byte) uint64 {
	return fingerprint(key)
}

// SlotIndexForTesting returns the slot key would be placed in.
func SlotIndexForTesting(c *Cache, key []byte) uint64 {
	return c.table.slotIndex(fingerprint(key))
}

// DenyClaimsForTesting replaces the claim primitive with one that always
// fails, simulating a table where every slot is permanently contended.
func DenyClaimsForTesting(c *Cache) {
	c.table.claim = func(*slotTag, uint64) bool { return false }
}

// HoldSlotForTesting claims the slot key maps to and returns a release
// function. While held, every other claim on that slot fails.
func HoldSlotForTesting(c *Cache, key []byte) (release func(), ok bool) {
	idx := c.table.slotIndex(fingerprint(key))
	tag := c.table.observe(idx)

	if !c.table.tryClaim(idx, tag) {
		return nil, false
	}

	return func() { c.table.releaseUnchanged(idx, tag) }, true
}

// ResetDefaultForTesting drops the process-wide cache and its options so the
// next Default call builds a fresh one. Tests using it must not run in
// parallel with anything that touches the default cache.
func ResetDefaultForTesting() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultOpts = DefaultOptions()
	defaultCache.Store(nil)
}

const (
	EmptyTagForTesting       = emptyTag
	LockBitForTesting        = lockBit
	MaxKeyLenLimitForTesting = maxKeyLenLimit
	MaxCapacityForTesting    = maxCapacity
)

// TagForTesting exposes tag derivation.
func TagForTesting(fp uint64) uint64 {
	return tagFor(fp)
}

// TryLockForTesting runs one claim attempt on a detached tag word holding
// current and reports the outcome and the word's value afterwards.
func TryLockForTesting(current, expected uint64) (bool, uint64) {
	var t slotTag

	t.v.Store(current)
	ok := t.tryLock(expected)

	return ok, t.load()
}
