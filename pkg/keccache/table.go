package keccache

import "bytes"

// slot is one direct-mapped cache line. key, keyLen and digest are plain
// fields; they are read or written only by the goroutine holding tag's lock
// bit.
type slot struct {
	tag    slotTag
	digest Digest
	keyLen uint8
	key    [maxKeyLenLimit]byte
}

// claimFunc is the only synchronization primitive the table uses. Tests
// swap it to simulate permanent contention.
type claimFunc func(tag *slotTag, expected uint64) bool

// table is a fixed-capacity array of independently lockable slots.
// There is no chaining and no relation between slots.
type table struct {
	slots []slot
	mask  uint64
	claim claimFunc
}

// newTable allocates capacity slots, all starting at emptyTag.
// capacity must be a power of two; Options.Validate checks that once.
func newTable(capacity uint64) *table {
	return &table{
		slots: make([]slot, capacity),
		mask:  capacity - 1,
		claim: (*slotTag).tryLock,
	}
}

func (t *table) capacity() uint64 {
	return uint64(len(t.slots))
}

func (t *table) slotIndex(fp uint64) uint64 {
	return fp & t.mask
}

// observe returns the slot's current tag without claiming it.
func (t *table) observe(idx uint64) uint64 {
	return t.slots[idx].tag.load()
}

// tryClaim attempts one CAS from expected to expected|lockBit.
// A false result means someone else owns or just changed the slot; callers
// must not retry.
func (t *table) tryClaim(idx, expected uint64) bool {
	return t.claim(&t.slots[idx].tag, expected)
}

// readIfMatch returns the stored digest if the slot holds exactly key.
// Only valid between a successful tryClaim and the matching release.
func (t *table) readIfMatch(idx uint64, key []byte) (Digest, bool) {
	s := &t.slots[idx]

	if int(s.keyLen) != len(key) || !bytes.Equal(s.key[:len(key)], key) {
		return Digest{}, false
	}

	return s.digest, true
}

// writeAndRelease stores (key, digest) and publishes newTag, ending the
// claim. The content is visible to the next successful claimer.
func (t *table) writeAndRelease(idx uint64, key []byte, digest Digest, newTag uint64) {
	s := &t.slots[idx]

	copy(s.key[:], key)
	s.keyLen = uint8(len(key)) //nolint:gosec // len(key) <= maxKeyLenLimit, checked by the caller
	s.digest = digest

	s.tag.unlock(newTag)
}

// releaseUnchanged ends a claim without modifying the slot.
func (t *table) releaseUnchanged(idx, tag uint64) {
	t.slots[idx].tag.unlock(tag)
}

// storedKeyLen returns the key length of a claimed slot.
func (t *table) storedKeyLen(idx uint64) int {
	return int(t.slots[idx].keyLen)
}

// reset empties a claimed slot and releases it.
func (t *table) reset(idx uint64) {
	s := &t.slots[idx]

	s.keyLen = 0
	s.digest = Digest{}

	s.tag.unlock(emptyTag)
}
