package keccache

import "sync/atomic"

// Tag layout (64 bits):
//
//	bit 0      lock bit, set while one goroutine owns the slot
//	bit 1      occupied bit, set in every tag derived from a fingerprint
//	bits 2-63  fingerprint bits 2-63
//
// Fingerprint bits 0 and 1 are dropped. They are never needed to tell two
// keys apart: the low fingerprint bits select the slot, so every key that
// can land in a slot already agrees on them.
const (
	lockBit     uint64 = 1 << 0
	occupiedBit uint64 = 1 << 1

	// emptyTag marks a slot that has never been written (or was cleared).
	// It has the occupied bit clear, so it can never equal tagFor(fp), and
	// the lock bit clear, so it can never equal a locked tag.
	emptyTag uint64 = 0
)

// tagFor returns the unlocked tag for a slot holding a key with fingerprint fp.
func tagFor(fp uint64) uint64 {
	return fp&^lockBit | occupiedBit
}

func isLocked(tag uint64) bool {
	return tag&lockBit != 0
}

func isOccupied(tag uint64) bool {
	return tag&occupiedBit != 0
}

// slotTag is the synchronization word of one slot. It acts as a one-bit
// mutex that is only ever try-locked:
//
//	Unlocked(T) --tryLock(T)--> Locked(T|lockBit) --unlock(T')--> Unlocked(T')
//
// Only the goroutine whose tryLock succeeded may call unlock, and it must
// always do so, whether or not it changed the slot. Slot content written
// before unlock is visible to whoever wins the next tryLock.
type slotTag struct {
	v atomic.Uint64
}

func (t *slotTag) load() uint64 {
	return t.v.Load()
}

// tryLock claims the slot if its tag is exactly expected. An expected value
// with the lock bit set always fails: nobody can claim a claimed slot.
func (t *slotTag) tryLock(expected uint64) bool {
	if isLocked(expected) {
		return false
	}

	return t.v.CompareAndSwap(expected, expected|lockBit)
}

// unlock publishes tag (with the lock bit cleared) and ends the critical
// section.
func (t *slotTag) unlock(tag uint64) {
	t.v.Store(tag &^ lockBit)
}
