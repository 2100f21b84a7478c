package keccache_test

import (
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

func fillRandom(rng *rand.Rand, buf []byte) {
	for i := range buf {
		buf[i] = byte(rng.Uint32())
	}
}

func randomKey(rng *rand.Rand, n int) []byte {
	key := make([]byte, n)
	fillRandom(rng, key)

	return key
}

// countingHash wraps Sum and counts invocations.
type countingHash struct {
	calls atomic.Int64
}

func (h *countingHash) Sum(input []byte) keccache.Digest {
	h.calls.Add(1)

	return keccache.Sum(input)
}

func newTestCache(t *testing.T, opts keccache.Options) *keccache.Cache {
	t.Helper()

	c, err := keccache.New(opts)
	if err != nil {
		t.Fatalf("New(%+v): %v", opts, err)
	}

	return c
}

// findSlotCollision returns a keyLen-byte key, different from key, that maps
// to the same slot in c.
func findSlotCollision(t *testing.T, c *keccache.Cache, key []byte, keyLen int) []byte {
	t.Helper()

	want := keccache.SlotIndexForTesting(c, key)
	rng := rand.New(rand.NewPCG(uint64(keyLen), want))

	for range 1_000_000 {
		candidate := randomKey(rng, keyLen)
		if string(candidate) == string(key) {
			continue
		}

		if keccache.SlotIndexForTesting(c, candidate) == want {
			return candidate
		}
	}

	t.Fatalf("no slot collision found for %x", key)

	return nil
}
