package keccache_test

import (
	"math/rand/v2"
	"testing"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

func Test_Fingerprint_Is_Deterministic_When_Called_Repeatedly(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))

	for n := 0; n <= 128; n++ {
		key := make([]byte, n)
		fillRandom(rng, key)

		a := keccache.FingerprintForTesting(key)
		b := keccache.FingerprintForTesting(append([]byte(nil), key...))

		if a != b {
			t.Fatalf("len=%d: fingerprint differs between identical inputs: %#x vs %#x", n, a, b)
		}
	}
}

func Test_Fingerprint_Diverges_When_Only_Length_Differs(t *testing.T) {
	t.Parallel()

	// All-zero keys of every length share their bytes; only the length
	// folding can tell them apart.
	seen := make(map[uint64]int)

	for n := 0; n <= 256; n++ {
		fp := keccache.FingerprintForTesting(make([]byte, n))
		if prev, dup := seen[fp]; dup {
			t.Fatalf("zero keys of len %d and %d share fingerprint %#x", prev, n, fp)
		}

		seen[fp] = n
	}
}

func Test_Fingerprint_Changes_When_Any_Single_Byte_Flips(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))

	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 20, 31, 32, 33, 64, 88} {
		key := make([]byte, n)
		fillRandom(rng, key)

		base := keccache.FingerprintForTesting(key)

		for i := range n {
			key[i] ^= 0x01

			if keccache.FingerprintForTesting(key) == base {
				t.Fatalf("len=%d: flipping byte %d did not change fingerprint", n, i)
			}

			key[i] ^= 0x01
		}
	}
}

func Test_Fingerprint_Does_Not_Read_Past_End_When_Slice_Has_Spare_Capacity(t *testing.T) {
	t.Parallel()

	// Two buffers with identical visible bytes but different garbage past
	// len must fingerprint identically.
	for n := range 24 {
		a := make([]byte, n, n+16)
		b := make([]byte, n, n+16)

		for i := range 16 {
			a[:n+16][n+i] = 0xAA
			b[:n+16][n+i] = 0x55
		}

		if fa, fb := keccache.FingerprintForTesting(a), keccache.FingerprintForTesting(b); fa != fb {
			t.Fatalf("len=%d: fingerprint depends on bytes past len: %#x vs %#x", n, fa, fb)
		}
	}
}

func Test_Fingerprint_Spreads_Keys_When_Masked_To_Slot_Index(t *testing.T) {
	t.Parallel()

	const (
		buckets = 1 << 10
		keys    = buckets * 64
	)

	rng := rand.New(rand.NewPCG(5, 6))
	counts := make([]int, buckets)

	// Sequential 20-byte addresses are the realistic worst case: they share
	// all but a few bytes.
	key := make([]byte, 20)
	fillRandom(rng, key)

	for i := range keys {
		key[16] = byte(i >> 24)
		key[17] = byte(i >> 16)
		key[18] = byte(i >> 8)
		key[19] = byte(i)

		counts[keccache.FingerprintForTesting(key)&(buckets-1)]++
	}

	// Expected 64 per bucket; a healthy hash stays well inside 2x.
	for b, c := range counts {
		if c == 0 || c > 128 {
			t.Fatalf("bucket %d has %d keys (expected ~64)", b, c)
		}
	}
}
