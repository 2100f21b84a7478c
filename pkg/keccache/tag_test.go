package keccache_test

import (
	"math/rand/v2"
	"testing"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

func Test_Tag_Is_Never_Empty_Or_Locked_When_Derived_From_Fingerprint(t *testing.T) {
	t.Parallel()

	fps := []uint64{0, 1, 2, 3, ^uint64(0), ^uint64(0) - 1, 1 << 63}

	rng := rand.New(rand.NewPCG(21, 22))
	for range 1000 {
		fps = append(fps, rng.Uint64())
	}

	for _, fp := range fps {
		tag := keccache.TagForTesting(fp)

		if tag == keccache.EmptyTagForTesting {
			t.Fatalf("tagFor(%#x) equals the empty tag", fp)
		}

		if tag&keccache.LockBitForTesting != 0 {
			t.Fatalf("tagFor(%#x)=%#x has the lock bit set", fp, tag)
		}
	}
}

func Test_TryLock_Outcome_When_Current_And_Expected_Vary(t *testing.T) {
	t.Parallel()

	occupied := keccache.TagForTesting(0xfeedface_cafebeef)
	other := keccache.TagForTesting(0x0123_4567_89ab_cdef)
	locked := occupied | keccache.LockBitForTesting

	cases := []struct {
		name      string
		current   uint64
		expected  uint64
		wantOK    bool
		wantAfter uint64
	}{
		{"EmptySlot", keccache.EmptyTagForTesting, keccache.EmptyTagForTesting, true, keccache.LockBitForTesting},
		{"MatchingTag", occupied, occupied, true, locked},
		{"DifferentTag", other, occupied, false, other},
		{"AlreadyLocked", locked, occupied, false, locked},
		{"ExpectedLocked", locked, locked, false, locked},
		{"EmptyExpectedOccupied", keccache.EmptyTagForTesting, occupied, false, keccache.EmptyTagForTesting},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ok, after := keccache.TryLockForTesting(tc.current, tc.expected)

			if ok != tc.wantOK {
				t.Fatalf("ok=%v, want=%v", ok, tc.wantOK)
			}

			if after != tc.wantAfter {
				t.Fatalf("after=%#x, want=%#x", after, tc.wantAfter)
			}
		})
	}
}
