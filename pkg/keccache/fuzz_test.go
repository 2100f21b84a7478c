package keccache_test

import (
	"testing"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

// Every input, cached or not, must produce the same digest as Sum, on the
// first and on repeated calls.
func FuzzCompute_Matches_Sum(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("abc"))
	f.Add(make([]byte, 20))
	f.Add(make([]byte, 32))
	f.Add(make([]byte, 88))
	f.Add(make([]byte, 89))

	c, err := keccache.New(keccache.Options{Capacity: 8})
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		want := keccache.Sum(input)

		for range 2 {
			if got := c.Compute(input); got != want {
				t.Fatalf("Compute(%x)=%s, want=%s", input, got, want)
			}
		}
	})
}
