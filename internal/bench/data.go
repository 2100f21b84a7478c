// Package bench drives reproducible workloads through a keccache.Cache and
// records per-scenario timings and counter deltas.
package bench

import "fmt"

// RandomBytes returns n bytes from an xorshift64 generator seeded with seed.
// A zero seed yields n zero bytes.
func RandomBytes(n int, seed uint64) []byte {
	out := make([]byte, n)
	state := seed

	for i := range out {
		state = xorshift64(state)
		out[i] = byte(state)
	}

	return out
}

func xorshift64(state uint64) uint64 {
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17

	return state
}

// Default dataset sizes.
const (
	DefaultAddresses  = 5000
	DefaultWords      = 5000
	DefaultIterations = 100_000
)

// Dataset is the fixed input population scenarios draw from: 20-byte
// addresses and 32-byte storage words.
type Dataset struct {
	Addresses [][]byte
	Words     [][]byte
}

// CheckSizes rejects negative dataset or iteration counts.
//
// Possible errors: [ErrInvalidSize].
func CheckSizes(addresses, words, iterations int) error {
	for _, s := range []struct {
		name string
		n    int
	}{
		{"addresses", addresses},
		{"words", words},
		{"iterations", iterations},
	} {
		if s.n < 0 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidSize, s.name, s.n)
		}
	}

	return nil
}

// NewDataset generates a deterministic dataset. The same sizes always
// produce the same bytes. Negative sizes are treated as zero.
func NewDataset(addresses, words int) Dataset {
	addresses = max(addresses, 0)
	words = max(words, 0)

	ds := Dataset{
		Addresses: make([][]byte, addresses),
		Words:     make([][]byte, words),
	}

	for i := range ds.Addresses {
		ds.Addresses[i] = RandomBytes(20, uint64(i)*31337)
	}

	for i := range ds.Words {
		ds.Words[i] = RandomBytes(32, uint64(i)*31337+1_000_000)
	}

	return ds
}

// Hot-set sizes for the mixed workload: most traffic touches a small set of
// accounts and slots.
const (
	hotAddresses = 100
	hotWords     = 200
)

// MixedWorkload returns iterations inputs, alternating pseudo-randomly between
// the first hotAddresses addresses and the first hotWords words.
func MixedWorkload(ds Dataset, iterations int) [][]byte {
	if iterations <= 0 || len(ds.Addresses) == 0 || len(ds.Words) == 0 {
		return nil
	}

	out := make([][]byte, 0, iterations)
	state := uint64(12345)

	for range iterations {
		state = xorshift64(state)

		if state%2 == 0 {
			idx := min(int((state>>8)%hotAddresses), len(ds.Addresses)-1)
			out = append(out, ds.Addresses[idx])
		} else {
			idx := min(int((state>>8)%hotWords), len(ds.Words)-1)
			out = append(out, ds.Words[idx])
		}
	}

	return out
}
