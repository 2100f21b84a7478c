//go:build race

package keccache_test

// raceEnabled reports whether the binary was built with -race. The race
// runtime makes sync.Pool drop items at random, so allocation counts are
// meaningless there.
const raceEnabled = true
