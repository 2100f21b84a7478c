// Package keccache memoizes Keccak-256 digests of short byte strings.
//
// Address, selector, and storage-key derivation hash the same handful of
// inputs over and over. keccache keeps a fixed-size, direct-mapped table of
// recent (input, digest) pairs so repeated inputs skip the permutation.
//
// # Basic Usage
//
//	digest := keccache.Keccak256(addr[:])
//
//	// Or with a dedicated table:
//	cache, err := keccache.New(keccache.Options{
//	    Capacity:  1 << 12,
//	    MaxKeyLen: 32,
//	})
//	if err != nil {
//	    // only invalid options fail
//	}
//	digest = cache.Compute(key)
//
// # Concurrency
//
// Every method on [Cache] is safe for concurrent use and never blocks:
//   - each slot is its own one-bit lock, taken with a single compare-and-swap
//   - a goroutine that loses a claim computes the digest itself instead of
//     waiting, so two goroutines may hash the same input at the same time
//   - a result is either a complete published digest or a fresh computation
//
// The cache is lossy by construction. Colliding inputs evict each other and
// contended writes are dropped. None of this changes results, only latency.
//
// # Configuration
//
// The process-wide cache behind [Keccak256] is built on first use from
// [DefaultOptions]. Call [Configure] before that to change capacity or the
// maximum cacheable input length.
package keccache
