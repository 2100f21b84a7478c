package keccache

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// The process-wide cache. Built at most once, on first use, and never torn
// down. defaultMu serializes construction and Configure; the hot path only
// loads defaultCache.
var (
	defaultMu    sync.Mutex
	defaultOpts  = DefaultOptions()
	defaultCache atomic.Pointer[Cache]
)

// Default returns the process-wide cache, building it on first call.
// Concurrent first calls all observe the same instance.
func Default() *Cache {
	if c := defaultCache.Load(); c != nil {
		return c
	}

	return initDefault()
}

func initDefault() *Cache {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if c := defaultCache.Load(); c != nil {
		return c
	}

	// defaultOpts is validated by Configure, so New cannot fail here.
	c, err := New(defaultOpts)
	if err != nil {
		panic(fmt.Sprintf("keccache: building default cache: %v", err))
	}

	defaultCache.Store(c)

	return c
}

// Configure sets the options of the process-wide cache. It must run before
// the first call to [Default], [Keccak256] or [Keccak256Uncached].
//
// Possible errors: [ErrInvalidOptions], [ErrAlreadyInitialized].
func Configure(opts Options) error {
	err := opts.Validate()
	if err != nil {
		return err
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCache.Load() != nil {
		return ErrAlreadyInitialized
	}

	defaultOpts = opts

	return nil
}

// Keccak256 returns the Keccak-256 digest of input through the process-wide
// cache.
func Keccak256(input []byte) Digest {
	return Default().Compute(input)
}

// Keccak256Uncached returns the same digest as [Keccak256] without touching
// the table. Useful for inputs known to be hashed exactly once.
func Keccak256Uncached(input []byte) Digest {
	return Default().ComputeUncached(input)
}
