package keccache

import "errors"

// Sentinel errors returned by keccache construction.
//
// [Cache.Compute] itself never fails; these only surface from [New] and
// [Configure]. Use [errors.Is] to check them.
var (
	// ErrInvalidOptions indicates [Options] failed validation.
	//
	// The wrapped message names the offending field. This is a programming
	// or configuration error.
	ErrInvalidOptions = errors.New("keccache: invalid options")

	// ErrAlreadyInitialized indicates [Configure] was called after the
	// default cache had already been built by a call to [Default] or
	// [Keccak256].
	//
	// Recovery: call Configure earlier, typically from main before any
	// hashing happens.
	ErrAlreadyInitialized = errors.New("keccache: default cache already initialized")
)
