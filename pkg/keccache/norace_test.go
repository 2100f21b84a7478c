//go:build !race

package keccache_test

const raceEnabled = false
