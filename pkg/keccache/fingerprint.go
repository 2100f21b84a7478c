package keccache

import (
	"encoding/binary"
	"math/bits"
)

// Fingerprint seeds and per-word constants (hex digits of pi). All odd.
const (
	fpSeed0 uint64 = 0x243f6a8885a308d3
	fpSeed1 uint64 = 0x13198a2e03707345
)

var fpRound = [4]uint64{
	0xa4093822299f31d1,
	0x082efa98ec4e6c89,
	0x452821e638d01377,
	0xbe5466cf34e90c6d,
}

// foldedMultiply multiplies a and b into 128 bits and xors the halves.
func foldedMultiply(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)

	return hi ^ lo
}

// fingerprint is a fast non-cryptographic 64-bit hash of key.
//
// It decides slot placement and pre-filters comparisons; equality is always
// confirmed byte-for-byte. Tails shorter than a word are read with
// overlapping loads so nothing past len(key) is touched.
func fingerprint(key []byte) uint64 {
	n := len(key)
	acc := fpSeed0

	i := 0
	for ; n-i >= 8; i += 8 {
		w := binary.LittleEndian.Uint64(key[i:])
		acc = foldedMultiply(acc^w, fpSeed1^fpRound[(i>>3)&3])
	}

	if rem := n - i; rem > 0 {
		var lo, hi uint64

		switch {
		case n >= 8:
			// Last full word, overlapping bytes already mixed.
			lo = binary.LittleEndian.Uint64(key[n-8:])
		case rem >= 4:
			lo = uint64(binary.LittleEndian.Uint32(key))
			hi = uint64(binary.LittleEndian.Uint32(key[n-4:]))
		default:
			lo = uint64(key[0])<<16 | uint64(key[rem/2])<<8 | uint64(key[rem-1])
		}

		acc = foldedMultiply(acc^lo, fpSeed1^hi^fpRound[((i>>3)+1)&3])
	}

	return foldedMultiply(acc^uint64(n), fpSeed0^fpRound[3])
}
