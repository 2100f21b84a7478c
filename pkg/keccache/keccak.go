package keccache

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/sha3"
)

// DigestSize is the length of a Keccak-256 digest in bytes.
const DigestSize = 32

// Digest is a Keccak-256 output.
type Digest [DigestSize]byte

// EmptyDigest is the Keccak-256 digest of the empty input.
var EmptyDigest = Digest{
	0xc5, 0xd2, 0x46, 0x01, 0x86, 0xf7, 0x23, 0x3c,
	0x92, 0x7e, 0x7d, 0xb2, 0xdc, 0xc7, 0x03, 0xc0,
	0xe5, 0x00, 0xb6, 0x53, 0xca, 0x82, 0x27, 0x3b,
	0x7b, 0xfa, 0xd8, 0x04, 0x5d, 0x85, 0xa4, 0x70,
}

// Hex returns the digest as a 0x-prefixed lowercase hex string.
func (d Digest) Hex() string {
	var buf [2 + 2*DigestSize]byte

	buf[0] = '0'
	buf[1] = 'x'
	hex.Encode(buf[2:], d[:])

	return string(buf[:])
}

// String implements [fmt.Stringer].
func (d Digest) String() string {
	return d.Hex()
}

// CutHexPrefix returns s without a leading "0x" or "0X" and reports whether
// one was present.
func CutHexPrefix(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}

	return s, false
}

// ParseDigest parses a 64-character hex string, with or without a 0x prefix.
func ParseDigest(s string) (Digest, error) {
	raw, _ := CutHexPrefix(s)
	if len(raw) != 2*DigestSize {
		return Digest{}, fmt.Errorf("parse digest %q: want %d hex chars, got %d", s, 2*DigestSize, len(raw))
	}

	var d Digest

	_, err := hex.Decode(d[:], []byte(raw))
	if err != nil {
		return Digest{}, fmt.Errorf("parse digest %q: %w", s, err)
	}

	return d, nil
}

// HashFunc computes a digest. Implementations must be pure: the same input
// always yields the same digest.
type HashFunc func(input []byte) Digest

// keccakHasher pairs a reusable sponge with an output buffer so Sum can
// finalize without allocating. The x/crypto sponge also implements
// io.Reader; squeezing through it skips the state clone hash.Hash.Sum makes.
type keccakHasher struct {
	h   hash.Hash
	r   io.Reader
	out Digest
}

func newKeccakHasher() *keccakHasher {
	h := sha3.NewLegacyKeccak256()
	r, _ := h.(io.Reader)

	return &keccakHasher{h: h, r: r}
}

var keccakPool = sync.Pool{
	New: func() any {
		return newKeccakHasher()
	},
}

// Sum returns the Keccak-256 digest of input, always computing it.
//
// This is the original (pre-NIST) Keccak padding used by Ethereum, not
// SHA3-256.
func Sum(input []byte) Digest {
	kh, _ := keccakPool.Get().(*keccakHasher)
	if kh == nil {
		kh = newKeccakHasher()
	}

	kh.h.Reset()
	_, _ = kh.h.Write(input)

	if kh.r != nil {
		_, _ = kh.r.Read(kh.out[:])
	} else {
		kh.h.Sum(kh.out[:0])
	}

	d := kh.out

	keccakPool.Put(kh)

	return d
}
