package keccache

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Stats is a point-in-time snapshot of a cache's counters.
//
// Counters are updated independently, so a snapshot taken while other
// goroutines hash may be slightly inconsistent across fields.
type Stats struct {
	// Hits counts lookups answered from the table.
	Hits uint64 `json:"hits"`
	// Misses counts eligible lookups that had to compute the digest.
	Misses uint64 `json:"misses"`
	// Writes counts (key, digest) pairs published to the table.
	Writes uint64 `json:"writes"`
	// Evictions counts writes that replaced a different resident key.
	Evictions uint64 `json:"evictions"`
	// Dropped counts misses whose write-back claim failed because another
	// goroutine owned the slot.
	Dropped uint64 `json:"dropped"`
	// Empty counts calls with empty input (answered with EmptyDigest).
	Empty uint64 `json:"empty"`
	// Oversized counts calls whose input exceeded MaxKeyLen.
	Oversized uint64 `json:"oversized"`

	// Per-class counters for the two hottest input sizes: 20-byte
	// addresses and 32-byte words.
	Hits20   uint64 `json:"hits_20"`
	Hits32   uint64 `json:"hits_32"`
	Misses20 uint64 `json:"misses_20"`
	Misses32 uint64 `json:"misses_32"`
}

// Lookups returns the number of calls that probed the table.
func (s Stats) Lookups() uint64 {
	return s.Hits + s.Misses
}

// Bypassed returns the number of calls that never touched the table.
func (s Stats) Bypassed() uint64 {
	return s.Empty + s.Oversized
}

// HitRate returns Hits / Lookups, or 0 when nothing was looked up.
func (s Stats) HitRate() float64 {
	lookups := s.Lookups()
	if lookups == 0 {
		return 0
	}

	return float64(s.Hits) / float64(lookups)
}

type statID int

const (
	statHits statID = iota
	statMisses
	statWrites
	statEvictions
	statDropped
	statEmpty
	statOversized
	statHits20
	statHits32
	statMisses20
	statMisses32

	statCount
)

// paddedCounter keeps each counter on its own cache line so goroutines
// bumping different counters do not false-share.
type paddedCounter struct {
	n atomic.Uint64
	_ cpu.CacheLinePad
}

// counters is nil when stats are disabled; every method is a no-op on a nil
// receiver.
type counters struct {
	c [statCount]paddedCounter
}

func (s *counters) inc(id statID) {
	if s == nil {
		return
	}

	s.c[id].n.Add(1)
}

func (s *counters) hit(keyLen int) {
	if s == nil {
		return
	}

	s.c[statHits].n.Add(1)

	switch keyLen {
	case 20:
		s.c[statHits20].n.Add(1)
	case 32:
		s.c[statHits32].n.Add(1)
	}
}

func (s *counters) miss(keyLen int) {
	if s == nil {
		return
	}

	s.c[statMisses].n.Add(1)

	switch keyLen {
	case 20:
		s.c[statMisses20].n.Add(1)
	case 32:
		s.c[statMisses32].n.Add(1)
	}
}

func (s *counters) snapshot() Stats {
	if s == nil {
		return Stats{}
	}

	return Stats{
		Hits:      s.c[statHits].n.Load(),
		Misses:    s.c[statMisses].n.Load(),
		Writes:    s.c[statWrites].n.Load(),
		Evictions: s.c[statEvictions].n.Load(),
		Dropped:   s.c[statDropped].n.Load(),
		Empty:     s.c[statEmpty].n.Load(),
		Oversized: s.c[statOversized].n.Load(),
		Hits20:    s.c[statHits20].n.Load(),
		Hits32:    s.c[statHits32].n.Load(),
		Misses20:  s.c[statMisses20].n.Load(),
		Misses32:  s.c[statMisses32].n.Load(),
	}
}

func (s *counters) reset() {
	if s == nil {
		return
	}

	for i := range s.c {
		s.c[i].n.Store(0)
	}
}
