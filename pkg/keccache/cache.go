package keccache

// Cache memoizes digests of short inputs in a fixed, direct-mapped table.
//
// All methods are safe for concurrent use and never block. A Cache must be
// obtained via [New] or [Default]; the zero value is not usable.
type Cache struct {
	_ [0]func() // prevent external construction

	table     *table
	maxKeyLen int
	hash      HashFunc
	empty     Digest
	stats     *counters
}

// New builds a cache from opts. Zero fields take their defaults.
//
// Possible errors: [ErrInvalidOptions].
func New(opts Options) (*Cache, error) {
	err := opts.Validate()
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	c := &Cache{
		table:     newTable(opts.Capacity),
		maxKeyLen: opts.MaxKeyLen,
		hash:      opts.Hash,
		empty:     opts.Hash(nil),
	}

	if opts.TrackStats {
		c.stats = &counters{}
	}

	return c, nil
}

// Compute returns the digest of input, from the table when possible.
//
// Empty input returns a digest computed once at construction ([EmptyDigest]
// for the default hash) without fingerprinting or probing the table.
//
// The result is always identical to the configured hash function's output
// for input; cache state only affects how long the call takes. Compute
// never retries or waits: losing a claim to another goroutine is handled as
// a miss.
func (c *Cache) Compute(input []byte) Digest {
	n := len(input)

	if n == 0 {
		c.stats.inc(statEmpty)

		return c.empty
	}

	if n > c.maxKeyLen {
		c.stats.inc(statOversized)

		return c.hash(input)
	}

	fp := fingerprint(input)
	idx := c.table.slotIndex(fp)
	tag := tagFor(fp)

	// Optimistic claim: succeeds only if the slot is unlocked and holds a
	// key with our fingerprint.
	if c.table.tryClaim(idx, tag) {
		if digest, ok := c.table.readIfMatch(idx, input); ok {
			c.table.releaseUnchanged(idx, tag)
			c.stats.hit(n)

			return digest
		}

		// Full fingerprint collision with a different key. We already own
		// the slot, so replace it.
		digest := c.hash(input)

		c.table.writeAndRelease(idx, input, digest, tag)
		c.stats.inc(statWrites)
		c.stats.inc(statEvictions)
		c.stats.miss(n)

		return digest
	}

	digest := c.hash(input)

	// One opportunistic attempt to publish the fresh digest over whatever
	// the slot holds now. A locked slot fails the claim outright.
	observed := c.table.observe(idx)
	if c.table.tryClaim(idx, observed) {
		c.table.writeAndRelease(idx, input, digest, tag)
		c.stats.inc(statWrites)

		if isOccupied(observed) {
			c.stats.inc(statEvictions)
		}
	} else {
		c.stats.inc(statDropped)
	}

	c.stats.miss(n)

	return digest
}

// ComputeUncached returns the digest of input without touching the table
// or the counters.
func (c *Cache) ComputeUncached(input []byte) Digest {
	return c.hash(input)
}

// Stats returns a snapshot of the counters. It is the zero value when the
// cache was built without [Options.TrackStats].
func (c *Cache) Stats() Stats {
	return c.stats.snapshot()
}

// TracksStats reports whether the cache was built with [Options.TrackStats].
func (c *Cache) TracksStats() bool {
	return c.stats != nil
}

// ResetStats zeroes all counters.
func (c *Cache) ResetStats() {
	c.stats.reset()
}

// Capacity returns the number of slots.
func (c *Cache) Capacity() uint64 {
	return c.table.capacity()
}

// MaxKeyLen returns the longest input length that is cached.
func (c *Cache) MaxKeyLen() int {
	return c.maxKeyLen
}

// Len returns the number of occupied slots.
//
// The count is read from the tags alone and is a moving target while other
// goroutines hash.
func (c *Cache) Len() int {
	n := 0

	for idx := range c.table.capacity() {
		if isOccupied(c.table.observe(idx)) {
			n++
		}
	}

	return n
}

// LenByKeyLen returns the number of occupied slots holding a keyLen-byte key.
//
// Each slot is claimed briefly to read its length; slots owned by another
// goroutine at that instant are not counted.
func (c *Cache) LenByKeyLen(keyLen int) int {
	if keyLen < 1 || keyLen > c.maxKeyLen {
		return 0
	}

	n := 0

	for idx := range c.table.capacity() {
		tag := c.table.observe(idx)
		if !isOccupied(tag) || !c.table.tryClaim(idx, tag) {
			continue
		}

		if c.table.storedKeyLen(idx) == keyLen {
			n++
		}

		c.table.releaseUnchanged(idx, tag)
	}

	return n
}

// Clear empties the table.
//
// Slots that another goroutine owns at that instant are skipped, so entries
// written concurrently with Clear may survive. On a quiescent cache every
// slot ends up empty. Counters are not touched; see [Cache.ResetStats].
func (c *Cache) Clear() {
	for idx := range c.table.capacity() {
		tag := c.table.observe(idx)
		if tag == emptyTag || !c.table.tryClaim(idx, tag) {
			continue
		}

		c.table.reset(idx)
	}
}
