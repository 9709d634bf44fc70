// Package cache implements a trace-driven set-associative cache simulator
// augmented with a fully-associative victim buffer and a stride-based
// sequential prefetcher.
//
// The package keeps no program data, only tags, metadata, and counters: it
// answers "hit or miss, and what moved" for a stream of addresses, not "what
// value is stored here."
package cache

import "fmt"

// Geometry holds the cache parameters, fixed at construction and immutable
// thereafter.
type Geometry struct {
	// C is log2 of total cache data capacity in bytes.
	C uint64
	// B is log2 of block size in bytes.
	B uint64
	// S is log2 of associativity.
	S uint64
	// V is the victim-buffer capacity in blocks (0 disables it).
	V uint64
	// K is the prefetch distance in blocks (0 disables prefetching).
	K uint64
}

// DefaultGeometry returns the geometry the collaborator driver defaults to
// when no flags are given: a 32KB cache, 32-byte blocks, 8-way set
// associative, a 4-block victim buffer, and a prefetch distance of 2.
func DefaultGeometry() Geometry {
	return Geometry{C: 15, B: 5, S: 3, V: 4, K: 2}
}

// Validate checks the geometry constraints from the data model: C >= B+S,
// B >= 0 (always true for unsigned), and power-of-two-derived set/way
// counts stay representable.
func (g Geometry) Validate() error {
	if g.C < g.B+g.S {
		return fmt.Errorf("cache: invalid geometry C=%d B=%d S=%d: need C >= B+S", g.C, g.B, g.S)
	}
	if g.C-g.B-g.S >= 63 {
		return fmt.Errorf("cache: invalid geometry C=%d B=%d S=%d: set count overflows", g.C, g.B, g.S)
	}
	if g.S >= 63 {
		return fmt.Errorf("cache: invalid geometry S=%d: associativity overflows", g.S)
	}
	return nil
}

// Assoc returns 2^S, the number of ways per set.
func (g Geometry) Assoc() int {
	return 1 << g.S
}

// NumSets returns 2^(C-B-S), the number of sets in the cache.
func (g Geometry) NumSets() int {
	return 1 << (g.C - g.B - g.S)
}

// BlockSize returns 2^B, the size of one block in bytes.
func (g Geometry) BlockSize() uint64 {
	return 1 << g.B
}

// decode maps a 64-bit byte address to its set index and tag under g.
//
// The block offset (low B bits) is discarded. The remaining block address is
// split into a set index (the low log2(NumSets) bits) and a tag (everything
// above the index), exactly as in a conventional set-associative design: the
// tag excludes both the offset and the index bits.
func (g Geometry) decode(address uint64) (setIndex int, tag uint64) {
	numSets := uint64(g.NumSets())
	setIndex = int((address >> g.B) & (numSets - 1))
	tag = address >> (g.C - g.S)
	return setIndex, tag
}

// blockAddress returns a >> B, the address with block-offset bits discarded.
func (g Geometry) blockAddress(address uint64) uint64 {
	return address >> g.B
}

// decodeBlock splits a block address (already shifted by B) into its set
// index and tag, used by the prefetcher to address blocks it synthesizes
// rather than receives as byte addresses.
func (g Geometry) decodeBlock(blockAddr uint64) (setIndex int, tag uint64) {
	numSets := uint64(g.NumSets())
	setIndex = int(blockAddr & (numSets - 1))
	tag = blockAddr >> (g.C - g.S - g.B)
	return setIndex, tag
}
