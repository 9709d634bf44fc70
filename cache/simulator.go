package cache

import "fmt"

// RW is the two-valued tag naming a reference as a load or a store.
type RW byte

const (
	// Read marks a load reference.
	Read RW = 'r'
	// Write marks a store reference.
	Write RW = 'w'
)

// Simulator is a single cache instance: its sets, victim buffer, prefetcher
// state, and counter bundle. It owns all of its storage; nothing is shared
// across instances, so multiple Simulators may run concurrently provided
// each is driven by its own goroutine (the access path itself is not
// internally synchronized — see spec.md §5).
type Simulator struct {
	geometry Geometry
	sets     []*set
	victim   *victimBuffer
	prefetch prefetchState
	counters Counters

	checkInvariants bool
}

// Init constructs a new Simulator with the given geometry. It panics if the
// geometry violates the constraints in spec.md §3 (C >= B+S); geometry
// violations are a programmer error, not a recoverable condition.
func Init(g Geometry) *Simulator {
	if err := g.Validate(); err != nil {
		panic(err)
	}

	numSets := g.NumSets()
	assoc := g.Assoc()
	sets := make([]*set, numSets)
	for i := range sets {
		sets[i] = newSet(assoc)
	}

	return &Simulator{
		geometry: g,
		sets:     sets,
		victim:   newVictimBuffer(int(g.V)),
		prefetch: newPrefetchState(),
	}
}

// EnableInvariantChecks turns on the debug-build assertion described in
// DESIGN.md Open Question #2: on a VC hit, the L1 set must be full. The
// original source assumes this and never checks it; Simulator preserves
// that unchecked-by-default behavior and only pays for the check when a
// caller opts in (e.g. from tests).
func (s *Simulator) EnableInvariantChecks() {
	s.checkInvariants = true
}

// Geometry returns the simulator's immutable geometry.
func (s *Simulator) Geometry() Geometry {
	return s.geometry
}

// Access applies one reference to the simulator. An rw value other than
// Read or Write is silently ignored — no counters are updated — per
// spec.md §7: malformed references are expected to be rejected upstream by
// the trace parser, and the core stays transparent to whatever slips
// through.
func (s *Simulator) Access(rw RW, address uint64) {
	if rw != Read && rw != Write {
		return
	}

	d := s.access(rw, address)
	s.counters.apply(rw, d)
}

// Finalize computes the derived statistics and returns the full counter
// bundle. It does not reset the simulator; calling Access afterward keeps
// accumulating into the same Counters.
func (s *Simulator) Finalize() Stats {
	return finalize(s.geometry, s.counters)
}

// access is the Access Engine: the demand-path transition described in
// spec.md §4.4, followed by the prefetcher invocation from §4.5.
func (s *Simulator) access(rw RW, address uint64) delta {
	setIdx, tag := s.geometry.decode(address)
	set := s.sets[setIdx]

	var d delta

	if pos := set.find(tag); pos >= 0 {
		d.usefulPrefetches = s.hit(set, pos, rw)
		return d
	}

	d.misses = 1

	if s.geometry.V == 0 {
		s.missNoVC(set, tag, rw, &d)
	} else {
		s.missWithVC(set, setIdx, tag, rw, &d)
	}

	if s.geometry.K > 0 {
		out := s.prefetch.onDemandMiss(s.geometry, s.geometry.K, s.sets, s.victim, address)
		d.prefetchBlocks += out.blocksCharged
		d.writebacks += out.writebacks
		d.usefulPrefetches += out.usefulPrefetches
	}

	return d
}

// hit implements Case H: a demand touch on an already-present line. It
// returns 1 if this touch turned a speculative line into a normal one
// (charged to useful_prefetches), 0 otherwise.
func (s *Simulator) hit(set *set, pos int, rw RW) uint64 {
	line := set.at(pos)
	var useful uint64
	if line.Prefetched {
		line.Prefetched = false
		useful = 1
	}
	if rw == Write {
		line.Dirty = true
	}
	set.promote(pos)
	return useful
}

// missNoVC implements Case M-noVC: an L1 miss with the victim buffer
// disabled.
func (s *Simulator) missNoVC(set *set, tag uint64, rw RW, d *delta) {
	d.vcMisses = 1

	if set.isFull() {
		evicted := set.popLRU()
		if evicted.Dirty {
			d.writebacks++
		}
	}

	line := CacheLine{Tag: tag, Dirty: false, Prefetched: false}
	if rw == Write {
		line.Dirty = true
	}
	set.insertMRU(line)
}

// missWithVC implements Case M-VC: an L1 miss with the victim buffer
// enabled, which may resolve as a VC hit or a combined (VC) miss.
func (s *Simulator) missWithVC(set *set, setIdx int, tag uint64, rw RW, d *delta) {
	vcPos := s.victim.find(setIdx, tag)
	if vcPos >= 0 {
		s.vcHit(set, setIdx, vcPos, rw, d)
		return
	}

	d.vcMisses = 1

	if set.isFull() && s.victim.isFull() {
		oldest := s.victim.popOldest()
		if oldest.Dirty {
			d.writebacks++
		}
	}
	if set.isFull() {
		evicted := set.popLRU()
		s.victim.pushNewest(evicted.toVictim(setIdx))
	}

	line := CacheLine{Tag: tag, Dirty: false, Prefetched: false}
	if rw == Write {
		line.Dirty = true
	}
	set.insertMRU(line)
}

// vcHit implements the VC-hit branch of Case M-VC: the hit victim entry is
// swapped with the L1 set's current LRU line, and the victim line is
// installed at MRU. The L1 set must be full for a VC hit to be possible at
// all (its prior eviction is what put the block in the victim buffer in the
// first place); see DESIGN.md Open Question #2.
func (s *Simulator) vcHit(set *set, setIdx int, vcPos int, rw RW, d *delta) {
	if s.checkInvariants && !set.isFull() {
		panic(fmt.Sprintf("cache: victim-buffer hit in set %d that is not full", setIdx))
	}

	victim := s.victim.lines[vcPos]
	if victim.Prefetched {
		d.usefulPrefetches++
		victim.Prefetched = false
	}
	if rw == Write {
		victim.Dirty = true
	}

	displaced := set.popLRU()
	s.victim.replaceAt(vcPos, displaced.toVictim(setIdx))

	installed := victim.toCacheLine()
	set.insertMRU(installed)
}
