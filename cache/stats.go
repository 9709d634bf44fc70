package cache

// Counters accumulates the raw per-access deltas across an entire run.
// Overflow wraps per Go's normal uint64 semantics, which is well-defined and
// not expected to matter at realistic trace sizes (spec.md §7).
type Counters struct {
	Reads               uint64
	Writes              uint64
	ReadMisses          uint64
	WriteMisses         uint64
	ReadMissesCombined  uint64
	WriteMissesCombined uint64
	WriteBacks          uint64
	PrefetchedBlocks    uint64
	UsefulPrefetches    uint64
}

// delta is the per-access outcome the engine produces; Access folds it into
// Counters (via apply) based on the access's rw tag.
type delta struct {
	misses           uint64
	vcMisses         uint64
	writebacks       uint64
	usefulPrefetches uint64
	prefetchBlocks   uint64
}

func (c *Counters) apply(rw RW, d delta) {
	switch rw {
	case Read:
		c.Reads++
		c.ReadMisses += d.misses
		c.ReadMissesCombined += d.vcMisses
	case Write:
		c.Writes++
		c.WriteMisses += d.misses
		c.WriteMissesCombined += d.vcMisses
	default:
		return
	}
	c.WriteBacks += d.writebacks
	c.PrefetchedBlocks += d.prefetchBlocks
	c.UsefulPrefetches += d.usefulPrefetches
}

// Stats is the full counter bundle returned by Finalize, including the
// quantities derived in spec.md §4.6.
type Stats struct {
	Accesses            uint64
	Reads               uint64
	ReadMisses          uint64
	ReadMissesCombined  uint64
	Writes              uint64
	WriteMisses         uint64
	WriteMissesCombined uint64
	Misses              uint64
	WriteBacks          uint64
	VCMisses            uint64
	PrefetchedBlocks    uint64
	UsefulPrefetches    uint64
	BytesTransferred    uint64

	HitTime       float64
	MissPenalty   uint64
	MissRate      float64
	AvgAccessTime float64
}

// finalize derives the Stats bundle for the given geometry and accumulated
// counters, per spec.md §4.6. hit_time and the AAT formula depend on S; the
// combined (vc_misses) rate is used for AAT so that victim-buffer hits are
// charged at hit_time, not miss_penalty.
func finalize(g Geometry, c Counters) Stats {
	s := Stats{
		Accesses:            c.Reads + c.Writes,
		Reads:               c.Reads,
		ReadMisses:          c.ReadMisses,
		ReadMissesCombined:  c.ReadMissesCombined,
		Writes:              c.Writes,
		WriteMisses:         c.WriteMisses,
		WriteMissesCombined: c.WriteMissesCombined,
		WriteBacks:          c.WriteBacks,
		PrefetchedBlocks:    c.PrefetchedBlocks,
		UsefulPrefetches:    c.UsefulPrefetches,
	}
	s.Misses = s.ReadMisses + s.WriteMisses
	s.VCMisses = s.ReadMissesCombined + s.WriteMissesCombined
	s.BytesTransferred = g.BlockSize() * (s.VCMisses + s.WriteBacks + s.PrefetchedBlocks)

	s.HitTime = 2 + 0.2*float64(g.S)
	s.MissPenalty = 200

	if s.Accesses > 0 {
		s.MissRate = float64(s.Misses) / float64(s.Accesses)
		vcMissRate := float64(s.VCMisses) / float64(s.Accesses)
		s.AvgAccessTime = s.HitTime + vcMissRate*s.MissPenalty
	}

	return s
}
