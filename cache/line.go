package cache

// CacheLine is a single L1 cache block. The set owns its lines exclusively;
// moving a line to the victim buffer is a transfer, not a copy.
type CacheLine struct {
	Tag uint64
	// Dirty is true if the line has been written since it was installed.
	Dirty bool
	// Prefetched is true iff the line was installed by the prefetcher and
	// has not yet been touched by a demand access.
	Prefetched bool
}

// VictimLine is a single victim-buffer entry. SetIndex is required because
// the victim buffer is fully associative across all sets.
type VictimLine struct {
	Tag        uint64
	SetIndex   int
	Dirty      bool
	Prefetched bool
}

// toVictim transfers an evicted CacheLine into a VictimLine tagged with the
// set it came from, preserving its dirty and prefetched flags.
func (l CacheLine) toVictim(setIndex int) VictimLine {
	return VictimLine{
		Tag:        l.Tag,
		SetIndex:   setIndex,
		Dirty:      l.Dirty,
		Prefetched: l.Prefetched,
	}
}

// toCacheLine transfers a victim entry back into the L1 set, dropping the
// set-index field (the set itself carries that information implicitly).
func (v VictimLine) toCacheLine() CacheLine {
	return CacheLine{
		Tag:        v.Tag,
		Dirty:      v.Dirty,
		Prefetched: v.Prefetched,
	}
}
