package cache

// prefetchState is the stride prefetcher's three-word state: the last
// demand-missed block address, the pending stride magnitude, and its sign.
// Initial values are all zero/positive, matching the original source's
// "never fires on the very first miss" behavior (see DESIGN.md).
type prefetchState struct {
	lastMissBlock uint64
	pendingStride uint64
	strideSign    bool
}

func newPrefetchState() prefetchState {
	return prefetchState{lastMissBlock: 0, pendingStride: 0, strideSign: true}
}

// prefetchOutcome reports what the prefetcher did on one demand miss, so the
// access engine can fold it into the per-access delta.
type prefetchOutcome struct {
	blocksCharged    uint64
	writebacks       uint64
	usefulPrefetches uint64
}

// onDemandMiss runs the stride detection/issue algorithm for one demand
// miss at byte address addr. It is only meaningful to call this when K > 0
// and the current access incurred a demand miss (a VC hit still counts as a
// miss for this purpose, per spec.md §4.5).
func (p *prefetchState) onDemandMiss(g Geometry, k uint64, sets []*set, vb *victimBuffer, addr uint64) prefetchOutcome {
	var out prefetchOutcome

	cur := g.blockAddress(addr)
	sign := cur > p.lastMissBlock
	var d uint64
	if sign {
		d = cur - p.lastMissBlock
	} else {
		d = p.lastMissBlock - cur
	}

	if sign == p.strideSign && d == p.pendingStride {
		// Charged unconditionally: the counter records issued prefetches,
		// not installed ones (spec.md §4.5 step 1, §9 Open Questions #1).
		out.blocksCharged += k

		for i := uint64(1); i <= k; i++ {
			var pAddr uint64
			if sign {
				pAddr = cur + i*d
			} else {
				pAddr = cur - i*d
			}
			setIdx, tag := g.decodeBlock(pAddr)
			p.issueOne(sets[setIdx], vb, setIdx, tag, &out)
		}
	}

	p.pendingStride = d
	p.strideSign = sign
	p.lastMissBlock = cur

	return out
}

// issueOne installs one prefetch target (set index, tag) per the three
// cases in spec.md §4.5 step 3: already present, present via victim-buffer
// swap, or a fresh install possibly displacing the current LRU.
func (p *prefetchState) issueOne(s *set, vb *victimBuffer, setIdx int, tag uint64, out *prefetchOutcome) {
	if s.find(tag) >= 0 {
		return
	}

	if vb.capacity > 0 {
		if vcPos := vb.find(setIdx, tag); vcPos >= 0 {
			victim := vb.lines[vcPos]
			displaced := *s.peekLRU()
			s.popLRU()
			vb.replaceAt(vcPos, displaced.toVictim(setIdx))
			installed := victim.toCacheLine()
			installed.Prefetched = true
			s.insertLRU(installed)
			return
		}
	}

	if vb.capacity == 0 {
		if s.isFull() {
			evicted := s.popLRU()
			if evicted.Dirty {
				out.writebacks++
			}
		}
		s.insertLRU(CacheLine{Tag: tag, Dirty: false, Prefetched: true})
		return
	}

	if s.isFull() && vb.isFull() {
		oldest := vb.popOldest()
		if oldest.Dirty {
			out.writebacks++
		}
	}
	if s.isFull() {
		evicted := s.popLRU()
		vb.pushNewest(evicted.toVictim(setIdx))
	}
	s.insertLRU(CacheLine{Tag: tag, Dirty: false, Prefetched: true})
}
