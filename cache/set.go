package cache

// set is an ordered sequence of at most assoc CacheLine values, front = MRU,
// back = LRU. No two lines in a set may share a tag.
//
// The original C++ source keeps each set as a std::list<CacheNode> and
// splices the hit node to the front on promotion. assoc is small in
// practice (rarely above 64), so a slice with explicit element rotation
// gives the same ordering semantics at lower constant cost and without an
// extra allocation per promote; spec.md's design notes call out that the
// container is not prescribed, only the ordering behavior.
type set struct {
	lines []CacheLine
	assoc int
}

func newSet(assoc int) *set {
	return &set{lines: make([]CacheLine, 0, assoc), assoc: assoc}
}

// find returns the position of the line with the given tag, or -1.
func (s *set) find(tag uint64) int {
	for i := range s.lines {
		if s.lines[i].Tag == tag {
			return i
		}
	}
	return -1
}

// promote moves the line at pos to the front, preserving the relative order
// of the rest.
func (s *set) promote(pos int) {
	if pos == 0 {
		return
	}
	line := s.lines[pos]
	copy(s.lines[1:pos+1], s.lines[0:pos])
	s.lines[0] = line
}

// insertMRU prepends line. The caller must ensure no existing line shares
// its tag; insertMRU never evicts.
func (s *set) insertMRU(line CacheLine) {
	s.lines = append(s.lines, CacheLine{})
	copy(s.lines[1:], s.lines[0:len(s.lines)-1])
	s.lines[0] = line
}

// insertLRU appends line at the back, used when the prefetcher installs a
// speculative line without disturbing MRU order.
func (s *set) insertLRU(line CacheLine) {
	s.lines = append(s.lines, line)
}

// popLRU removes and returns the back (least-recently-used) line. The
// caller must ensure the set is non-empty.
func (s *set) popLRU() CacheLine {
	last := len(s.lines) - 1
	line := s.lines[last]
	s.lines = s.lines[:last]
	return line
}

// peekLRU returns a pointer to the back line without removing it, or nil if
// the set is empty.
func (s *set) peekLRU() *CacheLine {
	if len(s.lines) == 0 {
		return nil
	}
	return &s.lines[len(s.lines)-1]
}

func (s *set) len() int {
	return len(s.lines)
}

func (s *set) isFull() bool {
	return len(s.lines) == s.assoc
}

// at returns a pointer to the line at pos for in-place mutation (e.g.
// clearing a Prefetched flag on demand touch).
func (s *set) at(pos int) *CacheLine {
	return &s.lines[pos]
}
