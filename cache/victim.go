package cache

// victimBuffer is a single ordered sequence of at most capacity VictimLine
// records: oldest insertion at the front, newest at the back (FIFO). No two
// entries may share (SetIndex, Tag). The buffer is present even when
// capacity is 0, in which case it is always empty.
type victimBuffer struct {
	lines    []VictimLine
	capacity int
}

func newVictimBuffer(capacity int) *victimBuffer {
	return &victimBuffer{lines: make([]VictimLine, 0, capacity), capacity: capacity}
}

// find returns the position of the entry matching (setIndex, tag), or -1.
func (v *victimBuffer) find(setIndex int, tag uint64) int {
	for i := range v.lines {
		if v.lines[i].SetIndex == setIndex && v.lines[i].Tag == tag {
			return i
		}
	}
	return -1
}

// removeAt removes the entry at pos in place, preserving the relative order
// of the rest, and returns it.
func (v *victimBuffer) removeAt(pos int) VictimLine {
	line := v.lines[pos]
	v.lines = append(v.lines[:pos], v.lines[pos+1:]...)
	return line
}

// replaceAt overwrites the entry at pos without disturbing its position —
// used on a VC hit, where the hit slot is immediately refilled by the
// evicted L1 LRU line rather than removed and re-appended.
func (v *victimBuffer) replaceAt(pos int, line VictimLine) {
	v.lines[pos] = line
}

// popOldest removes and returns the front entry. The caller must ensure the
// buffer is non-empty.
func (v *victimBuffer) popOldest() VictimLine {
	line := v.lines[0]
	v.lines = v.lines[1:]
	return line
}

// pushNewest appends line at the back.
func (v *victimBuffer) pushNewest(line VictimLine) {
	v.lines = append(v.lines, line)
}

func (v *victimBuffer) len() int {
	return len(v.lines)
}

func (v *victimBuffer) isFull() bool {
	return len(v.lines) == v.capacity
}
