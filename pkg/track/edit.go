package track

import (
	"time"

	"gpstrack/pkg/geo"
)

// AnonymizeEpoch is the default reference time used by AnonymizeTimes.
var AnonymizeEpoch = time.Date(1901, time.January, 1, 0, 0, 0, 0, time.UTC)

// RemoveDuplicatePositions deletes the second point of every adjacent pair
// sharing a position and returns the number of points removed.
func (t *Track) RemoveDuplicatePositions() int {
	return t.removeAdjacent(samePosition)
}

// RemoveDuplicateTimestamps deletes the second point of every adjacent pair
// sharing a timestamp and returns the number of points removed.
func (t *Track) RemoveDuplicateTimestamps() int {
	return t.removeAdjacent(sameTime)
}

// removeAdjacent makes a single forward pass. After a deletion the current
// point is compared with its new successor, so the result has no adjacent
// duplicates left and a second pass removes nothing.
func (t *Track) removeAdjacent(dup func(a, b *Trackpoint) bool) int {
	removed := 0
	for p := t.head; p != nil && p.next != nil; {
		if dup(p, p.next) {
			t.unlink(p.next)
			removed++
			continue
		}
		p = p.next
	}
	if removed > 0 {
		t.gen++
		t.refresh()
	}
	return removed
}

// MergeSegments joins all segments into one.
func (t *Track) MergeSegments() {
	for p := t.head; p != nil; p = p.next {
		p.NewSegment = p == t.head
	}
	t.CalculateMaxSpeed()
}

// Reverse reverses the point order while keeping the segment structure: a
// point starts a segment after reversal exactly when it ended one before
// (it was the last point or its old successor started a segment). The new
// first point therefore always carries the flag, and the old first point
// loses it unless it formed a one-point segment.
func (t *Track) Reverse() {
	if t.n == 0 {
		return
	}
	// Flags are derived from the old order before any link changes.
	flags := make([]bool, 0, t.n)
	for p := t.head; p != nil; p = p.next {
		flags = append(flags, p.next == nil || p.next.NewSegment)
	}
	i := 0
	for p := t.head; p != nil; p = p.next {
		p.NewSegment = flags[i]
		i++
	}
	for p := t.head; p != nil; {
		next := p.next
		p.prev, p.next = p.next, p.prev
		p = next
	}
	t.head, t.tail = t.tail, t.head
	t.gen++
	t.CalculateMaxSpeed()
}

// InterpolateTimes assigns timestamps to the interior points in proportion to
// their distance along the track between the first and last timestamps,
// truncated to whole seconds, then drops resulting duplicate timestamps.
func (t *Track) InterpolateTimes() error {
	if t.n == 0 {
		return ErrEmptyTrack
	}
	if !t.head.HasTime() || !t.tail.HasTime() {
		return ErrNoTimestamps
	}
	start, end := t.head.Time, t.tail.Time
	span := end.Sub(start)
	total := t.LengthIncludingGaps().Value()
	if total <= 0 || span <= 0 {
		return ErrZeroSpan
	}

	cum := 0.0
	for p := t.head.next; p != nil && p != t.tail; p = p.next {
		cum += geo.Distance(p.prev.Position, p.Position)
		offset := time.Duration(float64(span) * cum / total)
		p.Time = start.Add(offset.Truncate(time.Second))
	}
	t.RemoveDuplicateTimestamps()
	t.CalculateMaxSpeed()
	return nil
}

// AnonymizeTimes shifts every timestamp by a constant so that the first
// timestamp lands on epoch. Relative deltas are preserved.
func (t *Track) AnonymizeTimes(epoch time.Time) {
	first := t.firstTimed()
	if first == nil {
		return
	}
	offset := epoch.Sub(first.Time)
	for p := t.head; p != nil; p = p.next {
		if p.HasTime() {
			p.Time = p.Time.Add(offset)
		}
	}
}

// Steal appends all points of other to t, leaving other empty. The first
// stolen point starts a new segment.
func (t *Track) Steal(other *Track) {
	if other == t || other.head == nil {
		return
	}
	first := other.head
	for p := first; p != nil; p = p.next {
		p.owner = t
	}
	first.NewSegment = true
	if t.tail != nil {
		t.tail.next = first
		first.prev = t.tail
	} else {
		t.head = first
	}
	t.tail = other.tail
	t.n += other.n

	other.head, other.tail, other.n = nil, nil, 0
	other.gen++
	other.refresh()
	t.gen++
	t.refresh()
}

// MoveRange moves the contiguous range first..last (inclusive) of t to the
// end of dst without copying points. The moved range starts a segment in
// dst and the point following the range, if any, starts one in t.
func (t *Track) MoveRange(first, last *Trackpoint, dst *Track) error {
	if !t.Contains(first) || !t.Contains(last) {
		return ErrNotMember
	}
	if dst == t {
		return ErrBadRange
	}
	count := 1
	for p := first; p != last; p = p.next {
		if p.next == nil {
			return ErrBadRange
		}
		count++
	}

	before, after := first.prev, last.next
	if before != nil {
		before.next = after
	} else {
		t.head = after
	}
	if after != nil {
		after.prev = before
		after.NewSegment = true
	} else {
		t.tail = before
	}
	t.n -= count

	for p := first; ; p = p.next {
		p.owner = dst
		if p == last {
			break
		}
	}
	first.NewSegment = true
	first.prev = dst.tail
	last.next = nil
	if dst.tail != nil {
		dst.tail.next = first
	} else {
		dst.head = first
	}
	dst.tail = last
	dst.n += count

	t.gen++
	dst.gen++
	t.refresh()
	dst.refresh()
	return nil
}
