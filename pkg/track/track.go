package track

import (
	"iter"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
)

// Track is a named, ordered sequence of trackpoints held in a doubly linked
// list so that ranges can be moved between tracks without copying.
//
// A Track is not safe for concurrent mutation. Readers may run concurrently
// with each other but never with a writer of the same track.
type Track struct {
	ID          uuid.UUID
	Name        string
	Comment     string
	Description string
	Source      string
	Type        string
	Color       string
	IsRoute     bool

	head *Trackpoint
	tail *Trackpoint
	n    int

	bounds    orb.Bound
	hasBounds bool
	maxSpeed  measure.Speed

	// gen changes on every structural edit and invalidates handles.
	gen uint64
}

// New creates an empty track.
func New(name string) *Track {
	return &Track{
		ID:       uuid.New(),
		Name:     name,
		maxSpeed: invalidSpeed(),
	}
}

// CopyMetadata returns a new empty track carrying t's scalar metadata under a fresh ID.
func (t *Track) CopyMetadata() *Track {
	c := New(t.Name)
	c.Comment = t.Comment
	c.Description = t.Description
	c.Source = t.Source
	c.Type = t.Type
	c.Color = t.Color
	c.IsRoute = t.IsRoute
	return c
}

// Clone returns a deep copy of the track with a fresh ID.
func (t *Track) Clone() *Track {
	c := t.CopyMetadata()
	for p := t.head; p != nil; p = p.next {
		cp := p.Clone()
		c.link(cp)
	}
	c.refresh()
	return c
}

func (t *Track) Len() int { return t.n }
func (t *Track) IsEmpty() bool { return t.n == 0 }
func (t *Track) First() *Trackpoint { return t.head }
func (t *Track) Last() *Trackpoint { return t.tail }
func (t *Track) Contains(p *Trackpoint) bool {
	return p != nil && p.owner == t
}

// Points iterates the points in order together with their index.
func (t *Track) Points() iter.Seq2[int, *Trackpoint] {
	return func(yield func(int, *Trackpoint) bool) {
		i := 0
		for p := t.head; p != nil; p = p.next {
			if !yield(i, p) {
				return
			}
			i++
		}
	}
}

// Slice returns the points in order.
func (t *Track) Slice() []*Trackpoint {
	out := make([]*Trackpoint, 0, t.n)
	for p := t.head; p != nil; p = p.next {
		out = append(out, p)
	}
	return out
}

// At returns the i-th point or nil.
func (t *Track) At(i int) *Trackpoint {
	if i < 0 || i >= t.n {
		return nil
	}
	p := t.head
	for ; i > 0; i-- {
		p = p.next
	}
	return p
}

// IndexOf returns the position of p, or -1 when p is not in the track.
func (t *Track) IndexOf(p *Trackpoint) int {
	if !t.Contains(p) {
		return -1
	}
	i := 0
	for q := t.head; q != nil; q = q.next {
		if q == p {
			return i
		}
		i++
	}
	return -1
}

// Append adds p to the end of the track. The first point of a track always
// starts a segment.
func (t *Track) Append(p *Trackpoint) error {
	if p.owner != nil {
		return ErrAlreadyOwned
	}
	prev := t.tail
	t.link(p)
	t.gen++
	t.bounds = geo.ExtendBound(t.bounds, !t.hasBounds, p.Position)
	t.hasBounds = true
	if prev != nil && !p.NewSegment && !t.IsRoute {
		if s, ok := prev.speedTo(p); ok && (!t.maxSpeed.IsValid() || s > t.maxSpeed.Value()) {
			t.maxSpeed = measure.NewSpeed(s, measure.MetersPerSecond)
		}
	}
	return nil
}

// InsertAfter links p directly after at.
func (t *Track) InsertAfter(at, p *Trackpoint) error {
	if !t.Contains(at) {
		return ErrNotMember
	}
	if p.owner != nil {
		return ErrAlreadyOwned
	}
	if at == t.tail {
		return t.Append(p)
	}
	p.owner = t
	p.prev, p.next = at, at.next
	at.next.prev = p
	at.next = p
	t.n++
	t.gen++
	t.refresh()
	return nil
}

// InsertBefore links p directly before at. Inserting before the head moves
// the segment start to p.
func (t *Track) InsertBefore(at, p *Trackpoint) error {
	if !t.Contains(at) {
		return ErrNotMember
	}
	if p.owner != nil {
		return ErrAlreadyOwned
	}
	p.owner = t
	p.prev, p.next = at.prev, at
	if at.prev != nil {
		at.prev.next = p
	} else {
		t.head = p
		p.NewSegment = true
		at.NewSegment = false
	}
	at.prev = p
	t.n++
	t.gen++
	t.refresh()
	return nil
}

// Remove deletes p from the track. A segment start carried by p moves to its
// successor.
func (t *Track) Remove(p *Trackpoint) error {
	if !t.Contains(p) {
		return ErrNotMember
	}
	t.unlink(p)
	t.gen++
	t.refresh()
	return nil
}

// Bounds returns the cached bounding box. The second result is false for an
// empty track.
func (t *Track) Bounds() (orb.Bound, bool) {
	return t.bounds, t.hasBounds
}

// RecalculateBounds rebuilds the bounding box from the points.
func (t *Track) RecalculateBounds() {
	t.hasBounds = false
	t.bounds = orb.Bound{}
	for p := t.head; p != nil; p = p.next {
		t.bounds = geo.ExtendBound(t.bounds, !t.hasBounds, p.Position)
		t.hasBounds = true
	}
}

// link appends p without touching caches.
func (t *Track) link(p *Trackpoint) {
	p.owner = t
	p.next = nil
	p.prev = t.tail
	if t.tail != nil {
		t.tail.next = p
	} else {
		t.head = p
		p.NewSegment = true
	}
	t.tail = p
	t.n++
}

// unlink detaches p without touching caches, handing its segment start to
// the successor.
func (t *Track) unlink(p *Trackpoint) {
	if p.NewSegment && p.next != nil {
		p.next.NewSegment = true
	}
	if p.prev != nil {
		p.prev.next = p.next
	} else {
		t.head = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	} else {
		t.tail = p.prev
	}
	p.owner, p.prev, p.next = nil, nil, nil
	t.n--
}

// refresh recomputes every cache after a structural edit.
func (t *Track) refresh() {
	t.RecalculateBounds()
	t.CalculateMaxSpeed()
}

func invalidSpeed() measure.Speed {
	return measure.Invalid[measure.SpeedUnit, float64](measure.MetersPerSecond)
}

