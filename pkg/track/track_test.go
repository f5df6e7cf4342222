package track

import (
	"errors"
	"testing"
	"time"

	"gpstrack/pkg/geo"
)

func TestAppend_FirstPointStartsSegment(t *testing.T) {
	tr := New("t")
	a := NewTrackpoint(geo.Point{Lat: 1, Lon: 1})
	b := NewTrackpoint(geo.Point{Lat: 1, Lon: 2})
	if err := tr.Append(a); err != nil {
		t.Fatal(err)
	}
	if err := tr.Append(b); err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 2 || tr.First() != a || tr.Last() != b {
		t.Fatalf("unexpected order: len=%d", tr.Len())
	}
	if !a.NewSegment || b.NewSegment {
		t.Errorf("flags = %v, want [true false]", flags(tr))
	}
	if err := tr.Append(a); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("Append owned point error = %v", err)
	}
	if a.Next() != b || b.Prev() != a || a.Track() != tr {
		t.Error("links not set")
	}
}

func TestRemove_PropagatesSegmentStart(t *testing.T) {
	tr := lineTrack(5, 100, 10*time.Second)
	p2 := tr.At(2)
	p2.NewSegment = true

	if err := tr.Remove(p2); err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 4 {
		t.Fatalf("Len = %d", tr.Len())
	}
	if !tr.At(2).NewSegment {
		t.Error("successor of a removed segment start must start the segment")
	}
	if err := tr.Remove(p2); !errors.Is(err, ErrNotMember) {
		t.Errorf("second Remove error = %v", err)
	}

	head := tr.First()
	_ = tr.Remove(head)
	if !tr.First().NewSegment {
		t.Error("new head must start a segment")
	}
}

func TestInsert(t *testing.T) {
	tr := lineTrack(3, 100, time.Second)
	head := tr.First()
	p := NewTrackpoint(geo.Point{Lat: 46.4, Lon: 7.5})
	if err := tr.InsertBefore(head, p); err != nil {
		t.Fatal(err)
	}
	if tr.First() != p || !p.NewSegment || head.NewSegment {
		t.Errorf("insert before head: flags %v", flags(tr))
	}

	q := NewTrackpoint(geo.Point{Lat: 46.6, Lon: 7.5})
	if err := tr.InsertAfter(head, q); err != nil {
		t.Fatal(err)
	}
	if tr.IndexOf(q) != 2 || tr.Len() != 5 {
		t.Errorf("IndexOf = %d, Len = %d", tr.IndexOf(q), tr.Len())
	}
	b, ok := tr.Bounds()
	if !ok || b.Min.Lat() != 46.4 || b.Max.Lat() != 46.6 {
		t.Errorf("bounds not recomputed: %v", b)
	}
}

func TestHandle_InvalidatedByStructuralEdit(t *testing.T) {
	tr := lineTrack(4, 100, time.Second)
	h, err := tr.Handle(tr.At(1))
	if err != nil {
		t.Fatal(err)
	}
	if p, err := h.Resolve(); err != nil || p != tr.At(1) {
		t.Fatalf("Resolve = %v, %v", p, err)
	}

	_ = tr.Remove(tr.At(3))
	if h.Valid() {
		t.Error("handle must be invalid after a structural edit")
	}
	if _, err := h.Resolve(); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Resolve error = %v", err)
	}

	other := New("other")
	if _, err := other.Handle(tr.First()); !errors.Is(err, ErrNotMember) {
		t.Errorf("Handle on foreign point error = %v", err)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	tr := lineTrack(3, 100, time.Second)
	tr.Color = "#ff0000"
	c := tr.Clone()
	if c.ID == tr.ID || c.Len() != 3 || c.Color != "#ff0000" {
		t.Fatalf("clone mismatch: %+v", c)
	}
	if c.First() == tr.First() || c.First().Track() != c {
		t.Error("clone must own fresh points")
	}
}
