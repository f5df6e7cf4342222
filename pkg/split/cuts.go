package split

import (
	"fmt"
	"time"

	"gpstrack/pkg/track"
)

// AtPoint returns a single cut that keeps p as the last point of the first
// range.
func AtPoint(t *track.Track, p *track.Trackpoint) ([]*track.Trackpoint, error) {
	if !t.Contains(p) {
		return nil, track.ErrNotMember
	}
	if p == t.First() || p == t.Last() {
		return nil, ErrEndpoint
	}
	return []*track.Trackpoint{p.Next()}, nil
}

// ByTimeGap cuts before every point whose timestamp is more than gap after
// the previous point's.
func ByTimeGap(t *track.Track, gap time.Duration) ([]*track.Trackpoint, error) {
	if gap <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadGap, gap)
	}
	var cuts []*track.Trackpoint
	for _, p := range t.Points() {
		prev := p.Prev()
		if prev == nil || !prev.HasTime() || !p.HasTime() {
			continue
		}
		if p.Time.Sub(prev.Time) > gap {
			cuts = append(cuts, p)
		}
	}
	return cuts, nil
}

// ByPointCount cuts every n points, so each range but the last has n points.
func ByPointCount(t *track.Track, n int) ([]*track.Trackpoint, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadStride, n)
	}
	var cuts []*track.Trackpoint
	for i, p := range t.Points() {
		if i > 0 && i%n == 0 {
			cuts = append(cuts, p)
		}
	}
	return cuts, nil
}

// BySegments cuts at every segment start except the first point.
func BySegments(t *track.Track) []*track.Trackpoint {
	var cuts []*track.Trackpoint
	for i, p := range t.Points() {
		if i > 0 && p.NewSegment {
			cuts = append(cuts, p)
		}
	}
	return cuts
}
