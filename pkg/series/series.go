package series

import (
	"math"

	"gpstrack/pkg/grid"
	"gpstrack/pkg/measure"
	"gpstrack/pkg/track"
)

// Series is a snapshot of Y over X for one track, already converted to
// display units. Points holds non-owning back-references for hit-testing.
// A series goes stale on the first mutation of its track and is regenerated,
// never patched.
type Series struct {
	Kind   Kind
	X, Y   []float64
	Points []*track.Trackpoint
	// Counts holds the number of source samples behind each entry. It is nil
	// for an uncompressed series.
	Counts []int

	XMin, XMax float64
	YMin, YMax float64
	XUnit      string
	YUnit      string
	// TimeUnit is the display unit of a time x axis.
	TimeUnit measure.DurationUnit
}

// Len returns the number of (x, y) pairs.
func (s *Series) Len() int { return len(s.X) }

// Valid reports whether entry i has a y value.
func (s *Series) Valid(i int) bool { return !math.IsNaN(s.Y[i]) }

// Nearest returns the index of the entry whose x is closest to x.
func (s *Series) Nearest(x float64) int {
	best, bestD := -1, math.Inf(1)
	for i, v := range s.X {
		if d := math.Abs(v - x); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// bounds refreshes the cached extents. Gaps do not count towards the y
// extent; it reports false when no valid y exists.
func (s *Series) bounds() bool {
	s.XMin, s.XMax = math.Inf(1), math.Inf(-1)
	s.YMin, s.YMax = math.Inf(1), math.Inf(-1)
	found := false
	for i := range s.X {
		s.XMin = math.Min(s.XMin, s.X[i])
		s.XMax = math.Max(s.XMax, s.X[i])
		if math.IsNaN(s.Y[i]) {
			continue
		}
		found = true
		s.YMin = math.Min(s.YMin, s.Y[i])
		s.YMax = math.Max(s.YMax, s.Y[i])
	}
	return found
}

// Grids selects the gridlines of both axes for about n lines each.
func (s *Series) Grids(sel *grid.Selector, n int) (x, y grid.Grid, err error) {
	xd, yd := s.Kind.Axes()
	if xd == grid.Time {
		x, err = s.timeLines(sel, n)
	} else {
		x, err = sel.Lines(xd, s.XMin, s.XMax, n)
	}
	if err != nil {
		return x, y, err
	}
	y, err = sel.Lines(yd, s.YMin, s.YMax, n)
	return x, y, err
}

// timeLines selects time gridlines in seconds, the unit of the time table,
// and reports them in TimeUnit.
func (s *Series) timeLines(sel *grid.Selector, n int) (grid.Grid, error) {
	u := s.TimeUnit
	g, err := sel.Lines(grid.Time, measure.ToBase(s.XMin, u), measure.ToBase(s.XMax, u), n)
	if err != nil {
		return g, err
	}
	g.Interval = measure.FromBase(g.Interval, u)
	g.Start = measure.FromBase(g.Start, u)
	return g, nil
}
