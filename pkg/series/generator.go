package series

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/logging"
	"gpstrack/pkg/measure"
	"gpstrack/pkg/track"
)

// Generator derives series from tracks. Units selects the display units of
// the produced values.
type Generator struct {
	Units measure.Units
}

// NewGenerator returns a Generator for the given display units.
func NewGenerator(u measure.Units) *Generator {
	return &Generator{Units: u}
}

// walk holds the per-point quantities of one pass over a track, in base
// units: cumulative distance without segment gaps and seconds since the
// first timestamp.
type walk struct {
	points []*track.Trackpoint
	dist   []float64
	secs   []float64
	// timed is false where the timestamp is missing, duplicated or runs
	// backwards. Such points keep the previous x.
	timed    []bool
	hasTimes bool
}

func walkTrack(t *track.Track) *walk {
	n := t.Len()
	w := &walk{
		points: make([]*track.Trackpoint, 0, n),
		dist:   make([]float64, 0, n),
		secs:   make([]float64, 0, n),
		timed:  make([]bool, 0, n),
	}
	var (
		cum, last float64
		prev      *track.Trackpoint
		start     = firstTime(t)
	)
	for _, p := range t.Points() {
		if prev != nil && !p.NewSegment {
			cum += geo.Distance(prev.Position, p.Position)
		}
		ok := false
		x := last
		if p.HasTime() && !start.IsZero() {
			s := p.Time.Sub(start).Seconds()
			switch {
			case !w.hasTimes || s > last:
				x, ok = s, true
				w.hasTimes = true
			default:
				logging.TraceDefault("Series timestamp glitch", "time", p.Time, "previous_s", last)
			}
		}
		last = x
		w.points = append(w.points, p)
		w.dist = append(w.dist, cum)
		w.secs = append(w.secs, x)
		w.timed = append(w.timed, ok)
		prev = p
	}
	return w
}

// Generate walks t once and returns the series for kind.
func (g *Generator) Generate(t *track.Track, kind Kind) (*Series, error) {
	st, ok := strategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	}
	switch {
	case t == nil || t.IsEmpty():
		return nil, ErrEmptyTrack
	case t.Len() < 2:
		return nil, ErrTooFewPoints
	}

	w := walkTrack(t)
	if (st.x == axisTime || st.needsTime) && (!w.hasTimes || t.IsRoute) {
		return nil, ErrNoTimestamps
	}

	n := len(w.points)
	s := &Series{
		Kind:   kind,
		X:      make([]float64, n),
		Y:      make([]float64, n),
		Points: w.points,
	}
	xs := w.dist
	if st.x == axisTime {
		xs = w.secs
	}
	copy(s.X, xs)
	for i := range n {
		if st.pairwise && i == 0 {
			continue
		}
		s.Y[i] = st.y(w, i)
	}
	if st.pairwise {
		s.Y[0] = s.Y[1]
	}

	if s.X[n-1]-s.X[0] <= 0 {
		return nil, ErrZeroSpan
	}
	g.convert(s, st)
	if !s.bounds() {
		return nil, ErrNoData
	}
	slog.Debug("Series generated", "kind", kind, "points", n, "track", t.Name)
	return s, nil
}

// convert rewrites the series from base units into the display units.
func (g *Generator) convert(s *Series, st strategy) {
	xconv, xsym := distanceUnit(g.Units)
	if st.x == axisTime {
		xconv, xsym = durationUnit(g.Units)
	}
	yconv, ysym := st.yUnit(g.Units)
	for i := range s.X {
		s.X[i] = xconv(s.X[i])
		if !math.IsNaN(s.Y[i]) {
			s.Y[i] = yconv(s.Y[i])
		}
	}
	s.XUnit, s.YUnit = xsym, ysym
	s.TimeUnit = g.Units.Duration
}

// Compressed generates kind for t and resamples it to m entries. With
// areaPreserving set, altitude over distance uses AltitudeByArea.
func (g *Generator) Compressed(t *track.Track, kind Kind, m int, areaPreserving bool) (*Series, error) {
	if areaPreserving {
		if kind != AltitudeOverDistance {
			return nil, fmt.Errorf("%w: area resampling of %v", ErrUnsupportedKind, kind)
		}
		return g.AltitudeByArea(t, m)
	}
	s, err := g.Generate(t, kind)
	if err != nil {
		return nil, err
	}
	return s.Compress(m)
}

func firstTime(t *track.Track) time.Time {
	for _, p := range t.Points() {
		if p.HasTime() {
			return p.Time
		}
	}
	return time.Time{}
}
