package series

import (
	"fmt"
	"math"
	"sort"

	"gpstrack/pkg/track"
)

// profile is the altitude as a piecewise-linear function of distance,
// held constant before the first and after the last known altitude.
type profile struct {
	xs, ys []float64
	// area[j] is the integral from 0 to xs[j].
	area []float64
}

func newProfile(w *walk) *profile {
	p := &profile{}
	for i, pt := range w.points {
		if !pt.HasAltitude() {
			continue
		}
		p.xs = append(p.xs, w.dist[i])
		p.ys = append(p.ys, pt.Altitude.Float())
	}
	if len(p.xs) == 0 {
		return nil
	}
	p.area = make([]float64, len(p.xs))
	p.area[0] = p.ys[0] * p.xs[0]
	for j := 1; j < len(p.xs); j++ {
		p.area[j] = p.area[j-1] + (p.ys[j-1]+p.ys[j])/2*(p.xs[j]-p.xs[j-1])
	}
	return p
}

// integral returns the area under the profile from 0 to x.
func (p *profile) integral(x float64) float64 {
	last := len(p.xs) - 1
	if x <= p.xs[0] {
		return p.ys[0] * x
	}
	if x >= p.xs[last] {
		return p.area[last] + p.ys[last]*(x-p.xs[last])
	}
	// First vertex strictly beyond x; its predecessor starts the span.
	j := sort.Search(len(p.xs), func(k int) bool { return p.xs[k] > x })
	x0, y0 := p.xs[j-1], p.ys[j-1]
	dx := x - x0
	w := p.xs[j] - x0
	y := y0 + (p.ys[j]-y0)*dx/w
	return p.area[j-1] + (y0+y)/2*dx
}

// AltitudeByArea resamples the altitude profile of t into m entries spaced
// total/(m-1) apart. Entry k averages the profile over the chunk centred on
// its x, so the area under the output equals the area under the input and
// short climbs are not smeared by uneven point density.
func (g *Generator) AltitudeByArea(t *track.Track, m int) (*Series, error) {
	switch {
	case t == nil || t.IsEmpty():
		return nil, ErrEmptyTrack
	case t.Len() < 2:
		return nil, ErrTooFewPoints
	case m < 2:
		return nil, fmt.Errorf("%w: %d", ErrBadTarget, m)
	}
	w := walkTrack(t)
	n := len(w.points)
	total := w.dist[n-1]
	if total <= 0 {
		return nil, ErrZeroSpan
	}
	prof := newProfile(w)
	if prof == nil {
		return nil, ErrNoData
	}

	chunk := total / float64(m-1)
	s := &Series{
		Kind:   AltitudeOverDistance,
		X:      make([]float64, m),
		Y:      make([]float64, m),
		Points: make([]*track.Trackpoint, m),
		Counts: make([]int, m),
	}
	for k := range m {
		center := float64(k) * chunk
		lo := math.Max(0, center-chunk/2)
		hi := math.Min(total, center+chunk/2)
		s.X[k] = center
		s.Y[k] = (prof.integral(hi) - prof.integral(lo)) / (hi - lo)
	}
	// Each point belongs to the chunk whose centre is nearest; the first
	// point at or past the centre is the back-reference.
	for i, d := range w.dist {
		k := min(int(math.Floor(d/chunk+0.5)), m-1)
		s.Counts[k]++
		if s.Points[k] == nil && d >= float64(k)*chunk {
			s.Points[k] = w.points[i]
		}
	}
	for k := range s.Points {
		if s.Points[k] == nil {
			s.Points[k] = nearestBefore(w, float64(k)*chunk)
		}
	}

	g.convert(s, strategies[AltitudeOverDistance])
	s.bounds()
	return s, nil
}

// nearestBefore returns the last point at or before distance d.
func nearestBefore(w *walk, d float64) *track.Trackpoint {
	i := sort.Search(len(w.dist), func(k int) bool { return w.dist[k] > d })
	if i == 0 {
		return w.points[0]
	}
	return w.points[i-1]
}
