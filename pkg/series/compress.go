package series

import (
	"fmt"
	"math"

	"gpstrack/pkg/track"
)

// Compress block-averages s into m entries. Window i ends at the ideal
// boundary (i+1)*N/m, so window sizes are floor(N/m) or ceil(N/m) and add up
// to N. x is the mean of the window, y the mean of its valid values (a gap
// when it has none), and the back-reference is the window's first point.
func (s *Series) Compress(m int) (*Series, error) {
	n := s.Len()
	if m <= 0 || m > n {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadTarget, m, n)
	}
	out := &Series{
		Kind:   s.Kind,
		X:      make([]float64, m),
		Y:      make([]float64, m),
		Points: make([]*track.Trackpoint, m),
		Counts: make([]int, m),
		XUnit:  s.XUnit,
		YUnit:  s.YUnit,

		TimeUnit: s.TimeUnit,
	}
	begin := 0
	for i := range m {
		end := (i + 1) * n / m
		var sx, sy float64
		valid := 0
		for j := begin; j < end; j++ {
			sx += s.X[j]
			if !math.IsNaN(s.Y[j]) {
				sy += s.Y[j]
				valid++
			}
		}
		size := end - begin
		out.X[i] = sx / float64(size)
		out.Y[i] = math.NaN()
		if valid > 0 {
			out.Y[i] = sy / float64(valid)
		}
		out.Points[i] = s.Points[begin]
		out.Counts[i] = size
		begin = end
	}
	if !out.bounds() {
		return nil, ErrNoData
	}
	return out, nil
}
