package track

import (
	"math"
	"time"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
)

// Length returns the distance travelled, skipping the gaps between segments.
func (t *Track) Length() measure.Distance {
	return t.length(false)
}

// LengthIncludingGaps returns the distance between consecutive points
// regardless of segment boundaries.
func (t *Track) LengthIncludingGaps() measure.Distance {
	return t.length(true)
}

func (t *Track) length(gaps bool) measure.Distance {
	total := 0.0
	for p := t.head; p != nil && p.next != nil; p = p.next {
		if !gaps && p.next.NewSegment {
			continue
		}
		total += geo.Distance(p.Position, p.next.Position)
	}
	return measure.NewDistance(total, measure.Meters)
}

// Duration returns the elapsed time of the track. With segmented set it sums
// the deltas inside segments only; otherwise it is last timestamp minus first.
// Routes and tracks without timestamps yield an invalid duration.
func (t *Track) Duration(segmented bool) measure.Duration {
	invalid := measure.Invalid[measure.DurationUnit, int64](measure.Seconds)
	if t.IsRoute {
		return invalid
	}
	if !segmented {
		first, last := t.firstTimed(), t.lastTimed()
		if first == nil {
			return invalid
		}
		return measure.DurationOf(last.Time.Sub(first.Time))
	}

	var total time.Duration
	found := false
	for p := t.head; p != nil && p.next != nil; p = p.next {
		q := p.next
		if q.NewSegment || !p.HasTime() || !q.HasTime() {
			continue
		}
		found = true
		if dt := q.Time.Sub(p.Time); dt > 0 {
			total += dt
		}
	}
	if !found {
		return invalid
	}
	return measure.DurationOf(total)
}

// AverageSpeed is the travelled length divided by the in-segment duration.
func (t *Track) AverageSpeed() measure.Speed {
	return measure.SpeedFrom(t.Length(), t.Duration(true))
}

// MovingAverageSpeed is like AverageSpeed but ignores every point-to-point
// interval longer than stop.
func (t *Track) MovingAverageSpeed(stop time.Duration) measure.Speed {
	if t.IsRoute {
		return invalidSpeed()
	}
	dist := 0.0
	var moving time.Duration
	for p := t.head; p != nil && p.next != nil; p = p.next {
		q := p.next
		if q.NewSegment || !p.HasTime() || !q.HasTime() {
			continue
		}
		dt := q.Time.Sub(p.Time)
		if dt <= 0 || dt > stop {
			continue
		}
		moving += dt
		dist += geo.Distance(p.Position, q.Position)
	}
	if moving <= 0 {
		return invalidSpeed()
	}
	return measure.NewSpeed(dist/moving.Seconds(), measure.MetersPerSecond)
}

// MaxSpeed returns the cached maximum speed between consecutive points.
func (t *Track) MaxSpeed() measure.Speed {
	return t.maxSpeed
}

// CalculateMaxSpeed rescans the track and refreshes the cached maximum speed.
func (t *Track) CalculateMaxSpeed() measure.Speed {
	t.maxSpeed = invalidSpeed()
	if t.IsRoute {
		return t.maxSpeed
	}
	best := math.Inf(-1)
	for p := t.head; p != nil && p.next != nil; p = p.next {
		if p.next.NewSegment {
			continue
		}
		if s, ok := p.speedTo(p.next); ok && s > best {
			best = s
		}
	}
	if !math.IsInf(best, -1) {
		t.maxSpeed = measure.NewSpeed(best, measure.MetersPerSecond)
	}
	return t.maxSpeed
}

// AltitudeRange returns the lowest and highest altitude. Both are invalid
// when no point has an altitude.
func (t *Track) AltitudeRange() (lowest, highest measure.Altitude) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for p := t.head; p != nil; p = p.next {
		if !p.HasAltitude() {
			continue
		}
		a := p.Altitude.Value()
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	if math.IsInf(lo, 1) {
		invalid := measure.Invalid[measure.AltitudeUnit, float64](measure.AltitudeMeters)
		return invalid, invalid
	}
	return measure.NewAltitude(lo, measure.AltitudeMeters), measure.NewAltitude(hi, measure.AltitudeMeters)
}

// ElevationGainLoss sums the positive and negative altitude changes between
// consecutive points that have an altitude. Loss is reported as a positive value.
func (t *Track) ElevationGainLoss() (gain, loss measure.Altitude) {
	up, down := 0.0, 0.0
	var last *Trackpoint
	for p := t.head; p != nil; p = p.next {
		if !p.HasAltitude() {
			continue
		}
		if last != nil {
			d := p.Altitude.Value() - last.Altitude.Value()
			if d > 0 {
				up += d
			} else {
				down -= d
			}
		}
		last = p
	}
	if last == nil {
		invalid := measure.Invalid[measure.AltitudeUnit, float64](measure.AltitudeMeters)
		return invalid, invalid
	}
	return measure.NewAltitude(up, measure.AltitudeMeters), measure.NewAltitude(down, measure.AltitudeMeters)
}

// CountDuplicatePositions counts adjacent pairs sharing a position.
func (t *Track) CountDuplicatePositions() int {
	n := 0
	for p := t.head; p != nil && p.next != nil; p = p.next {
		if samePosition(p, p.next) {
			n++
		}
	}
	return n
}

// CountDuplicateTimestamps counts adjacent pairs sharing a timestamp.
func (t *Track) CountDuplicateTimestamps() int {
	n := 0
	for p := t.head; p != nil && p.next != nil; p = p.next {
		if sameTime(p, p.next) {
			n++
		}
	}
	return n
}

// SegmentCount returns the number of segments.
func (t *Track) SegmentCount() int {
	n := 0
	for p := t.head; p != nil; p = p.next {
		if p.NewSegment {
			n++
		}
	}
	return n
}

// DistanceTo returns the travelled distance from the first point up to p.
func (t *Track) DistanceTo(p *Trackpoint) (measure.Distance, error) {
	if !t.Contains(p) {
		return measure.Distance{}, ErrNotMember
	}
	total := 0.0
	for q := t.head; q != p; q = q.next {
		if !q.next.NewSegment {
			total += geo.Distance(q.Position, q.next.Position)
		}
	}
	return measure.NewDistance(total, measure.Meters), nil
}

// PointAtDistance returns the first point whose travelled distance from the
// start is at least d. It returns the last point when d exceeds the length.
func (t *Track) PointAtDistance(d measure.Distance) (*Trackpoint, error) {
	if t.head == nil {
		return nil, ErrEmptyTrack
	}
	if !d.IsValid() {
		return nil, measure.ErrInvalidMeasurement
	}
	target := d.ConvertTo(measure.Meters).Value()
	total := 0.0
	for p := t.head; p != nil; p = p.next {
		if total >= target {
			return p, nil
		}
		if p.next != nil && !p.next.NewSegment {
			total += geo.Distance(p.Position, p.next.Position)
		}
	}
	return t.tail, nil
}

// ClosestToTime returns the timed point nearest to ts, or nil when the track
// has no timestamps.
func (t *Track) ClosestToTime(ts time.Time) *Trackpoint {
	var best *Trackpoint
	var bestDelta time.Duration
	for p := t.head; p != nil; p = p.next {
		if !p.HasTime() {
			continue
		}
		d := p.Time.Sub(ts)
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestDelta {
			best, bestDelta = p, d
		}
	}
	return best
}

// Summary bundles the statistics shown for a track.
type Summary struct {
	Points         int
	Segments       int
	Length         measure.Distance
	LengthWithGaps measure.Distance
	Elapsed        measure.Duration
	Moving         measure.Duration
	AverageSpeed   measure.Speed
	MovingSpeed    measure.Speed
	MaxSpeed       measure.Speed
	MinAltitude    measure.Altitude
	MaxAltitude    measure.Altitude
	Gain           measure.Altitude
	Loss           measure.Altitude
	DupPositions   int
	DupTimestamps  int
	Start          time.Time
	End            time.Time
}

// Summarize computes a Summary. stop is the moving-speed threshold.
func (t *Track) Summarize(stop time.Duration) Summary {
	s := Summary{
		Points:         t.n,
		Segments:       t.SegmentCount(),
		Length:         t.Length(),
		LengthWithGaps: t.LengthIncludingGaps(),
		Elapsed:        t.Duration(false),
		Moving:         t.Duration(true),
		AverageSpeed:   t.AverageSpeed(),
		MovingSpeed:    t.MovingAverageSpeed(stop),
		MaxSpeed:       t.MaxSpeed(),
		DupPositions:   t.CountDuplicatePositions(),
		DupTimestamps:  t.CountDuplicateTimestamps(),
	}
	s.MinAltitude, s.MaxAltitude = t.AltitudeRange()
	s.Gain, s.Loss = t.ElevationGainLoss()
	if p := t.firstTimed(); p != nil {
		s.Start = p.Time
		s.End = t.lastTimed().Time
	}
	return s
}

func (t *Track) firstTimed() *Trackpoint {
	for p := t.head; p != nil; p = p.next {
		if p.HasTime() {
			return p
		}
	}
	return nil
}

func (t *Track) lastTimed() *Trackpoint {
	for p := t.tail; p != nil; p = p.prev {
		if p.HasTime() {
			return p
		}
	}
	return nil
}

func samePosition(a, b *Trackpoint) bool {
	return a.Position == b.Position
}

func sameTime(a, b *Trackpoint) bool {
	return a.HasTime() && b.HasTime() && a.Time.Equal(b.Time)
}
