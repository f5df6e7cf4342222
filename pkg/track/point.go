package track

import (
	"math"
	"time"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
)

// FixMode is the GPS fix quality reported for a sample.
type FixMode int

const (
	FixNotSeen FixMode = iota
	FixNone
	Fix2D
	Fix3D
	FixDGPS
	FixPPS
)

// Trackpoint is a single GPS sample. Altitude is always held in meters and
// Speed in meters per second. A zero Time means the sample has no timestamp.
type Trackpoint struct {
	Position geo.Point
	Time     time.Time
	Altitude measure.Altitude
	Speed    measure.Speed
	Course   float64
	Sats     int
	HDOP     float64
	VDOP     float64
	PDOP     float64
	Fix      FixMode
	Name     string

	// NewSegment marks the first point of a segment.
	NewSegment bool

	owner *Track
	prev  *Trackpoint
	next  *Trackpoint
}

// NewTrackpoint returns an unlinked point with every optional field missing.
func NewTrackpoint(pos geo.Point) *Trackpoint {
	return &Trackpoint{
		Position: pos,
		Altitude: measure.Invalid[measure.AltitudeUnit, float64](measure.AltitudeMeters),
		Speed:    measure.Invalid[measure.SpeedUnit, float64](measure.MetersPerSecond),
		Course:   math.NaN(),
		HDOP:     math.NaN(),
		VDOP:     math.NaN(),
		PDOP:     math.NaN(),
	}
}

func (p *Trackpoint) HasTime() bool { return !p.Time.IsZero() }
func (p *Trackpoint) HasAltitude() bool { return p.Altitude.IsValid() }

// SetAltitude stores a in meters.
func (p *Trackpoint) SetAltitude(a measure.Altitude) {
	p.Altitude = a.ConvertTo(measure.AltitudeMeters)
}

// Next returns the following point, or nil at the end of the track.
func (p *Trackpoint) Next() *Trackpoint { return p.next }

// Prev returns the preceding point, or nil at the start of the track.
func (p *Trackpoint) Prev() *Trackpoint { return p.prev }

// Track returns the owning track, or nil for a detached point.
func (p *Trackpoint) Track() *Track { return p.owner }

// Clone returns a detached copy of the point.
func (p *Trackpoint) Clone() *Trackpoint {
	c := *p
	c.owner, c.prev, c.next = nil, nil, nil
	return &c
}

// speedTo returns the speed between p and q in m/s, or false when it cannot
// be computed.
func (p *Trackpoint) speedTo(q *Trackpoint) (float64, bool) {
	if !p.HasTime() || !q.HasTime() {
		return 0, false
	}
	dt := q.Time.Sub(p.Time).Seconds()
	if dt <= 0 {
		return 0, false
	}
	return geo.Distance(p.Position, q.Position) / dt, true
}
