package track

import (
	"time"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
)

var fixtureStart = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// lineTrack builds n points heading east, spacing meters apart and step apart in time.
func lineTrack(n int, spacing float64, step time.Duration) *Track {
	t := New("fixture")
	pos := geo.Point{Lat: 46.5, Lon: 7.5}
	for i := 0; i < n; i++ {
		p := NewTrackpoint(pos)
		p.Time = fixtureStart.Add(time.Duration(i) * step)
		p.SetAltitude(measure.NewAltitude(float64(500+10*i), measure.AltitudeMeters))
		_ = t.Append(p)
		pos = geo.DestinationPoint(pos, spacing, 90)
	}
	return t
}

func flags(t *Track) []bool {
	var out []bool
	for _, p := range t.Points() {
		out = append(out, p.NewSegment)
	}
	return out
}
