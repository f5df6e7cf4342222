package series

import (
	"math"
	"time"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
	"gpstrack/pkg/track"
)

var start = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// metric keeps every axis in base units so expectations read as raw values.
var metric = measure.Units{
	Distance: measure.Meters,
	Altitude: measure.AltitudeMeters,
	Speed:    measure.MetersPerSecond,
	Gradient: measure.Percent,
	Duration: measure.Seconds,
}

// build returns a track heading east with one point per offset. secs[i] < 0
// leaves the point untimed and a NaN altitude leaves it without altitude.
func build(spacing float64, secs []int, alts []float64) *track.Track {
	t := track.New("fixture")
	pos := geo.Point{Lat: 46.5, Lon: 7.5}
	for i := range secs {
		p := track.NewTrackpoint(pos)
		if secs[i] >= 0 {
			p.Time = start.Add(time.Duration(secs[i]) * time.Second)
		}
		if i < len(alts) && !math.IsNaN(alts[i]) {
			p.SetAltitude(measure.NewAltitude(alts[i], measure.AltitudeMeters))
		}
		_ = t.Append(p)
		pos = geo.DestinationPoint(pos, spacing, 90)
	}
	return t
}

func seq(n, step int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i * step
	}
	return out
}
