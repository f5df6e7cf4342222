package series

import (
	"fmt"
	"math"
	"strings"

	"gpstrack/pkg/grid"
	"gpstrack/pkg/measure"
)

// Kind names a pair of domains: Y plotted over X.
type Kind int

const (
	DistanceOverTime Kind = iota
	AltitudeOverDistance
	GradientOverDistance
	SpeedOverTime
	AltitudeOverTime
	SpeedOverDistance
)

var kindNames = map[Kind]string{
	DistanceOverTime:     "distance-time",
	AltitudeOverDistance: "altitude-distance",
	GradientOverDistance: "gradient-distance",
	SpeedOverTime:        "speed-time",
	AltitudeOverTime:     "altitude-time",
	SpeedOverDistance:    "speed-distance",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{DistanceOverTime, AltitudeOverDistance, GradientOverDistance,
		SpeedOverTime, AltitudeOverTime, SpeedOverDistance}
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// Axes returns the grid domains of the x and y axis.
func (k Kind) Axes() (x, y grid.Domain) {
	x = grid.Distance
	if st, ok := strategies[k]; ok && st.x == axisTime {
		x = grid.Time
	}
	switch k {
	case DistanceOverTime:
		y = grid.Distance
	case AltitudeOverDistance, AltitudeOverTime:
		y = grid.Altitude
	case GradientOverDistance:
		y = grid.Gradient
	default:
		y = grid.Speed
	}
	return x, y
}

// axis is the quantity on the x axis.
type axis int

const (
	axisTime axis = iota
	axisDistance
)

// strategy describes one kind for the shared walker: which x axis it plots
// against, how y is derived from the walk, and how both convert for display.
type strategy struct {
	x axis
	// y returns the value for point i in base units, or NaN for a gap.
	y func(w *walk, i int) float64
	// pairwise marks y values computed from (i-1, i); point 0 borrows the
	// value of point 1.
	pairwise bool
	// needsTime requires timestamps even when x is distance.
	needsTime bool
	yUnit     func(u measure.Units) (convert func(float64) float64, symbol string)
}

var strategies = map[Kind]strategy{
	DistanceOverTime: {
		x:     axisTime,
		y:     func(w *walk, i int) float64 { return w.dist[i] },
		yUnit: distanceUnit,
	},
	AltitudeOverDistance: {
		x:     axisDistance,
		y:     altitudeAt,
		yUnit: altitudeUnit,
	},
	GradientOverDistance: {
		x:        axisDistance,
		y:        gradientAt,
		pairwise: true,
		yUnit:    gradientUnit,
	},
	SpeedOverTime: {
		x:        axisTime,
		y:        speedAt,
		pairwise: true,
		yUnit:    speedUnit,
	},
	AltitudeOverTime: {
		x:     axisTime,
		y:     timedAltitudeAt,
		yUnit: altitudeUnit,
	},
	// Distance over time is walked first; speed is its derivative.
	SpeedOverDistance: {
		x:         axisDistance,
		y:         speedAt,
		pairwise:  true,
		needsTime: true,
		yUnit:     speedUnit,
	},
}

func altitudeAt(w *walk, i int) float64 {
	return w.points[i].Altitude.Float()
}

// timedAltitudeAt leaves a gap where the timestamp was rejected, since such
// a point has no x of its own.
func timedAltitudeAt(w *walk, i int) float64 {
	if !w.timed[i] {
		return math.NaN()
	}
	return altitudeAt(w, i)
}

// gradientAt is the rise over the run into point i, in percent.
func gradientAt(w *walk, i int) float64 {
	if w.points[i].NewSegment {
		return math.NaN()
	}
	run := w.dist[i] - w.dist[i-1]
	if run <= 0 {
		return math.NaN()
	}
	rise := w.points[i].Altitude.Float() - w.points[i-1].Altitude.Float()
	return 100 * rise / run
}

// speedAt is the mean speed into point i in m/s. Both points need an
// accepted timestamp and the interval must be positive.
func speedAt(w *walk, i int) float64 {
	if w.points[i].NewSegment || !w.timed[i] || !w.timed[i-1] {
		return math.NaN()
	}
	dt := w.secs[i] - w.secs[i-1]
	if dt <= 0 {
		return math.NaN()
	}
	return (w.dist[i] - w.dist[i-1]) / dt
}

func distanceUnit(u measure.Units) (func(float64) float64, string) {
	return func(v float64) float64 { return measure.FromBase(v, u.Distance) }, u.Distance.String()
}

func altitudeUnit(u measure.Units) (func(float64) float64, string) {
	return func(v float64) float64 { return measure.FromBase(v, u.Altitude) }, u.Altitude.String()
}

func gradientUnit(u measure.Units) (func(float64) float64, string) {
	return func(v float64) float64 { return measure.FromBase(v, u.Gradient) }, u.Gradient.String()
}

func speedUnit(u measure.Units) (func(float64) float64, string) {
	return func(v float64) float64 { return measure.FromBase(v, u.Speed) }, u.Speed.String()
}

func durationUnit(u measure.Units) (func(float64) float64, string) {
	return func(v float64) float64 { return measure.FromBase(v, u.Duration) }, u.Duration.String()
}
