package measure

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DistanceUnit tags horizontal distances. The base unit is the meter.
type DistanceUnit int

const (
	Meters DistanceUnit = iota
	Kilometers
	Miles
	NauticalMiles
	Yards
)

// AltitudeUnit tags heights. The base unit is the meter.
type AltitudeUnit int

const (
	AltitudeMeters AltitudeUnit = iota
	AltitudeFeet
)

// SpeedUnit tags speeds. The base unit is meters per second.
type SpeedUnit int

const (
	MetersPerSecond SpeedUnit = iota
	KilometersPerHour
	MilesPerHour
	Knots
)

// GradientUnit tags slopes. The base unit is percent.
type GradientUnit int

const (
	Percent GradientUnit = iota
	PerMille
)

// DurationUnit tags time spans. The base unit is the second.
type DurationUnit int

const (
	Seconds DurationUnit = iota
	Minutes
	Hours
	Days
)

// Domain aliases.
type (
	Distance = Measurement[DistanceUnit, float64]
	Altitude = Measurement[AltitudeUnit, float64]
	Speed    = Measurement[SpeedUnit, float64]
	Gradient = Measurement[GradientUnit, float64]
	Duration = Measurement[DurationUnit, int64]
)

func NewDistance(v float64, u DistanceUnit) Distance { return New(v, u) }
func NewAltitude(v float64, u AltitudeUnit) Altitude { return New(v, u) }
func NewSpeed(v float64, u SpeedUnit) Speed { return New(v, u) }
func NewGradient(v float64, u GradientUnit) Gradient { return New(v, u) }
func NewDuration(v int64, u DurationUnit) Duration { return New(v, u) }

// DurationOf converts a time.Duration to whole seconds.
func DurationOf(d time.Duration) Duration {
	return New(int64(d.Round(time.Second)/time.Second), Seconds)
}

// SpeedFrom returns d/t in meters per second. It is invalid for non-positive t.
func SpeedFrom(d Distance, t Duration) Speed {
	if !d.IsValid() || !t.IsPositive() {
		return Invalid[SpeedUnit, float64](MetersPerSecond)
	}
	meters := d.ConvertTo(Meters).Value()
	secs := t.ConvertTo(Seconds).Value()
	return New(meters/float64(secs), MetersPerSecond)
}

// factor looks up a unit size; unknown tags yield NaN so conversions
// through them come out invalid.
func factor(table []float64, i int) float64 {
	if i < 0 || i >= len(table) {
		return math.NaN()
	}
	return table[i]
}

var distanceFactors = [...]float64{1, 1000, 1609.344, 1852, 0.9144}
var distanceSymbols = [...]string{"m", "km", "mi", "NM", "yd"}

func (u DistanceUnit) base() float64 { return factor(distanceFactors[:], int(u)) }
func (u DistanceUnit) String() string {
	if int(u) < 0 || int(u) >= len(distanceSymbols) {
		return fmt.Sprintf("DistanceUnit(%d)", int(u))
	}
	return distanceSymbols[u]
}
func (u DistanceUnit) precision() int {
	if u == Meters || u == Yards {
		return 0
	}
	return 2
}

// nice renders short distances in the unit's small companion so that
// 300 m never shows up as "0.30 km".
func (u DistanceUnit) nice(meters float64) string {
	switch u {
	case Kilometers:
		if meters < 1000 {
			return fmt.Sprintf("%.0f m", meters)
		}
	case Miles:
		if meters < distanceFactors[Miles] {
			return fmt.Sprintf("%.0f yd", meters/distanceFactors[Yards])
		}
	case NauticalMiles:
		if meters < 0.1*distanceFactors[NauticalMiles] {
			return fmt.Sprintf("%.0f m", meters)
		}
	case Meters:
		if meters >= 10000 {
			return fmt.Sprintf("%.2f km", meters/1000)
		}
	}
	return formatValue(meters/u.base(), u.precision(), u.String())
}

var altitudeFactors = [...]float64{1, 0.3048}
var altitudeSymbols = [...]string{"m", "ft"}

func (u AltitudeUnit) base() float64 { return factor(altitudeFactors[:], int(u)) }
func (u AltitudeUnit) String() string {
	if int(u) < 0 || int(u) >= len(altitudeSymbols) {
		return fmt.Sprintf("AltitudeUnit(%d)", int(u))
	}
	return altitudeSymbols[u]
}
func (u AltitudeUnit) precision() int { return 0 }
func (u AltitudeUnit) nice(meters float64) string {
	return formatValue(meters/u.base(), u.precision(), u.String())
}

var speedFactors = [...]float64{1, 1 / 3.6, 0.44704, 1852.0 / 3600.0}
var speedSymbols = [...]string{"m/s", "km/h", "mph", "kn"}

func (u SpeedUnit) base() float64 { return factor(speedFactors[:], int(u)) }
func (u SpeedUnit) String() string {
	if int(u) < 0 || int(u) >= len(speedSymbols) {
		return fmt.Sprintf("SpeedUnit(%d)", int(u))
	}
	return speedSymbols[u]
}
func (u SpeedUnit) precision() int { return 1 }
func (u SpeedUnit) nice(mps float64) string {
	return formatValue(mps/u.base(), u.precision(), u.String())
}

var gradientFactors = [...]float64{1, 0.1}
var gradientSymbols = [...]string{"%", "‰"}

func (u GradientUnit) base() float64 { return factor(gradientFactors[:], int(u)) }
func (u GradientUnit) String() string {
	if int(u) < 0 || int(u) >= len(gradientSymbols) {
		return fmt.Sprintf("GradientUnit(%d)", int(u))
	}
	return gradientSymbols[u]
}
func (u GradientUnit) precision() int { return 1 }
func (u GradientUnit) nice(pct float64) string {
	return fmt.Sprintf("%.*f%s", u.precision(), pct/u.base(), u.String())
}

var durationFactors = [...]float64{1, 60, 3600, 86400}
var durationSymbols = [...]string{"s", "min", "h", "d"}

func (u DurationUnit) base() float64 { return factor(durationFactors[:], int(u)) }
func (u DurationUnit) String() string {
	if int(u) < 0 || int(u) >= len(durationSymbols) {
		return fmt.Sprintf("DurationUnit(%d)", int(u))
	}
	return durationSymbols[u]
}
func (u DurationUnit) precision() int { return 0 }

// nice renders a duration as its two or three most significant components,
// e.g. "2d 03h", "1h 02m 03s", "4m 05s".
func (u DurationUnit) nice(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	s := int64(seconds + 0.5)
	d, s := s/86400, s%86400
	h, s := s/3600, s%3600
	m, s := s/60, s%60
	switch {
	case d > 0:
		return fmt.Sprintf("%s%dd %02dh", sign, d, h)
	case h > 0:
		return fmt.Sprintf("%s%dh %02dm %02ds", sign, h, m, s)
	case m > 0:
		return fmt.Sprintf("%s%dm %02ds", sign, m, s)
	}
	return fmt.Sprintf("%s%ds", sign, s)
}

// Units selects the display unit of every domain.
type Units struct {
	Distance DistanceUnit
	Altitude AltitudeUnit
	Speed    SpeedUnit
	Gradient GradientUnit
	Duration DurationUnit
}

// DefaultUnits returns metric display units.
func DefaultUnits() Units {
	return Units{
		Distance: Kilometers,
		Altitude: AltitudeMeters,
		Speed:    KilometersPerHour,
		Gradient: Percent,
		Duration: Seconds,
	}
}

// ImperialUnits returns statute display units.
func ImperialUnits() Units {
	return Units{
		Distance: Miles,
		Altitude: AltitudeFeet,
		Speed:    MilesPerHour,
		Gradient: Percent,
		Duration: Seconds,
	}
}

func ParseDistanceUnit(s string) (DistanceUnit, error) {
	switch normalize(s) {
	case "m", "meter", "meters", "metre", "metres":
		return Meters, nil
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return Kilometers, nil
	case "mi", "mile", "miles":
		return Miles, nil
	case "nm", "nmi", "nautical", "nauticalmiles":
		return NauticalMiles, nil
	case "yd", "yard", "yards":
		return Yards, nil
	}
	return 0, fmt.Errorf("%w: distance %q", ErrUnknownUnit, s)
}

func ParseAltitudeUnit(s string) (AltitudeUnit, error) {
	switch normalize(s) {
	case "m", "meter", "meters", "metre", "metres":
		return AltitudeMeters, nil
	case "ft", "foot", "feet":
		return AltitudeFeet, nil
	}
	return 0, fmt.Errorf("%w: altitude %q", ErrUnknownUnit, s)
}

func ParseSpeedUnit(s string) (SpeedUnit, error) {
	switch normalize(s) {
	case "m/s", "mps", "ms":
		return MetersPerSecond, nil
	case "km/h", "kmh", "kph":
		return KilometersPerHour, nil
	case "mph", "mi/h":
		return MilesPerHour, nil
	case "kn", "kt", "kts", "knot", "knots":
		return Knots, nil
	}
	return 0, fmt.Errorf("%w: speed %q", ErrUnknownUnit, s)
}

func ParseGradientUnit(s string) (GradientUnit, error) {
	switch normalize(s) {
	case "%", "percent", "pct":
		return Percent, nil
	case "‰", "permille":
		return PerMille, nil
	}
	return 0, fmt.Errorf("%w: gradient %q", ErrUnknownUnit, s)
}

func ParseDurationUnit(s string) (DurationUnit, error) {
	switch normalize(s) {
	case "s", "sec", "second", "seconds":
		return Seconds, nil
	case "min", "minute", "minutes":
		return Minutes, nil
	case "h", "hour", "hours":
		return Hours, nil
	case "d", "day", "days":
		return Days, nil
	}
	return 0, fmt.Errorf("%w: duration %q", ErrUnknownUnit, s)
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}
