package measure

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNew_Validity(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  bool
	}{
		{"Zero", 0, true},
		{"Positive", 12.5, true},
		{"NaN", math.NaN(), false},
		{"PosInf", math.Inf(1), false},
		{"NegInf", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewDistance(tt.value, Meters).IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}

	var zero Distance
	if zero.IsValid() {
		t.Error("zero value should be invalid")
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	distances := []DistanceUnit{Meters, Kilometers, Miles, NauticalMiles, Yards}
	for _, from := range distances {
		for _, to := range distances {
			orig := NewDistance(1234.5678, from)
			back := orig.ConvertTo(to).ConvertTo(from)
			if math.Abs(back.Value()-orig.Value()) > 1e-9 {
				t.Errorf("%v -> %v -> %v: got %v, want %v", from, to, from, back.Value(), orig.Value())
			}
		}
	}

	speeds := []SpeedUnit{MetersPerSecond, KilometersPerHour, MilesPerHour, Knots}
	for _, from := range speeds {
		for _, to := range speeds {
			orig := NewSpeed(27.3, from)
			back := orig.ConvertTo(to).ConvertTo(from)
			if math.Abs(back.Value()-orig.Value()) > 1e-9 {
				t.Errorf("%v -> %v: got %v, want %v", from, to, back.Value(), orig.Value())
			}
		}
	}

	alt := NewAltitude(8848, AltitudeMeters)
	if got := alt.ConvertTo(AltitudeFeet).ConvertTo(AltitudeMeters).Value(); math.Abs(got-8848) > 1e-9 {
		t.Errorf("altitude round trip = %v", got)
	}
}

func TestConvert_Values(t *testing.T) {
	if got := NewDistance(1500, Meters).ConvertTo(Kilometers).Value(); got != 1.5 {
		t.Errorf("1500 m = %v km, want 1.5", got)
	}
	if got := NewSpeed(10, MetersPerSecond).ConvertTo(KilometersPerHour).Value(); math.Abs(got-36) > 1e-9 {
		t.Errorf("10 m/s = %v km/h, want 36", got)
	}
	if got := NewAltitude(1000, AltitudeFeet).ConvertTo(AltitudeMeters).Value(); math.Abs(got-304.8) > 1e-9 {
		t.Errorf("1000 ft = %v m, want 304.8", got)
	}
	// Integral domain rounds to the nearest whole unit.
	if got := NewDuration(90, Seconds).ConvertTo(Minutes).Value(); got != 2 {
		t.Errorf("90 s = %v min, want 2", got)
	}
	if got := NewDuration(2, Hours).ConvertTo(Seconds).Value(); got != 7200 {
		t.Errorf("2 h = %v s, want 7200", got)
	}
}

func TestConvertInPlace(t *testing.T) {
	d := NewDistance(2, Kilometers)
	if err := d.Convert(Meters); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if d.Value() != 2000 || d.Unit() != Meters {
		t.Errorf("got %v %v, want 2000 m", d.Value(), d.Unit())
	}

	var bad Distance
	err := bad.Convert(Miles)
	if !errors.Is(err, ErrInvalidMeasurement) {
		t.Errorf("Convert() on invalid error = %v, want ErrInvalidMeasurement", err)
	}
	if bad.Unit() != Miles {
		t.Errorf("unit should switch even when invalid, got %v", bad.Unit())
	}
}

func TestConvert_UnknownUnit(t *testing.T) {
	bogus := DistanceUnit(9)
	if NewDistance(1, bogus).ConvertTo(Meters).IsValid() {
		t.Error("conversion from an unknown unit should be invalid")
	}
	if NewDistance(1, Meters).ConvertTo(bogus).IsValid() {
		t.Error("conversion to an unknown unit should be invalid")
	}
	if got := NewDuration(60, DurationUnit(-1)).ConvertTo(Seconds); got.IsValid() {
		t.Errorf("duration from an unknown unit = %v", got)
	}
	if got := NewSpeed(3, SpeedUnit(7)).NiceString(); got != "--" {
		t.Errorf("NiceString = %q", got)
	}
	if !math.IsNaN(FromBase(1, GradientUnit(5))) {
		t.Error("FromBase with an unknown unit should be NaN")
	}
}

func TestArithmetic(t *testing.T) {
	a := NewDistance(100, Meters)
	b := NewDistance(25, Meters)

	if got := a.Add(b); !got.IsValid() || got.Value() != 125 {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); !got.IsValid() || got.Value() != 75 {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(3); got.Value() != 300 {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Div(4); got.Value() != 25 {
		t.Errorf("Div = %v", got)
	}
	if got := a.Div(0); got.IsValid() {
		t.Error("Div(0) should be invalid")
	}

	// Mismatched units never coerce.
	km := NewDistance(1, Kilometers)
	if got := a.Add(km); got.IsValid() {
		t.Error("Add with mismatched units should be invalid")
	}

	// Invalidity propagates through a chain.
	var invalid Distance
	chain := a.Add(invalid).Add(b).Mul(2)
	if chain.IsValid() {
		t.Error("invalid operand should propagate through the chain")
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b Distance
		want float64
	}{
		{"Half", NewDistance(50, Meters), NewDistance(100, Meters), 0.5},
		{"ZeroDivisor", NewDistance(50, Meters), NewDistance(0, Meters), math.NaN()},
		{"Mismatch", NewDistance(50, Meters), NewDistance(1, Kilometers), math.NaN()},
		{"Invalid", Distance{}, NewDistance(1, Meters), math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Ratio(tt.b)
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("Ratio() = %v, want NaN", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a := NewSpeed(5, MetersPerSecond)
	b := NewSpeed(7, MetersPerSecond)

	if c, err := a.Compare(b); err != nil || c != -1 {
		t.Errorf("Compare = %d, %v", c, err)
	}
	if !a.Less(b) || a.Greater(b) || a.Equal(b) {
		t.Error("unexpected ordering")
	}
	if _, err := a.Compare(NewSpeed(5, Knots)); !errors.Is(err, ErrUnitMismatch) {
		t.Errorf("Compare mismatched error = %v", err)
	}
	if _, err := a.Compare(Speed{}); !errors.Is(err, ErrInvalidMeasurement) {
		t.Errorf("Compare invalid error = %v", err)
	}
	if a.Less(NewSpeed(9, Knots)) {
		t.Error("Less across units should be false")
	}
}

func TestSignPredicates(t *testing.T) {
	var invalid Altitude
	if invalid.IsZero() || invalid.IsPositive() || invalid.IsNegative() {
		t.Error("invalid measurement must report false for all sign predicates")
	}
	if !NewAltitude(0, AltitudeMeters).IsZero() {
		t.Error("0 should be zero")
	}
	if !NewAltitude(-3, AltitudeMeters).IsNegative() {
		t.Error("-3 should be negative")
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Distance", NewDistance(12.346, Kilometers).String(), "12.35 km"},
		{"DistanceValue", NewDistance(12.346, Kilometers).ValueString(), "12.35"},
		{"NiceSmallKm", NewDistance(0.35, Kilometers).NiceString(), "350 m"},
		{"NiceLargeKm", NewDistance(3.5, Kilometers).NiceString(), "3.50 km"},
		{"NiceSmallMiles", NewDistance(0.5, Miles).NiceString(), "880 yd"},
		{"Altitude", NewAltitude(1234.4, AltitudeMeters).String(), "1234 m"},
		{"Speed", NewSpeed(36, KilometersPerHour).String(), "36.0 km/h"},
		{"Gradient", NewGradient(4.26, Percent).NiceString(), "4.3%"},
		{"DurationNice", NewDuration(3723, Seconds).NiceString(), "1h 02m 03s"},
		{"DurationDays", NewDuration(2, Days).NiceString(), "2d 00h"},
		{"DurationShort", NewDuration(42, Seconds).NiceString(), "42s"},
		{"Invalid", Distance{}.String(), "--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSpeedFrom(t *testing.T) {
	s := SpeedFrom(NewDistance(300, Meters), NewDuration(30, Seconds))
	if !s.IsValid() || s.Value() != 10 {
		t.Errorf("SpeedFrom = %v, want 10 m/s", s)
	}
	if SpeedFrom(NewDistance(300, Meters), NewDuration(0, Seconds)).IsValid() {
		t.Error("zero duration should give an invalid speed")
	}
	if got := DurationOf(90 * time.Second).Value(); got != 90 {
		t.Errorf("DurationOf = %v", got)
	}
}

func TestParseUnits(t *testing.T) {
	if u, err := ParseDistanceUnit("KM"); err != nil || u != Kilometers {
		t.Errorf("ParseDistanceUnit = %v, %v", u, err)
	}
	if u, err := ParseSpeedUnit("knots"); err != nil || u != Knots {
		t.Errorf("ParseSpeedUnit = %v, %v", u, err)
	}
	if u, err := ParseAltitudeUnit("feet"); err != nil || u != AltitudeFeet {
		t.Errorf("ParseAltitudeUnit = %v, %v", u, err)
	}
	if u, err := ParseDurationUnit("min"); err != nil || u != Minutes {
		t.Errorf("ParseDurationUnit = %v, %v", u, err)
	}
	if _, err := ParseDistanceUnit("furlong"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}
