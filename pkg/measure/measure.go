package measure

import (
	"log/slog"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the underlying numeric type of a measurement domain.
type Number interface {
	constraints.Integer | constraints.Float
}

// Unit is implemented by the unit tag of every measurement domain.
// base reports the size of one unit expressed in the domain's base unit
// (meters, meters per second, seconds, percent).
type Unit interface {
	comparable
	String() string
	base() float64
	precision() int
	nice(baseValue float64) string
}

// Measurement is a scalar value tagged with its unit and a validity flag.
// The zero value is invalid.
type Measurement[U Unit, T Number] struct {
	value T
	unit  U
	valid bool
}

// New creates a measurement. NaN and infinite values produce an invalid measurement.
func New[U Unit, T Number](v T, u U) Measurement[U, T] {
	return Measurement[U, T]{value: v, unit: u, valid: isFinite(float64(v))}
}

// Invalid returns an invalid measurement in the given unit.
func Invalid[U Unit, T Number](u U) Measurement[U, T] {
	return Measurement[U, T]{unit: u}
}

func (m Measurement[U, T]) IsValid() bool { return m.valid }

// Value returns the raw value. It is meaningless when the measurement is invalid.
func (m Measurement[U, T]) Value() T { return m.value }

func (m Measurement[U, T]) Unit() U { return m.unit }

// Float returns the value as float64, or NaN when invalid.
func (m Measurement[U, T]) Float() float64 {
	if !m.valid {
		return math.NaN()
	}
	return float64(m.value)
}

// ConvertTo returns the measurement expressed in unit u.
func (m Measurement[U, T]) ConvertTo(u U) Measurement[U, T] {
	if !m.valid {
		return Invalid[U, T](u)
	}
	if m.unit == u {
		return m
	}
	f := float64(m.value) * m.unit.base() / u.base()
	if !isFinite(f) {
		return Invalid[U, T](u)
	}
	return New(fromFloat[T](f), u)
}

// FromBase expresses v, given in the base unit of u's domain, in u.
// Series use it to convert whole arrays without building measurements.
func FromBase[U Unit](v float64, u U) float64 { return v / u.base() }

// ToBase is the inverse of FromBase.
func ToBase[U Unit](v float64, u U) float64 { return v * u.base() }

// Convert converts the measurement in place. The unit is switched even when
// the value is invalid, in which case ErrInvalidMeasurement is returned.
func (m *Measurement[U, T]) Convert(u U) error {
	if !m.valid {
		m.unit = u
		return ErrInvalidMeasurement
	}
	*m = m.ConvertTo(u)
	return nil
}

// Add returns m+o. Both operands must be valid and share a unit.
func (m Measurement[U, T]) Add(o Measurement[U, T]) Measurement[U, T] {
	if !m.compatible(o, "add") {
		return Invalid[U, T](m.unit)
	}
	return New(m.value+o.value, m.unit)
}

// Sub returns m-o. Both operands must be valid and share a unit.
func (m Measurement[U, T]) Sub(o Measurement[U, T]) Measurement[U, T] {
	if !m.compatible(o, "sub") {
		return Invalid[U, T](m.unit)
	}
	return New(m.value-o.value, m.unit)
}

// Mul scales the measurement by a dimensionless factor.
func (m Measurement[U, T]) Mul(f float64) Measurement[U, T] {
	if !m.valid || !isFinite(f) {
		return Invalid[U, T](m.unit)
	}
	return New(fromFloat[T](float64(m.value)*f), m.unit)
}

// Div divides the measurement by a dimensionless factor. Division by zero is invalid.
func (m Measurement[U, T]) Div(f float64) Measurement[U, T] {
	if !m.valid || f == 0 || !isFinite(f) {
		return Invalid[U, T](m.unit)
	}
	return New(fromFloat[T](float64(m.value)/f), m.unit)
}

// Ratio returns m/o as a dimensionless number. It is NaN when either operand
// is invalid, the units differ or o is zero.
func (m Measurement[U, T]) Ratio(o Measurement[U, T]) float64 {
	if !m.valid || !o.valid || m.unit != o.unit || o.value == 0 {
		return math.NaN()
	}
	return float64(m.value) / float64(o.value)
}

// Compare returns -1, 0 or +1. Units must match and both values must be valid.
func (m Measurement[U, T]) Compare(o Measurement[U, T]) (int, error) {
	if !m.valid || !o.valid {
		return 0, ErrInvalidMeasurement
	}
	if m.unit != o.unit {
		return 0, ErrUnitMismatch
	}
	switch {
	case m.value < o.value:
		return -1, nil
	case m.value > o.value:
		return 1, nil
	}
	return 0, nil
}

func (m Measurement[U, T]) Less(o Measurement[U, T]) bool {
	c, err := m.Compare(o)
	return err == nil && c < 0
}

func (m Measurement[U, T]) Greater(o Measurement[U, T]) bool {
	c, err := m.Compare(o)
	return err == nil && c > 0
}

func (m Measurement[U, T]) Equal(o Measurement[U, T]) bool {
	c, err := m.Compare(o)
	return err == nil && c == 0
}

func (m Measurement[U, T]) IsZero() bool { return m.valid && m.value == 0 }
func (m Measurement[U, T]) IsPositive() bool { return m.valid && m.value > 0 }
func (m Measurement[U, T]) IsNegative() bool { return m.valid && m.value < 0 }

func (m Measurement[U, T]) compatible(o Measurement[U, T], op string) bool {
	if !m.valid || !o.valid {
		return false
	}
	if m.unit != o.unit {
		slog.Warn("Measurement unit mismatch", "op", op, "left", m.unit.String(), "right", o.unit.String())
		return false
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// integral reports whether T truncates fractions.
func integral[T Number]() bool {
	var x T = 1
	x /= 2
	return x == 0
}

func fromFloat[T Number](f float64) T {
	if integral[T]() {
		return T(math.Round(f))
	}
	return T(f)
}
