package measure

import "fmt"

const invalidString = "--"

// String renders the value followed by its unit symbol.
func (m Measurement[U, T]) String() string {
	if !m.valid {
		return invalidString
	}
	return formatValue(float64(m.value), m.unit.precision(), m.unit.String())
}

// ValueString renders the value alone.
func (m Measurement[U, T]) ValueString() string {
	if !m.valid {
		return invalidString
	}
	return fmt.Sprintf("%.*f", m.unit.precision(), float64(m.value))
}

// NiceString renders the value scaled for reading, e.g. 0.35 km becomes "350 m".
func (m Measurement[U, T]) NiceString() string {
	if !m.valid || !isFinite(m.unit.base()) {
		return invalidString
	}
	return m.unit.nice(float64(m.value) * m.unit.base())
}

func formatValue(v float64, prec int, symbol string) string {
	return fmt.Sprintf("%.*f %s", prec, v, symbol)
}
