package measure

import "errors"

var (
	// ErrUnitMismatch indicates arithmetic or comparison between two different units.
	ErrUnitMismatch = errors.New("measurement unit mismatch")
	// ErrInvalidMeasurement indicates an operand carried no valid value.
	ErrInvalidMeasurement = errors.New("invalid measurement")
	// ErrUnknownUnit indicates a unit name that could not be parsed.
	ErrUnknownUnit = errors.New("unknown unit")
)
