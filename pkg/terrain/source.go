package terrain

import (
	"context"
	"errors"
	"fmt"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
)

// ErrUnavailable indicates the elevation source has no data for a coordinate.
var ErrUnavailable = errors.New("elevation unavailable")

// Interpolation selects how a source blends neighbouring grid cells.
type Interpolation int

const (
	// InterpolationNone uses the nearest cell.
	InterpolationNone Interpolation = iota
	// InterpolationSimple averages the four surrounding cells.
	InterpolationSimple
	// InterpolationBest interpolates bilinearly between the four surrounding cells.
	InterpolationBest
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationNone:
		return "none"
	case InterpolationSimple:
		return "simple"
	case InterpolationBest:
		return "best"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation parses "none", "simple" or "best".
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "none", "nearest":
		return InterpolationNone, nil
	case "simple", "average":
		return InterpolationSimple, nil
	case "best", "bilinear":
		return InterpolationBest, nil
	}
	return InterpolationNone, fmt.Errorf("unknown interpolation %q", s)
}

// Source looks up ground elevation by coordinate.
type Source interface {
	Altitude(ctx context.Context, p geo.Point, interp Interpolation) (measure.Altitude, error)
}
