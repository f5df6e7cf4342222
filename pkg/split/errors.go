package split

import "errors"

var (
	// ErrEndpoint is returned when asked to cut at the first or last point.
	ErrEndpoint = errors.New("split: cannot cut at the first or last point")
	// ErrBadStride is returned for a non-positive point count.
	ErrBadStride = errors.New("split: point count must be positive")
	// ErrBadGap is returned for a non-positive time gap.
	ErrBadGap = errors.New("split: time gap must be positive")
	// ErrCutOrder is returned when cut points are not in track order.
	ErrCutOrder = errors.New("split: cuts out of order")
)
