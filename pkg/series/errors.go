package series

import "errors"

var (
	// ErrEmptyTrack is returned for a track without points.
	ErrEmptyTrack = errors.New("series: track is empty")
	// ErrTooFewPoints is returned when fewer than two points are available.
	ErrTooFewPoints = errors.New("series: need at least two points")
	// ErrZeroSpan is returned when the x axis has no extent.
	ErrZeroSpan = errors.New("series: zero span on x axis")
	// ErrNoTimestamps is returned for a time axis on a track without times.
	ErrNoTimestamps = errors.New("series: track has no timestamps")
	// ErrNoData is returned when no y value at all could be computed.
	ErrNoData = errors.New("series: no data")
	// ErrBadTarget is returned for an impossible resampling target.
	ErrBadTarget = errors.New("series: invalid target count")
	// ErrUnsupportedKind is returned for unknown kinds and for area
	// resampling of anything but altitude over distance.
	ErrUnsupportedKind = errors.New("series: unsupported kind")
)
