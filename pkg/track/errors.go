package track

import "errors"

var (
	// ErrEmptyTrack indicates an operation that needs points was given none.
	ErrEmptyTrack = errors.New("track has no points")
	// ErrNotMember indicates a point that does not belong to the track.
	ErrNotMember = errors.New("point does not belong to track")
	// ErrAlreadyOwned indicates an attempt to insert a point owned by a track.
	ErrAlreadyOwned = errors.New("point already belongs to a track")
	// ErrZeroSpan indicates a track whose length or duration is not positive.
	ErrZeroSpan = errors.New("track spans no distance or time")
	// ErrNoTimestamps indicates timestamps required by the operation are missing.
	ErrNoTimestamps = errors.New("track lacks required timestamps")
	// ErrStaleHandle indicates a handle invalidated by a structural edit.
	ErrStaleHandle = errors.New("stale trackpoint handle")
	// ErrBadRange indicates a point range that is not contiguous and ordered.
	ErrBadRange = errors.New("invalid point range")
)
