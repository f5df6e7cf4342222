// Package split partitions a track into several tracks at cut points.
package split

import (
	"fmt"
	"log/slog"

	"gpstrack/pkg/logging"
	"gpstrack/pkg/track"
)

// Split moves the points of t into consecutive ranges, one per cut. Each cut
// is the first point of a new range; the points before the first cut stay in
// t. Points are moved, not copied, and every new track inherits t's metadata
// under the name "<name> #k". The result starts with t itself.
//
// With no cuts only the implicit begin and end boundaries exist and Split
// returns nil, nil: there is nothing to do, which is not an error.
func Split(t *track.Track, cuts []*track.Trackpoint) ([]*track.Track, error) {
	if t.IsEmpty() {
		return nil, track.ErrEmptyTrack
	}
	if len(cuts) == 0 {
		return nil, nil
	}
	if err := validate(t, cuts); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "split")

	// Ranges are carved off the tail so every cut still resolves to its
	// own successor range.
	parts := make([]*track.Track, len(cuts))
	for i := len(cuts) - 1; i >= 0; i-- {
		dst := t.CopyMetadata()
		dst.Name = fmt.Sprintf("%s #%d", t.Name, i+2)
		if err := t.MoveRange(cuts[i], t.Last(), dst); err != nil {
			return nil, err
		}
		parts[i] = dst
		logging.Trace(logger, "Range moved", "part", dst.Name, "points", dst.Len())
	}

	out := append([]*track.Track{t}, parts...)
	logger.Info("Track split", "track", t.Name, "parts", len(out))
	return out, nil
}

// validate checks membership, that no cut is the first point, and strict
// order along the track.
func validate(t *track.Track, cuts []*track.Trackpoint) error {
	next := 0
	for i, p := range t.Points() {
		if next == len(cuts) {
			break
		}
		if p != cuts[next] {
			continue
		}
		if i == 0 {
			return ErrEndpoint
		}
		next++
	}
	if next == len(cuts) {
		return nil
	}
	for _, c := range cuts[next:] {
		if !t.Contains(c) {
			return track.ErrNotMember
		}
	}
	return ErrCutOrder
}
