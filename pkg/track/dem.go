package track

import (
	"context"
	"errors"
	"log/slog"

	"gpstrack/pkg/logging"
	"gpstrack/pkg/terrain"
)

// DEMOptions controls ApplyDEM.
type DEMOptions struct {
	Interpolation terrain.Interpolation
	// OnlyMissing keeps existing altitudes and fills in the gaps only.
	OnlyMissing bool
}

// ProgressFunc receives the number of points processed so far and the total.
type ProgressFunc func(done, total int)

// ApplyDEM overwrites point altitudes with values from src and returns the
// number of points changed. Cancellation is checked after every point; a
// cancelled run returns the context error and keeps the altitudes already
// applied.
func (t *Track) ApplyDEM(ctx context.Context, src terrain.Source, opts DEMOptions, progress ProgressFunc) (int, error) {
	if t.n == 0 {
		return 0, ErrEmptyTrack
	}
	changed, done := 0, 0
	for p := t.head; p != nil; p = p.next {
		if !opts.OnlyMissing || !p.HasAltitude() {
			alt, err := src.Altitude(ctx, p.Position, opts.Interpolation)
			switch {
			case err == nil:
				logging.TraceDefault("DEM altitude applied", "lat", p.Position.Lat, "lon", p.Position.Lon, "alt", alt)
				p.SetAltitude(alt)
				changed++
			case errors.Is(err, terrain.ErrUnavailable):
			default:
				slog.Debug("DEM lookup failed", "lat", p.Position.Lat, "lon", p.Position.Lon, "error", err)
			}
		}
		done++
		if progress != nil {
			progress(done, t.n)
		}
		if err := ctx.Err(); err != nil {
			return changed, err
		}
	}
	return changed, nil
}
