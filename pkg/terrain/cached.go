package terrain

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/uber/h3-go/v4"

	"gpstrack/pkg/cache"
	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
)

// DefaultCacheResolution is the H3 resolution of cache keys. Cells at
// resolution 12 have an edge of roughly 10 m.
const DefaultCacheResolution = 12

// CachedSource remembers the lookups of another Source in a persistent cache.
// Every coordinate inside one H3 cell shares the cached altitude, and
// coordinates without data are remembered as well.
type CachedSource struct {
	src        Source
	cache      cache.Cacher
	resolution int
}

// NewCachedSource wraps src. A resolution outside 0..15 selects the default.
func NewCachedSource(src Source, c cache.Cacher, resolution int) *CachedSource {
	if resolution < 0 || resolution > 15 {
		resolution = DefaultCacheResolution
	}
	return &CachedSource{src: src, cache: c, resolution: resolution}
}

// Altitude implements Source.
func (c *CachedSource) Altitude(ctx context.Context, p geo.Point, interp Interpolation) (measure.Altitude, error) {
	key, err := c.key(p, interp)
	if err != nil {
		return c.src.Altitude(ctx, p, interp)
	}

	if b, ok := c.cache.GetCache(ctx, key); ok && len(b) == 8 {
		v := math.Float64frombits(binary.LittleEndian.Uint64(b))
		if math.IsNaN(v) {
			return measure.Altitude{}, ErrUnavailable
		}
		return measure.NewAltitude(v, measure.AltitudeMeters), nil
	}

	alt, err := c.src.Altitude(ctx, p, interp)
	v := math.NaN()
	switch {
	case err == nil:
		v = alt.ConvertTo(measure.AltitudeMeters).Value()
	case !errors.Is(err, ErrUnavailable):
		return alt, err
	}

	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	if serr := c.cache.SetCache(ctx, key, b); serr != nil {
		slog.Debug("DEM cache write failed", "key", key, "error", serr)
	}
	return alt, err
}

// CacheKeyPrefix starts every key CachedSource writes.
const CacheKeyPrefix = "dem:"

func (c *CachedSource) key(p geo.Point, interp Interpolation) (string, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lon), c.resolution)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d:%s", CacheKeyPrefix, interp, cell.String()), nil
}
