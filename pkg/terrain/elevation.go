package terrain

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
)

// Layout describes a row-major grid of 16-bit little-endian samples. Row 0
// is the northern edge; samples sit on the grid nodes.
type Layout struct {
	Rows, Cols  int
	North, West float64
	// Step is the node spacing in degrees.
	Step float64
	// WrapLon joins the eastern and western edges for global grids.
	WrapLon bool
	// NoData marks missing samples when HasNoData is set.
	NoData    int16
	HasNoData bool
}

// ETOPO1 is the layout of the global 1 arc-minute ETOPO1 grid.
var ETOPO1 = Layout{
	Rows:    10801,
	Cols:    21601,
	North:   90,
	West:    -180,
	Step:    1.0 / 60,
	WrapLon: true,
}

// Size is the expected file size in bytes.
func (l Layout) Size() int64 { return int64(l.Rows) * int64(l.Cols) * 2 }

// contains reports whether the coordinate falls inside the grid. Global
// grids accept every longitude east of their western edge.
func (l Layout) contains(lat, lon float64) bool {
	south := l.North - float64(l.Rows-1)*l.Step
	east := l.West + float64(l.Cols-1)*l.Step
	if l.WrapLon {
		east = l.West + 360
	}
	return lat <= l.North && lat >= south && lon >= l.West && lon <= east
}

// GridProvider reads elevations from a grid file.
type GridProvider struct {
	r      io.ReaderAt
	closer io.Closer
	layout Layout
}

// NewGridProvider reads samples laid out as l from r.
func NewGridProvider(r io.ReaderAt, l Layout) *GridProvider {
	return &GridProvider{r: r, layout: l}
}

// NewElevationProvider opens an ETOPO1 binary file.
func NewElevationProvider(path string) (*GridProvider, error) {
	return OpenGrid(path, ETOPO1)
}

// OpenGrid opens a grid file and checks its size against l.
func OpenGrid(path string, l Layout) (*GridProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.Size() != l.Size() {
		f.Close()
		return nil, fmt.Errorf("invalid grid file size: expected %d, got %d", l.Size(), info.Size())
	}

	return &GridProvider{r: f, closer: f, layout: l}, nil
}

// Close closes the underlying file, if the provider opened one.
func (g *GridProvider) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

// Elevation returns the sample nearest to lat/lon in meters.
func (g *GridProvider) Elevation(lat, lon float64) (int16, error) {
	if !g.layout.contains(lat, lon) {
		return 0, fmt.Errorf("%w: coordinates out of bounds: %f, %f", ErrUnavailable, lat, lon)
	}
	row, col := g.position(lat, lon)
	return g.sample(int(math.Round(row)), int(math.Round(col)))
}

// Altitude implements Source.
func (g *GridProvider) Altitude(ctx context.Context, p geo.Point, interp Interpolation) (measure.Altitude, error) {
	if err := ctx.Err(); err != nil {
		return measure.Altitude{}, err
	}
	if interp == InterpolationNone {
		v, err := g.Elevation(p.Lat, p.Lon)
		if err != nil {
			return measure.Altitude{}, err
		}
		return measure.NewAltitude(float64(v), measure.AltitudeMeters), nil
	}

	if !g.layout.contains(p.Lat, p.Lon) {
		return measure.Altitude{}, fmt.Errorf("%w: coordinates out of bounds: %f, %f", ErrUnavailable, p.Lat, p.Lon)
	}
	row, col := g.position(p.Lat, p.Lon)
	r0, c0 := int(math.Floor(row)), int(math.Floor(col))

	var s [2][2]float64
	for dr := range 2 {
		for dc := range 2 {
			v, err := g.sample(r0+dr, c0+dc)
			if err != nil {
				return measure.Altitude{}, err
			}
			s[dr][dc] = float64(v)
		}
	}

	var alt float64
	if interp == InterpolationSimple {
		alt = (s[0][0] + s[0][1] + s[1][0] + s[1][1]) / 4
	} else {
		fr, fc := row-float64(r0), col-float64(c0)
		top := s[0][0]*(1-fc) + s[0][1]*fc
		bottom := s[1][0]*(1-fc) + s[1][1]*fc
		alt = top*(1-fr) + bottom*fr
	}
	return measure.NewAltitude(alt, measure.AltitudeMeters), nil
}

// position returns the fractional grid row and column of lat/lon.
func (g *GridProvider) position(lat, lon float64) (row, col float64) {
	return (g.layout.North - lat) / g.layout.Step, (lon - g.layout.West) / g.layout.Step
}

// sample reads one node. Rows clamp to the grid; columns wrap on global
// grids and clamp otherwise.
func (g *GridProvider) sample(row, col int) (int16, error) {
	l := g.layout
	row = min(max(row, 0), l.Rows-1)
	if l.WrapLon {
		col = (col%l.Cols + l.Cols) % l.Cols
	} else {
		col = min(max(col, 0), l.Cols-1)
	}

	offset := (int64(row)*int64(l.Cols) + int64(col)) * 2
	b := make([]byte, 2)
	if _, err := g.r.ReadAt(b, offset); err != nil {
		return 0, err
	}

	val := int16(binary.LittleEndian.Uint16(b))
	if l.HasNoData && val == l.NoData {
		return 0, ErrUnavailable
	}
	return val, nil
}
