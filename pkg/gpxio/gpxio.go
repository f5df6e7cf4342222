// Package gpxio converts between GPX documents and tracks.
package gpxio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
	"gpstrack/pkg/track"
)

var (
	ErrNoTracks = errors.New("gpx: document holds no tracks or routes")
)

const creator = "gpstrack"

var fixNames = map[string]track.FixMode{
	"none": track.FixNone,
	"2d":   track.Fix2D,
	"3d":   track.Fix3D,
	"dgps": track.FixDGPS,
	"pps":  track.FixPPS,
}

// LoadFile reads every track and route from a GPX file.
func LoadFile(path string) ([]*track.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tracks, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tracks, nil
}

// Load parses a GPX document. Each track segment after the first is marked
// with NewSegment on its first point; routes become tracks with IsRoute set.
func Load(r io.Reader) ([]*track.Track, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}

	var out []*track.Track
	for i := range doc.Tracks {
		out = append(out, fromTrack(&doc.Tracks[i]))
	}
	for i := range doc.Routes {
		out = append(out, fromRoute(&doc.Routes[i]))
	}
	if len(out) == 0 {
		return nil, ErrNoTracks
	}
	slog.Debug("GPX loaded", "tracks", len(doc.Tracks), "routes", len(doc.Routes))
	return out, nil
}

func fromTrack(gt *gpx.GPXTrack) *track.Track {
	t := track.New(gt.Name)
	t.Comment = gt.Comment
	t.Description = gt.Description
	t.Source = gt.Source
	t.Type = gt.Type
	for s := range gt.Segments {
		for i := range gt.Segments[s].Points {
			p := fromPoint(&gt.Segments[s].Points[i])
			p.NewSegment = i == 0
			_ = t.Append(p)
		}
	}
	return t
}

func fromRoute(gr *gpx.GPXRoute) *track.Track {
	t := track.New(gr.Name)
	t.Comment = gr.Comment
	t.Description = gr.Description
	t.Source = gr.Source
	t.Type = gr.Type
	t.IsRoute = true
	for i := range gr.Points {
		_ = t.Append(fromPoint(&gr.Points[i]))
	}
	return t
}

func fromPoint(gp *gpx.GPXPoint) *track.Trackpoint {
	p := track.NewTrackpoint(geo.Point{Lat: gp.Latitude, Lon: gp.Longitude})
	p.Time = gp.Timestamp
	p.Name = gp.Name
	if gp.Elevation.NotNull() {
		p.SetAltitude(measure.NewAltitude(gp.Elevation.Value(), measure.AltitudeMeters))
	}
	if gp.Satellites.NotNull() {
		p.Sats = gp.Satellites.Value()
	}
	if gp.HorizontalDilution.NotNull() {
		p.HDOP = gp.HorizontalDilution.Value()
	}
	if gp.VerticalDilution.NotNull() {
		p.VDOP = gp.VerticalDilution.Value()
	}
	if gp.PositionalDilution.NotNull() {
		p.PDOP = gp.PositionalDilution.Value()
	}
	if fix, ok := fixNames[strings.ToLower(gp.TypeOfGpsFix)]; ok {
		p.Fix = fix
	}
	return p
}

// Write encodes tracks as a GPX 1.1 document. Routes are written as <rte>
// and lose their segment boundaries.
func Write(w io.Writer, tracks []*track.Track) error {
	doc := &gpx.GPX{Creator: creator, Version: "1.1"}
	for _, t := range tracks {
		if t.IsRoute {
			doc.Routes = append(doc.Routes, toRoute(t))
			continue
		}
		doc.Tracks = append(doc.Tracks, toTrack(t))
	}
	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("encode gpx: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes tracks to path, replacing any existing file.
func WriteFile(path string, tracks []*track.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, tracks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toTrack(t *track.Track) gpx.GPXTrack {
	gt := gpx.GPXTrack{
		Name:        t.Name,
		Comment:     t.Comment,
		Description: t.Description,
		Source:      t.Source,
		Type:        t.Type,
	}
	for _, p := range t.Points() {
		if p.NewSegment || len(gt.Segments) == 0 {
			gt.Segments = append(gt.Segments, gpx.GPXTrackSegment{})
		}
		seg := &gt.Segments[len(gt.Segments)-1]
		seg.Points = append(seg.Points, toPoint(p))
	}
	return gt
}

func toRoute(t *track.Track) gpx.GPXRoute {
	gr := gpx.GPXRoute{
		Name:        t.Name,
		Comment:     t.Comment,
		Description: t.Description,
		Source:      t.Source,
		Type:        t.Type,
	}
	for _, p := range t.Points() {
		gr.Points = append(gr.Points, toPoint(p))
	}
	return gr
}

func toPoint(p *track.Trackpoint) gpx.GPXPoint {
	gp := gpx.GPXPoint{
		Point: gpx.Point{Latitude: p.Position.Lat, Longitude: p.Position.Lon},
		Name:  p.Name,
	}
	if p.HasTime() {
		gp.Timestamp = p.Time.UTC()
	}
	if p.HasAltitude() {
		gp.Elevation = *gpx.NewNullableFloat64(p.Altitude.Value())
	}
	if p.Sats > 0 {
		gp.Satellites = *gpx.NewNullableInt(p.Sats)
	}
	if !math.IsNaN(p.HDOP) {
		gp.HorizontalDilution = *gpx.NewNullableFloat64(p.HDOP)
	}
	if !math.IsNaN(p.VDOP) {
		gp.VerticalDilution = *gpx.NewNullableFloat64(p.VDOP)
	}
	if !math.IsNaN(p.PDOP) {
		gp.PositionalDilution = *gpx.NewNullableFloat64(p.PDOP)
	}
	for name, fix := range fixNames {
		if fix == p.Fix {
			gp.TypeOfGpsFix = name
			break
		}
	}
	return gp
}
