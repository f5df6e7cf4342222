package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"gpstrack/pkg/cache"
	"gpstrack/pkg/config"
	"gpstrack/pkg/db"
	"gpstrack/pkg/gpxio"
	"gpstrack/pkg/grid"
	"gpstrack/pkg/jobs"
	"gpstrack/pkg/measure"
	"gpstrack/pkg/series"
	"gpstrack/pkg/split"
	"gpstrack/pkg/terrain"
	"gpstrack/pkg/track"
)

type command func(ctx context.Context, args []string) error

// app carries what every command needs once the config is loaded.
type app struct {
	cfg   *config.Config
	units measure.Units
	sel   *grid.Selector
	out   io.Writer
	lp    *message.Printer
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	units, err := cfg.Units.Resolve()
	if err != nil {
		return nil, err
	}
	sel, err := cfg.Grid.Selector()
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(cfg.Units.Language)
	if err != nil {
		slog.Warn("Unknown report language, using English", "language", cfg.Units.Language)
		tag = language.English
	}
	return &app{cfg: cfg, units: units, sel: sel, out: out, lp: message.NewPrinter(tag)}, nil
}

func (a *app) commands() map[string]command {
	return map[string]command{
		"stats":   a.stats,
		"series":  a.series,
		"grid":    a.grid,
		"split":   a.split,
		"dedupe":  a.dedupe,
		"reverse": a.reverse,
		"dem":     a.dem,
	}
}

// positional pops a leading non-flag argument such as a series kind.
func positional(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}

// load returns the single file argument left after flag parsing and its tracks.
func load(fs *flag.FlagSet) (string, []*track.Track, error) {
	if fs.NArg() != 1 {
		return "", nil, fmt.Errorf("%s needs exactly one GPX file: %w", fs.Name(), errUsage)
	}
	file := fs.Arg(0)
	tracks, err := gpxio.LoadFile(file)
	if err != nil {
		return "", nil, err
	}
	return file, tracks, nil
}

// save writes tracks to output, or next to file with suffix appended.
func (a *app) save(file, output, suffix string, tracks []*track.Track) error {
	if output == "" {
		output = strings.TrimSuffix(file, filepath.Ext(file)) + "-" + suffix + ".gpx"
	}
	if err := gpxio.WriteFile(output, tracks); err != nil {
		return err
	}
	a.lp.Fprintf(a.out, "Wrote %d track(s) to %s\n", len(tracks), output)
	return nil
}

func (a *app) stats(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	stop := fs.Duration("stop", a.cfg.Stats.StopThreshold.Std(), "point-to-point interval above which the track counts as stopped")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, tracks, err := load(fs)
	if err != nil {
		return err
	}
	for _, t := range tracks {
		a.printSummary(t, t.Summarize(*stop))
	}
	return nil
}

func (a *app) printSummary(t *track.Track, s track.Summary) {
	u := a.units
	kind := "track"
	if t.IsRoute {
		kind = "route"
	}
	a.lp.Fprintf(a.out, "%s %q\n", kind, t.Name)
	a.lp.Fprintf(a.out, "  points          %d in %d segment(s)\n", s.Points, s.Segments)
	a.lp.Fprintf(a.out, "  length          %s (%s with gaps)\n",
		s.Length.ConvertTo(u.Distance).NiceString(), s.LengthWithGaps.ConvertTo(u.Distance).NiceString())

	duration := s.Elapsed
	if a.cfg.Stats.SegmentedDuration {
		duration = s.Moving
	}
	a.lp.Fprintf(a.out, "  duration        %s\n", duration.ConvertTo(u.Duration).NiceString())
	if !s.Start.IsZero() {
		a.lp.Fprintf(a.out, "  time            %s to %s\n", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	}
	a.lp.Fprintf(a.out, "  speed           avg %s, moving %s, max %s\n",
		s.AverageSpeed.ConvertTo(u.Speed), s.MovingSpeed.ConvertTo(u.Speed), s.MaxSpeed.ConvertTo(u.Speed))
	a.lp.Fprintf(a.out, "  altitude        %s to %s, +%s / -%s\n",
		s.MinAltitude.ConvertTo(u.Altitude), s.MaxAltitude.ConvertTo(u.Altitude),
		s.Gain.ConvertTo(u.Altitude), s.Loss.ConvertTo(u.Altitude))
	a.lp.Fprintf(a.out, "  duplicates      %d position(s), %d timestamp(s)\n", s.DupPositions, s.DupTimestamps)
}

func (a *app) series(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("series", flag.ContinueOnError)
	n := fs.Int("n", a.cfg.Series.Points, "number of output points")
	area := fs.Bool("area", a.cfg.Series.AreaPreserving, "area-preserving resampling for altitude-distance")
	raw := fs.Bool("raw", false, "print every point without resampling")

	name, rest := positional(args)
	kind, err := series.ParseKind(name)
	if err != nil {
		return fmt.Errorf("%w (kinds: %s)", err, kindNames())
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}
	_, tracks, err := load(fs)
	if err != nil {
		return err
	}

	gen := series.NewGenerator(a.units)
	for _, t := range tracks {
		s, err := a.resample(gen, t, kind, *n, *area && kind == series.AltitudeOverDistance, *raw)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		a.printSeries(t, s)
	}
	return nil
}

func (a *app) resample(gen *series.Generator, t *track.Track, kind series.Kind, n int, area, raw bool) (*series.Series, error) {
	if area && !raw {
		return gen.Compressed(t, kind, n, true)
	}
	s, err := gen.Generate(t, kind)
	if err != nil || raw || n >= s.Len() {
		return s, err
	}
	return s.Compress(n)
}

func (a *app) printSeries(t *track.Track, s *series.Series) {
	fmt.Fprintf(a.out, "# %s: %v, %d entries\n", t.Name, s.Kind, s.Len())
	fmt.Fprintf(a.out, "# x [%s]\ty [%s]\tsamples\n", s.XUnit, s.YUnit)
	for i := range s.X {
		y := "--"
		if s.Valid(i) {
			y = fmt.Sprintf("%.3f", s.Y[i])
		}
		count := 1
		if s.Counts != nil {
			count = s.Counts[i]
		}
		fmt.Fprintf(a.out, "%.3f\t%s\t%d\n", s.X[i], y, count)
	}
}

func kindNames() string {
	var names []string
	for _, k := range series.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func (a *app) grid(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	lines := fs.Int("lines", a.cfg.Grid.Lines, "target number of gridlines per axis")

	name, rest := positional(args)
	kind, err := series.ParseKind(name)
	if err != nil {
		return fmt.Errorf("%w (kinds: %s)", err, kindNames())
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}
	_, tracks, err := load(fs)
	if err != nil {
		return err
	}

	gen := series.NewGenerator(a.units)
	for _, t := range tracks {
		s, err := gen.Generate(t, kind)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		x, y, err := s.Grids(a.sel, *lines)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		a.lp.Fprintf(a.out, "%s: %v\n", t.Name, kind)
		a.printGrid("x", s.XUnit, s.XMin, s.XMax, x)
		a.printGrid("y", s.YUnit, s.YMin, s.YMax, y)
	}
	return nil
}

func (a *app) printGrid(axis, unit string, min, max float64, g grid.Grid) {
	values := make([]string, 0, g.Count)
	for _, v := range g.Values() {
		values = append(values, a.lp.Sprintf("%v", roundTo(v, 9)))
	}
	a.lp.Fprintf(a.out, "  %s [%s] range %.2f..%.2f every %v: %s\n", axis, unit, min, max, g.Interval, strings.Join(values, " "))
}

func (a *app) split(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	gap := fs.Duration("gap", a.cfg.Split.Gap.Std(), "time gap that starts a new track (gap mode)")
	n := fs.Int("n", a.cfg.Split.Points, "points per track (count mode)")
	at := fs.Int("at", -1, "index of the last point of the first track (point mode)")
	output := fs.String("o", "", "output file")

	mode, rest := positional(args)
	if err := fs.Parse(rest); err != nil {
		return err
	}
	file, tracks, err := load(fs)
	if err != nil {
		return err
	}

	var result []*track.Track
	for _, t := range tracks {
		var cuts []*track.Trackpoint
		switch mode {
		case "segments":
			cuts = split.BySegments(t)
		case "gap":
			cuts, err = split.ByTimeGap(t, *gap)
		case "count":
			cuts, err = split.ByPointCount(t, *n)
		case "point":
			p := t.At(*at)
			if p == nil {
				return fmt.Errorf("%s: no point at index %d", t.Name, *at)
			}
			cuts, err = split.AtPoint(t, p)
		default:
			return fmt.Errorf("unknown split mode %q (segments, gap, count, point): %w", mode, errUsage)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}

		parts, err := split.Split(t, cuts)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		if parts == nil {
			parts = []*track.Track{t}
		}
		result = append(result, parts...)
	}
	return a.save(file, *output, "split", result)
}

func (a *app) dedupe(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("dedupe", flag.ContinueOnError)
	times := fs.Bool("times", false, "also drop points repeating the previous timestamp")
	output := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	file, tracks, err := load(fs)
	if err != nil {
		return err
	}
	for _, t := range tracks {
		removed := t.RemoveDuplicatePositions()
		if *times {
			removed += t.RemoveDuplicateTimestamps()
		}
		a.lp.Fprintf(a.out, "%s: removed %d point(s)\n", t.Name, removed)
	}
	return a.save(file, *output, "dedupe", tracks)
}

func (a *app) reverse(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("reverse", flag.ContinueOnError)
	output := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	file, tracks, err := load(fs)
	if err != nil {
		return err
	}
	for _, t := range tracks {
		t.Reverse()
	}
	return a.save(file, *output, "reverse", tracks)
}

func (a *app) dem(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dem", flag.ContinueOnError)
	missing := fs.Bool("missing", a.cfg.Terrain.OnlyMissing, "only fill in points without altitude")
	output := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	file, tracks, err := load(fs)
	if err != nil {
		return err
	}
	interp, err := terrain.ParseInterpolation(a.cfg.Terrain.Interpolation)
	if err != nil {
		return err
	}

	src, dbConn, closeSrc, err := a.demSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	runner := jobs.NewRunner()
	defer runner.Wait()
	opts := track.DEMOptions{Interpolation: interp, OnlyMissing: *missing}
	for _, t := range tracks {
		job := jobs.NewDEMJob(t, src, opts)
		run, err := runner.Start(ctx, job)
		if err != nil {
			return err
		}
		if err := follow(run, t.Len()); err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		a.lp.Fprintf(a.out, "%s: %d of %d altitude(s) replaced\n", t.Name, job.Changed(), t.Len())
	}
	if dbConn != nil {
		if n, err := dbConn.CacheEntries(terrain.CacheKeyPrefix); err == nil {
			a.lp.Fprintf(a.out, "DEM cache holds %d lookup(s)\n", n)
		}
	}
	return a.save(file, *output, "dem", tracks)
}

// demSource opens the elevation grid, fronted by the SQLite lookup cache
// when it is enabled. The returned DB is nil without a cache.
func (a *app) demSource() (terrain.Source, *db.DB, func(), error) {
	elev, err := terrain.NewElevationProvider(a.cfg.Terrain.ElevationFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("elevation data: %w", err)
	}
	if !a.cfg.Cache.Enabled {
		return elev, nil, func() { elev.Close() }, nil
	}

	dbConn, err := db.Init(a.cfg.Cache.Path)
	if err != nil {
		elev.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if maxAge := a.cfg.Cache.MaxAge.Std(); maxAge > 0 {
		if n, err := dbConn.PruneCache(maxAge); err != nil {
			slog.Warn("DEM cache pruning failed", "error", err)
		} else if n > 0 {
			slog.Info("Pruned DEM cache", "entries", n)
		}
	}
	src := terrain.NewCachedSource(elev, cache.NewSQLiteCache(dbConn), a.cfg.Cache.Resolution)
	return src, dbConn, func() {
		elev.Close()
		dbConn.Close()
	}, nil
}

// follow renders the progress of run until it returns.
func follow(run *jobs.Run, total int) error {
	bar := progressbar.Default(int64(total), run.Name())
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-run.Done():
			done, _ := run.Progress()
			_ = bar.Set(done)
			_ = bar.Finish()
			return run.Wait()
		case <-tick.C:
			done, _ := run.Progress()
			_ = bar.Set(done)
		}
	}
}

// roundTo trims float noise from gridline values for display.
func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
