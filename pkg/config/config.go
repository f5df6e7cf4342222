package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gpstrack/pkg/grid"
	"gpstrack/pkg/measure"
	"gpstrack/pkg/terrain"
)

// Config holds the application configuration.
type Config struct {
	Units   UnitsConfig   `yaml:"units"`
	Stats   StatsConfig   `yaml:"stats"`
	Series  SeriesConfig  `yaml:"series"`
	Grid    GridConfig    `yaml:"grid"`
	Split   SplitConfig   `yaml:"split"`
	Terrain TerrainConfig `yaml:"terrain"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

// UnitsConfig selects display units. System picks a preset; the per-domain
// fields override it when set.
type UnitsConfig struct {
	System   string `yaml:"system"`
	Distance string `yaml:"distance,omitempty"`
	Altitude string `yaml:"altitude,omitempty"`
	Speed    string `yaml:"speed,omitempty"`
	Gradient string `yaml:"gradient,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	// Language is the BCP 47 tag used for number formatting in reports.
	Language string `yaml:"language"`
}

// StatsConfig holds settings for track statistics.
type StatsConfig struct {
	StopThreshold     Duration `yaml:"stop_threshold"`
	SegmentedDuration bool     `yaml:"segmented_duration"`
}

// SeriesConfig holds settings for derived series.
type SeriesConfig struct {
	Points         int  `yaml:"points"`
	AreaPreserving bool `yaml:"area_preserving"`
}

// GridConfig holds gridline settings. Tables replaces the built-in table of
// the named domains.
type GridConfig struct {
	Lines  int                  `yaml:"lines"`
	Tables map[string][]float64 `yaml:"tables,omitempty"`
}

// SplitConfig holds defaults for rule-based splitting.
type SplitConfig struct {
	Gap    Duration `yaml:"gap"`
	Points int      `yaml:"points"`
}

// TerrainConfig holds DEM settings.
type TerrainConfig struct {
	ElevationFile string `yaml:"elevation_file"`
	Interpolation string `yaml:"interpolation"`
	OnlyMissing   bool   `yaml:"only_missing"`
}

// CacheConfig holds settings for the DEM lookup cache.
type CacheConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Path       string   `yaml:"path"`
	Resolution int      `yaml:"resolution"`
	MaxAge     Duration `yaml:"max_age"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  LogSettings `yaml:"file"`
	Trace bool        `yaml:"trace"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Units: UnitsConfig{
			System:   "metric",
			Language: "en",
		},
		Stats: StatsConfig{
			StopThreshold:     Duration(2 * time.Minute),
			SegmentedDuration: true,
		},
		Series: SeriesConfig{
			Points:         200,
			AreaPreserving: true,
		},
		Grid: GridConfig{
			Lines: 5,
		},
		Split: SplitConfig{
			Gap:    Duration(time.Hour),
			Points: 500,
		},
		Terrain: TerrainConfig{
			ElevationFile: "data/etopo1/etopo1_ice_g_i2.bin",
			Interpolation: "best",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Path:       "data/gpstrack.db",
			Resolution: terrain.DefaultCacheResolution,
			MaxAge:     Duration(90 * Day),
		},
		Log: LogConfig{
			File: LogSettings{
				Path:  "logs/gpstrack.log",
				Level: "INFO",
			},
		},
	}
}

// DefaultPath returns the per-user config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gpstrack.yaml"
	}
	return filepath.Join(dir, "gpstrack", "config.yaml")
}

// Load reads the config at path on top of the defaults. A missing file is
// created with the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Env fallback, never written back to disk
	if file := os.Getenv("GPSTRACK_ELEVATION_FILE"); file != "" {
		cfg.Terrain.ElevationFile = file
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every value that is parsed later on.
func (c *Config) Validate() error {
	if _, err := c.Units.Resolve(); err != nil {
		return fmt.Errorf("units: %w", err)
	}
	if _, err := terrain.ParseInterpolation(c.Terrain.Interpolation); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if _, err := c.Grid.Selector(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if c.Grid.Lines <= 0 {
		return fmt.Errorf("grid: lines must be positive, got %d", c.Grid.Lines)
	}
	if c.Series.Points < 2 {
		return fmt.Errorf("series: points must be at least 2, got %d", c.Series.Points)
	}
	if c.Split.Points <= 0 || c.Split.Gap <= 0 {
		return fmt.Errorf("split: gap and points must be positive")
	}
	return nil
}

// Resolve returns the display units, starting from the named system.
func (u UnitsConfig) Resolve() (measure.Units, error) {
	var out measure.Units
	switch strings.ToLower(u.System) {
	case "", "metric":
		out = measure.DefaultUnits()
	case "imperial":
		out = measure.ImperialUnits()
	case "nautical":
		out = measure.DefaultUnits()
		out.Distance = measure.NauticalMiles
		out.Altitude = measure.AltitudeFeet
		out.Speed = measure.Knots
	default:
		return out, fmt.Errorf("unknown unit system %q", u.System)
	}

	var err error
	if u.Distance != "" {
		if out.Distance, err = measure.ParseDistanceUnit(u.Distance); err != nil {
			return out, err
		}
	}
	if u.Altitude != "" {
		if out.Altitude, err = measure.ParseAltitudeUnit(u.Altitude); err != nil {
			return out, err
		}
	}
	if u.Speed != "" {
		if out.Speed, err = measure.ParseSpeedUnit(u.Speed); err != nil {
			return out, err
		}
	}
	if u.Gradient != "" {
		if out.Gradient, err = measure.ParseGradientUnit(u.Gradient); err != nil {
			return out, err
		}
	}
	if u.Duration != "" {
		if out.Duration, err = measure.ParseDurationUnit(u.Duration); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Selector returns a grid selector over the built-in tables with the
// configured overrides applied.
func (g GridConfig) Selector() (*grid.Selector, error) {
	sel := grid.NewSelector()
	for name, values := range g.Tables {
		d, err := grid.ParseDomain(name)
		if err != nil {
			return nil, err
		}
		t := grid.Table(values)
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		sel.Tables[d] = t
	}
	return sel, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# gpstrack Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for Enum fields
	reSystem := regexp.MustCompile(`(?m)^(\s+)system:`)
	data = reSystem.ReplaceAll(data, []byte("${1}# Options: metric, imperial, nautical\n${1}system:"))

	reInterp := regexp.MustCompile(`(?m)^(\s+)interpolation:`)
	data = reInterp.ReplaceAll(data, []byte("${1}# Options: none, simple, best\n${1}interpolation:"))

	reRes := regexp.MustCompile(`(?m)^(\s+)resolution:`)
	data = reRes.ReplaceAll(data, []byte("${1}# H3 cell resolution of cache keys (0-15)\n${1}resolution:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
