package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gpstrack/pkg/grid"
	"gpstrack/pkg/measure"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "gpstrack.yaml")

	tests := []struct {
		name          string
		setup         func()
		validate      func(*testing.T, *Config)
		checkFile     func(*testing.T)
		expectedError bool
	}{
		{
			name:  "NewFile_Defaults",
			setup: func() {}, // No file
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Series.Points != 200 {
					t.Errorf("expected default series points 200, got %d", cfg.Series.Points)
				}
				if cfg.Stats.StopThreshold.Std() != 2*time.Minute {
					t.Errorf("expected default stop threshold 2m, got %v", cfg.Stats.StopThreshold.Std())
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "system: metric") {
					t.Error("config file missing default values")
				}
				if !strings.Contains(string(content), "# Options: none, simple, best") {
					t.Error("config file missing interpolation comment")
				}
			},
		},
		{
			name: "ExistingFile_Override",
			setup: func() {
				err := os.WriteFile(configPath, []byte("units:\n  system: imperial\nsplit:\n  gap: 2d\n"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Units.System != "imperial" {
					t.Errorf("expected system 'imperial', got '%s'", cfg.Units.System)
				}
				if cfg.Split.Gap.Std() != 48*time.Hour {
					t.Errorf("expected gap 48h, got %v", cfg.Split.Gap.Std())
				}
				if cfg.Grid.Lines != 5 {
					t.Errorf("expected untouched default grid lines 5, got %d", cfg.Grid.Lines)
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if strings.Contains(string(content), "series:") {
					t.Error("loading must not rewrite an existing file")
				}
			},
		},
		{
			name: "InvalidValue",
			setup: func() {
				err := os.WriteFile(configPath, []byte("terrain:\n  interpolation: cubic\n"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			expectedError: true,
		},
		{
			name: "MalformedYAML",
			setup: func() {
				err := os.WriteFile(configPath, []byte("units: [\n"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(configPath)
			tt.setup()

			cfg, err := Load(configPath)
			if (err != nil) != tt.expectedError {
				t.Fatalf("Load() error = %v, expectedError %v", err, tt.expectedError)
			}
			if tt.expectedError {
				return
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
			if tt.checkFile != nil {
				tt.checkFile(t)
			}
		})
	}
}

func TestLoad_EnvElevationFile(t *testing.T) {
	t.Setenv("GPSTRACK_ELEVATION_FILE", "/srv/dem/etopo1.bin")
	cfg, err := Load(filepath.Join(t.TempDir(), "c.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Terrain.ElevationFile != "/srv/dem/etopo1.bin" {
		t.Errorf("ElevationFile = %q", cfg.Terrain.ElevationFile)
	}
}

func TestGenerateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "gpstrack.yaml")
	if err := GenerateDefault(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := GenerateDefault(path); err != nil {
		t.Fatal(err)
	}
	content, _ := os.ReadFile(path)
	if string(content) != "# mine\n" {
		t.Error("GenerateDefault overwrote an existing file")
	}
}

func TestUnitsResolve(t *testing.T) {
	tests := []struct {
		name    string
		in      UnitsConfig
		want    measure.Units
		wantErr bool
	}{
		{"Metric", UnitsConfig{System: "metric"}, measure.DefaultUnits(), false},
		{"Imperial", UnitsConfig{System: "imperial"}, measure.ImperialUnits(), false},
		{
			name: "Override",
			in:   UnitsConfig{System: "metric", Speed: "kn", Duration: "min"},
			want: measure.Units{
				Distance: measure.Kilometers,
				Altitude: measure.AltitudeMeters,
				Speed:    measure.Knots,
				Gradient: measure.Percent,
				Duration: measure.Minutes,
			},
		},
		{"UnknownSystem", UnitsConfig{System: "cubits"}, measure.Units{}, true},
		{"UnknownUnit", UnitsConfig{Distance: "furlong"}, measure.Units{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Resolve()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGridSelector_Overrides(t *testing.T) {
	g := GridConfig{Lines: 5, Tables: map[string][]float64{"time": {30, 90, 600}}}
	sel, err := g.Selector()
	if err != nil {
		t.Fatal(err)
	}
	if iv, _ := sel.Interval(grid.Time, 0, 125, 5); iv != 30 {
		t.Errorf("Interval = %v, want 30 from the override table", iv)
	}
	if iv, _ := sel.Interval(grid.Altitude, 0, 500, 5); iv != 100 {
		t.Errorf("built-in altitude table lost: %v", iv)
	}

	bad := GridConfig{Tables: map[string][]float64{"time": {90, 30}}}
	if _, err := bad.Selector(); err == nil {
		t.Error("expected error for descending table")
	}
	unknown := GridConfig{Tables: map[string][]float64{"pressure": {1}}}
	if _, err := unknown.Selector(); err == nil {
		t.Error("expected error for unknown domain")
	}
}
