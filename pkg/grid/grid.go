// Package grid picks human-friendly axis spacing from curated tables of
// round numbers.
package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var (
	ErrUnknownDomain = errors.New("grid: no table for domain")
	ErrBadCount      = errors.New("grid: line count must be positive")
	ErrBadRange      = errors.New("grid: range is not finite")
	ErrBadTable      = errors.New("grid: table must be ascending and positive")
)

// Domain is the measurement domain an axis shows.
type Domain int

const (
	Time Domain = iota
	Distance
	Altitude
	Gradient
	Speed
)

var domainNames = [...]string{"time", "distance", "altitude", "gradient", "speed"}

func (d Domain) String() string {
	if int(d) < 0 || int(d) >= len(domainNames) {
		return fmt.Sprintf("Domain(%d)", int(d))
	}
	return domainNames[d]
}

// ParseDomain accepts the names produced by Domain.String.
func ParseDomain(s string) (Domain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range domainNames {
		if name == s {
			return Domain(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDomain, s)
}

// Table is an ascending list of nice interval values in display units
// (seconds for time).
type Table []float64

// Validate checks that t is non-empty, strictly ascending and positive.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrBadTable
	}
	for i, v := range t {
		if v <= 0 || math.IsNaN(v) || (i > 0 && v <= t[i-1]) {
			return fmt.Errorf("%w: entry %d (%g)", ErrBadTable, i, v)
		}
	}
	return nil
}

var defaults = map[Domain]Table{
	Time: {60, 120, 300, 900, 1800, 3600, 10800, 21600, 43200,
		86400, 172800, 432000, 604800, 1209600, 2419200},
	Distance: {0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 15, 20, 25, 50,
		100, 200, 250, 500, 1000, 2000, 5000, 10000},
	Altitude: {1, 2, 5, 10, 20, 25, 50, 100, 200, 250, 500, 1000, 2000,
		2500, 5000, 10000},
	Gradient: {0.1, 0.2, 0.5, 1, 2, 5, 10, 15, 20, 25, 50, 100},
	Speed:    {0.1, 0.2, 0.5, 1, 2, 5, 10, 15, 20, 25, 50, 100, 200, 500, 1000},
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() map[Domain]Table {
	out := make(map[Domain]Table, len(defaults))
	for d, t := range defaults {
		out[d] = slices.Clone(t)
	}
	return out
}

// Selector chooses grid intervals from its tables. It holds no other state,
// so callers own one per configuration.
type Selector struct {
	Tables map[Domain]Table
}

// NewSelector returns a Selector over the built-in tables.
func NewSelector() *Selector {
	return &Selector{Tables: DefaultTables()}
}

// IntervalIndex returns the index of the smallest table entry that, taken n
// times, covers max-min. When no entry is large enough the last one is used.
func (s *Selector) IntervalIndex(d Domain, min, max float64, n int) (int, error) {
	t, ok := s.Tables[d]
	if !ok || len(t) == 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnknownDomain, d)
	}
	if n <= 0 {
		return 0, ErrBadCount
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return 0, ErrBadRange
	}
	want := math.Abs(max-min) / float64(n)
	for i, v := range t {
		if v >= want {
			return i, nil
		}
	}
	return len(t) - 1, nil
}

// Interval returns the table value chosen by IntervalIndex.
func (s *Selector) Interval(d Domain, min, max float64, n int) (float64, error) {
	i, err := s.IntervalIndex(d, min, max, n)
	if err != nil {
		return 0, err
	}
	return s.Tables[d][i], nil
}

// Grid describes the gridlines of one axis: Count lines spaced Interval
// apart starting at Start.
type Grid struct {
	Interval float64
	Start    float64
	Count    int
}

// Values returns the positions of all gridlines.
func (g Grid) Values() []float64 {
	out := make([]float64, g.Count)
	for i := range out {
		out[i] = g.Start + float64(i)*g.Interval
	}
	return out
}

// Lines returns the gridlines for [min, max]: the first line is the largest
// multiple of the interval not above min, the last is not above max.
func (s *Selector) Lines(d Domain, min, max float64, n int) (Grid, error) {
	if max < min {
		min, max = max, min
	}
	iv, err := s.Interval(d, min, max, n)
	if err != nil {
		return Grid{}, err
	}
	start := math.Floor(min/iv) * iv
	count := int(math.Floor((max-start)/iv)) + 1
	return Grid{Interval: iv, Start: start, Count: count}, nil
}
