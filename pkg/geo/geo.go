package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Orb returns the point in orb's [lon, lat] order.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb point back to a Point.
func FromOrb(p orb.Point) Point {
	return Point{Lat: p.Lat(), Lon: p.Lon()}
}

// Distance calculates the Haversine distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}
	return orbgeo.DistanceHaversine(p1.Orb(), p2.Orb())
}

// Interpolate returns the point at fraction frac (0..1) along the straight
// line between p1 and p2. Good enough for the short legs between trackpoints.
func Interpolate(p1, p2 Point, frac float64) Point {
	return Point{
		Lat: p1.Lat + (p2.Lat-p1.Lat)*frac,
		Lon: p1.Lon + (p2.Lon-p1.Lon)*frac,
	}
}

// DestinationPoint calculates the destination point from a start point, given distance (in meters) and bearing (in degrees).
func DestinationPoint(start Point, distMeters, bearing float64) Point {
	const R = orb.EarthRadius
	lat1 := start.Lat * (math.Pi / 180.0)
	lon1 := start.Lon * (math.Pi / 180.0)
	brng := bearing * (math.Pi / 180.0)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(distMeters/R) +
		math.Cos(lat1)*math.Sin(distMeters/R)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(distMeters/R)*math.Cos(lat1),
		math.Cos(distMeters/R)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Lat: lat2 * (180.0 / math.Pi),
		Lon: lon2 * (180.0 / math.Pi),
	}
}

// Bearing calculates the initial bearing (forward azimuth) from p1 to p2 in degrees.
func Bearing(p1, p2 Point) float64 {
	return math.Mod(orbgeo.Bearing(p1.Orb(), p2.Orb())+360.0, 360.0)
}

// BoundOf returns the bounding box of the given points. The second result is
// false when there are no points.
func BoundOf(points []Point) (orb.Bound, bool) {
	if len(points) == 0 {
		return orb.Bound{}, false
	}
	b := points[0].Orb().Bound()
	for _, p := range points[1:] {
		b = b.Extend(p.Orb())
	}
	return b, true
}

// ExtendBound grows b to include p. An empty (zero) bound starts from p.
func ExtendBound(b orb.Bound, empty bool, p Point) orb.Bound {
	if empty {
		return p.Orb().Bound()
	}
	return b.Extend(p.Orb())
}
