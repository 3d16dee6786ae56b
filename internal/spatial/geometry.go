package spatial

import (
	"math"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// MetersPerDegreeLon returns the east-west meters spanned by one degree of
// longitude at the given latitude.
func MetersPerDegreeLon(lat float64) float64 {
	return MetersPerDegreeLat * math.Cos(lat*math.Pi/180)
}

// PointToSegmentMeters returns the distance in meters from point p to the
// segment a-b. Distances are computed in a locally linearized plane
// (longitude scaled by cos of the mean latitude) rather than raw degrees,
// which holds at city-block scale and avoids east-west distortion.
func PointToSegmentMeters(p, a, b Point) float64 {
	lat0 := (a.Lat + b.Lat + p.Lat) / 3
	mx := MetersPerDegreeLon(lat0)
	my := MetersPerDegreeLat

	px, py := p.Lon*mx, p.Lat*my
	ax, ay := a.Lon*mx, a.Lat*my
	bx, by := b.Lon*mx, b.Lat*my

	abx, aby := bx-ax, by-ay
	apx, apy := px-ax, py-ay
	ab2 := abx*abx + aby*aby
	if ab2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}

	t := (apx*abx + apy*aby) / ab2
	t = math.Max(0, math.Min(1, t))
	cx, cy := ax+t*abx, ay+t*aby
	return math.Hypot(px-cx, py-cy)
}

// MinDistanceToLineMeters returns the minimum point-to-segment distance from
// p across every segment of the polyline, or +Inf for a degenerate line.
func MinDistanceToLineMeters(p Point, line []Point) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(line); i++ {
		if d := PointToSegmentMeters(p, line[i], line[i+1]); d < best {
			best = d
		}
	}
	return best
}

// Projection is the result of projecting a point onto a polyline: the
// cumulative arc length at the closest point and the perpendicular distance
// to it, both in meters.
type Projection struct {
	Along float64
	Dist  float64
}

// ProjectPointToLine finds the minimum-distance point along the entire
// polyline, not just one segment. The local meters frame is re-derived per
// segment for numerical stability. Returns ok=false for lines with fewer
// than two points or only zero-length segments.
func ProjectPointToLine(p Point, line []Point) (Projection, bool) {
	if len(line) < 2 {
		return Projection{}, false
	}

	best := Projection{Dist: math.Inf(1)}
	found := false
	accum := 0.0

	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]

		lat0 := (a.Lat + b.Lat + p.Lat) / 3
		mx := MetersPerDegreeLon(lat0)
		my := MetersPerDegreeLat

		px, py := p.Lon*mx, p.Lat*my
		ax, ay := a.Lon*mx, a.Lat*my
		bx, by := b.Lon*mx, b.Lat*my

		abx, aby := bx-ax, by-ay
		ab2 := abx*abx + aby*aby
		segLen := math.Sqrt(ab2)
		if ab2 == 0 {
			continue
		}

		t := ((px-ax)*abx + (py-ay)*aby) / ab2
		t = math.Max(0, math.Min(1, t))
		cx, cy := ax+t*abx, ay+t*aby
		d := math.Hypot(px-cx, py-cy)

		if d < best.Dist {
			best = Projection{Along: accum + t*segLen, Dist: d}
			found = true
		}

		accum += segLen
	}

	return best, found
}
