package spatial

import (
	"math"
)

// dedupe tolerance in degrees (~1mm)
const coincidentEps = 1e-8

// CumulativeLengths returns the running arc-length table for a polyline in
// meters. Entry 0 is 0; the last entry is the total length.
func CumulativeLengths(line []Point) []float64 {
	cum := make([]float64, 1, len(line))
	for i := 0; i+1 < len(line); i++ {
		d := HaversineDistance(line[i].Lat, line[i].Lon, line[i+1].Lat, line[i+1].Lon)
		cum = append(cum, cum[len(cum)-1]+d)
	}
	return cum
}

// SliceLineByMeters returns the sub-polyline between two arc-length bounds,
// interpolating exact points at both ends. Bounds are clamped into
// [0, total length]; their order does not matter. Coincident output points
// are collapsed.
func SliceLineByMeters(line []Point, start, end float64) []Point {
	if len(line) < 2 {
		return line
	}

	s := math.Min(start, end)
	e := math.Max(start, end)
	s = math.Max(0, s)
	e = math.Max(0, e)

	cum := CumulativeLengths(line)
	total := cum[len(cum)-1]
	s = math.Min(s, total)
	e = math.Min(e, total)

	interp := func(i int, t float64) Point {
		a, b := line[i], line[i+1]
		return Point{
			Lat: a.Lat + (b.Lat-a.Lat)*t,
			Lon: a.Lon + (b.Lon-a.Lon)*t,
		}
	}

	out := make([]Point, 0, len(line))

	iStart := 0
	for iStart < len(cum)-1 && cum[iStart+1] < s {
		iStart++
	}
	{
		segLen := cum[iStart+1] - cum[iStart]
		t := 0.0
		if segLen != 0 {
			t = (s - cum[iStart]) / segLen
		}
		out = append(out, interp(iStart, t))
	}

	i := iStart
	for i < len(cum)-1 && cum[i+1] < e {
		out = append(out, line[i+1])
		i++
	}

	{
		segLen := cum[i+1] - cum[i]
		t := 0.0
		if segLen != 0 {
			t = (e - cum[i]) / segLen
		}
		out = append(out, interp(i, t))
	}

	cleaned := make([]Point, 0, len(out))
	for _, p := range out {
		if n := len(cleaned); n > 0 {
			last := cleaned[n-1]
			if math.Abs(last.Lat-p.Lat) <= coincidentEps && math.Abs(last.Lon-p.Lon) <= coincidentEps {
				continue
			}
		}
		cleaned = append(cleaned, p)
	}
	return cleaned
}

// OffsetPolylineMeters displaces each vertex by a signed distance along the
// local unit normal, where the local tangent at a vertex comes from its
// neighbors. The displacement is converted back to degrees in the local
// frame at that vertex. Positive offsets go to the left of travel direction.
func OffsetPolylineMeters(line []Point, metersSigned float64) []Point {
	if len(line) < 2 {
		return line
	}

	out := make([]Point, 0, len(line))
	for i := range line {
		prev := line[maxI(0, i-1)]
		cur := line[i]
		next := line[minI(len(line)-1, i+1)]

		mx := MetersPerDegreeLon(cur.Lat)
		my := MetersPerDegreeLat

		vx := (next.Lon - prev.Lon) * mx
		vy := (next.Lat - prev.Lat) * my
		length := math.Hypot(vx, vy)
		if length == 0 {
			length = 1
		}

		// rotate tangent 90 degrees to get the unit normal
		nx := -vy / length
		ny := vx / length

		out = append(out, Point{
			Lat: cur.Lat + ny*metersSigned/my,
			Lon: cur.Lon + nx*metersSigned/mx,
		})
	}
	return out
}

// DominantHeading returns the endpoint-to-endpoint displacement of a line
// in local meters (dx east, dy north). Used to decide whether a block runs
// mostly east-west or north-south.
func DominantHeading(line []Point) (dx, dy float64) {
	if len(line) < 2 {
		return 0, 0
	}
	a := line[0]
	b := line[len(line)-1]
	lat0 := (a.Lat + b.Lat) / 2
	dx = (b.Lon - a.Lon) * MetersPerDegreeLon(lat0)
	dy = (b.Lat - a.Lat) * MetersPerDegreeLat
	return dx, dy
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}
