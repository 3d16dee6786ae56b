package blockface

import (
	"math"

	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/spatial"
	"github.com/curbline/parking-backend-go/internal/streets"
)

// Centerline is a centerline feature prepared for matching: normalized name
// plus coordinates reordered to (lat, lon).
type Centerline struct {
	Name   string
	Coords []spatial.Point
}

// PrepareCenterlines converts raw features into match candidates, dropping
// features without a usable LineString, a name, or finite coordinates.
func PrepareCenterlines(features []models.CenterlineFeature) []Centerline {
	out := make([]Centerline, 0, len(features))
	for i := range features {
		f := &features[i]
		if !f.IsLineString() {
			continue
		}
		name := streets.Normalize(f.Properties.Name)
		if name == "" {
			continue
		}

		coords := make([]spatial.Point, 0, len(f.Geometry.Coordinates))
		for _, c := range f.Geometry.Coordinates {
			lat, lon := c.Lat(), c.Lon()
			if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
				continue
			}
			coords = append(coords, spatial.Point{Lat: lat, Lon: lon})
		}
		if len(coords) < 2 {
			continue
		}
		out = append(out, Centerline{Name: name, Coords: coords})
	}
	return out
}

// Match pairs a group with its chosen centerline.
type Match struct {
	Group      models.BlockfaceGroup
	Centerline Centerline
}

// MatchGroups pairs each group with the centerline whose minimum
// point-to-segment distance from the group centroid is smallest among all
// same-named candidates. Ties keep the first candidate encountered; true
// ties are geometrically negligible. Groups with no candidate are dropped
// silently; sparse tile data is expected to yield partial coverage.
func MatchGroups(groups []models.BlockfaceGroup, centerlines []Centerline) []Match {
	var out []Match

	for _, g := range groups {
		streetKey := streets.Normalize(g.First().OnStreet)
		if streetKey == "" {
			continue
		}

		pts := make([]spatial.Point, len(g.Records))
		for i, r := range g.Records {
			pts[i] = spatial.Point{Lat: r.Lat, Lon: r.Lon}
		}
		centroid := spatial.Centroid(pts)

		bestScore := math.Inf(1)
		bestIdx := -1
		for i, cand := range centerlines {
			if cand.Name != streetKey {
				continue
			}
			if d := spatial.MinDistanceToLineMeters(centroid, cand.Coords); d < bestScore {
				bestScore = d
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			continue
		}

		out = append(out, Match{Group: g, Centerline: centerlines[bestIdx]})
	}
	return out
}
