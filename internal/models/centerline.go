package models

// Position is a GeoJSON position: [lon, lat].
type Position [2]float64

// Lon returns the longitude component.
func (p Position) Lon() float64 { return p[0] }

// Lat returns the latitude component.
func (p Position) Lat() float64 { return p[1] }

// LineStringGeometry is a GeoJSON LineString geometry.
type LineStringGeometry struct {
	Type        string     `json:"type"` // "LineString"
	Coordinates []Position `json:"coordinates"`
}

// CenterlineProperties carries the street-name metadata attached to a
// centerline feature. Only the name participates in matching.
type CenterlineProperties struct {
	Name    string `json:"name,omitempty"`
	Highway string `json:"highway,omitempty"`
}

// CenterlineFeature is one street centerline segment. A street is usually
// broken into several features (one per block run), all sharing a name.
type CenterlineFeature struct {
	Type       string               `json:"type"` // "Feature"
	Properties CenterlineProperties `json:"properties"`
	Geometry   *LineStringGeometry  `json:"geometry"`
}

// FeatureCollection is the GeoJSON container used by centerline tiles and
// the centerline response.
type FeatureCollection struct {
	Type     string              `json:"type"` // "FeatureCollection"
	Features []CenterlineFeature `json:"features"`
}

// IsLineString reports whether the feature carries a usable LineString with
// at least two coordinates.
func (f *CenterlineFeature) IsLineString() bool {
	return f.Geometry != nil && f.Geometry.Type == "LineString" && len(f.Geometry.Coordinates) >= 2
}

// IntersectsBBox reports whether the feature's coordinate bounding box
// overlaps the query box. Non-finite coordinates are ignored.
func (f *CenterlineFeature) IntersectsBBox(b BBox) bool {
	if !f.IsLineString() {
		return false
	}
	minX, minY := mathInf, mathInf
	maxX, maxY := -mathInf, -mathInf
	for _, p := range f.Geometry.Coordinates {
		x, y := p.Lon(), p.Lat()
		if !isFinite(x) || !isFinite(y) {
			continue
		}
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	return !(maxX < b.West || minX > b.East || maxY < b.South || minY > b.North)
}
