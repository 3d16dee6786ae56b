package models

import (
	"fmt"
	"math"
)

var mathInf = math.Inf(1)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BBox is a geographic bounding box in degrees. West < East and
// South < North for any box that passed validation.
type BBox struct {
	West  float64 `form:"west" json:"west"`
	South float64 `form:"south" json:"south"`
	East  float64 `form:"east" json:"east"`
	North float64 `form:"north" json:"north"`
}

// Validate rejects boxes with non-finite fields or degenerate extents.
// Malformed boxes must never reach the matching pipeline.
func (b BBox) Validate() error {
	for _, v := range [4]float64{b.West, b.South, b.East, b.North} {
		if !isFinite(v) {
			return fmt.Errorf("bbox field is not a finite number")
		}
	}
	if !(b.West < b.East) || !(b.South < b.North) {
		return fmt.Errorf("invalid bbox: require west < east and south < north")
	}
	return nil
}

// Clamp returns the box intersected with bounds. The result may be
// degenerate when the boxes do not overlap; callers that care should check.
func (b BBox) Clamp(bounds BBox) BBox {
	return BBox{
		West:  clampF(b.West, bounds.West, bounds.East),
		South: clampF(b.South, bounds.South, bounds.North),
		East:  clampF(b.East, bounds.West, bounds.East),
		North: clampF(b.North, bounds.South, bounds.North),
	}
}

// Contains reports whether the point lies inside the box (edges inclusive).
func (b BBox) Contains(lat, lon float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
