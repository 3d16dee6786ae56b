// Package tiles implements the fixed spatial tile grid shared by every
// dataset in the matching pipeline, plus the pointer-indirected tile fetch
// path. Sign tiles and centerline tiles use the same Grid value so their
// tiles spatially align; the grid constants are injected from config, never
// duplicated per dataset.
package tiles

import (
	"fmt"
	"math"

	"github.com/curbline/parking-backend-go/internal/models"
)

// Grid is a fixed col x row grid over a fixed geographic bounding box.
// Changing either field invalidates every tile store built with the old
// value; they must be rebuilt in lockstep.
type Grid struct {
	BBox models.BBox
	Cols int
	Rows int
}

// TileID identifies one grid cell.
type TileID struct {
	Col int
	Row int
}

// Name returns the canonical tile name used in storage paths.
func (t TileID) Name() string {
	return fmt.Sprintf("tile_%d_%d", t.Col, t.Row)
}

// IndexFor maps a geographic point to its tile. Out-of-box input clamps to
// the nearest edge tile; it never fails.
func (g Grid) IndexFor(lon, lat float64) TileID {
	x := (lon - g.BBox.West) / (g.BBox.East - g.BBox.West)
	y := (lat - g.BBox.South) / (g.BBox.North - g.BBox.South)
	return TileID{
		Col: clampI(int(math.Floor(x*float64(g.Cols))), 0, g.Cols-1),
		Row: clampI(int(math.Floor(y*float64(g.Rows))), 0, g.Rows-1),
	}
}

// TilesForBBox returns every tile in the rectangular span between the
// box's corners. This over-fetches (tiles touching the box are included)
// rather than under-fetches. Always non-empty.
func (g Grid) TilesForBBox(b models.BBox) []TileID {
	a := g.IndexFor(b.West, b.South)
	z := g.IndexFor(b.East, b.North)

	c0, c1 := minI(a.Col, z.Col), maxI(a.Col, z.Col)
	r0, r1 := minI(a.Row, z.Row), maxI(a.Row, z.Row)

	out := make([]TileID, 0, (c1-c0+1)*(r1-r0+1))
	for c := c0; c <= c1; c++ {
		for r := r0; r <= r1; r++ {
			out = append(out, TileID{Col: c, Row: r})
		}
	}
	return out
}

// All returns every tile in the grid, column-major.
func (g Grid) All() []TileID {
	out := make([]TileID, 0, g.Cols*g.Rows)
	for c := 0; c < g.Cols; c++ {
		for r := 0; r < g.Rows; r++ {
			out = append(out, TileID{Col: c, Row: r})
		}
	}
	return out
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}
