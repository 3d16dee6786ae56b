package blockface

import (
	"fmt"
	"math"
	"strings"

	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/spatial"
	"github.com/curbline/parking-backend-go/internal/streets"
)

const (
	// OffsetMeters is the lateral displacement from the centerline used to
	// draw one side of the street. An approximation of curb position, not a
	// cadastral measurement.
	OffsetMeters = 6.0

	// SlicePaddingMeters expands the slice bounds outward so a block with
	// two or three sign points does not collapse to near-zero length.
	SlicePaddingMeters = 20.0
)

// SignedOffsetForSide picks the offset sign for a side letter given the
// block's dominant travel direction in local meters. East-west blocks put
// the north side at a positive offset; north-south blocks put the east side
// positive. Blocks running near 45 degrees have no documented tie-break;
// the compass fallback below (N/E positive) is what ships.
func SignedOffsetForSide(side string, headingDx, headingDy float64) float64 {
	s := strings.ToUpper(strings.TrimSpace(side))
	eastWest := math.Abs(headingDx) >= math.Abs(headingDy)

	if eastWest {
		switch s {
		case "N":
			return +OffsetMeters
		case "S":
			return -OffsetMeters
		}
	} else {
		switch s {
		case "E":
			return +OffsetMeters
		case "W":
			return -OffsetMeters
		}
	}

	switch s {
	case "N", "E":
		return +OffsetMeters
	case "S", "W":
		return -OffsetMeters
	}
	return +OffsetMeters
}

// BuildLines turns sign records and centerline features into renderable
// blockface lines. The whole computation is a pure function of its inputs;
// nothing is cached or persisted between calls.
func BuildLines(points []models.SignRecord, features []models.CenterlineFeature) []models.BlockfaceLine {
	centerlines := PrepareCenterlines(features)
	if len(centerlines) == 0 {
		return nil
	}

	matches := MatchGroups(GroupRecords(points), centerlines)

	var out []models.BlockfaceLine
	for _, m := range matches {
		if line, ok := buildOne(m, len(out)); ok {
			out = append(out, line)
		}
	}
	return out
}

func buildOne(m Match, idx int) (models.BlockfaceLine, bool) {
	first := m.Group.First()
	centerline := m.Centerline.Coords

	// every member's projection participates in the slice bounds; the
	// centroid was only for candidate selection
	minAlong := math.Inf(1)
	maxAlong := math.Inf(-1)
	projected := 0
	for _, r := range m.Group.Records {
		proj, ok := spatial.ProjectPointToLine(spatial.Point{Lat: r.Lat, Lon: r.Lon}, centerline)
		if !ok {
			continue
		}
		projected++
		minAlong = math.Min(minAlong, proj.Along)
		maxAlong = math.Max(maxAlong, proj.Along)
	}
	if projected == 0 {
		return models.BlockfaceLine{}, false
	}

	minAlong = math.Max(0, minAlong-SlicePaddingMeters)
	maxAlong += SlicePaddingMeters

	sliced := spatial.SliceLineByMeters(centerline, minAlong, maxAlong)
	if len(sliced) < 2 {
		return models.BlockfaceLine{}, false
	}

	dx, dy := spatial.DominantHeading(sliced)
	offset := spatial.OffsetPolylineMeters(sliced, SignedOffsetForSide(first.Side, dx, dy))

	polyline := make([]models.LatLon, len(offset))
	for i, p := range offset {
		polyline[i] = models.LatLon{p.Lat, p.Lon}
	}

	street := strings.TrimSpace(first.OnStreet)
	if street == "" {
		street = m.Centerline.Name
	}

	return models.BlockfaceLine{
		ID:        fmt.Sprintf("%d-%s-%s", idx, m.Centerline.Name, strings.ToUpper(strings.TrimSpace(first.Side))),
		Polyline:  polyline,
		Street:    street,
		From:      strings.TrimSpace(first.FromStreet),
		To:        strings.TrimSpace(first.ToStreet),
		SideLabel: streets.SideLabel(first.Side),
		Rule:      streets.CleanRuleForDisplay(first.RuleText),
	}, true
}
