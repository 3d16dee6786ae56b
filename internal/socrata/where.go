package socrata

import (
	"fmt"
	"math"

	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/projection"
)

// projected-bounds inflation, in dataset units (US feet). A coarse margin:
// the projected box is a prefilter, never a precision guarantee.
const bboxMarginFeet = 25.0

// WhereClause builds the SoQL filter for the sign dataset: borough, current
// records, rule-bearing signs, optionally narrowed to a projected bounding
// box derived from a geographic one.
func WhereClause(borough string, bbox *models.BBox) string {
	where := fmt.Sprintf(
		"upper(borough) like '%s%%' AND record_type='Current' AND upper(sign_description) like '%%BROOM%%'",
		borough,
	)
	if bbox == nil {
		return where
	}

	corners := [4][2]float64{
		{bbox.West, bbox.South},
		{bbox.West, bbox.North},
		{bbox.East, bbox.South},
		{bbox.East, bbox.North},
	}

	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := projection.ToProjected(c[0], c[1])
		xmin = math.Min(xmin, x)
		xmax = math.Max(xmax, x)
		ymin = math.Min(ymin, y)
		ymax = math.Max(ymax, y)
	}

	return where + fmt.Sprintf(
		" AND sign_x_coord BETWEEN %d AND %d AND sign_y_coord BETWEEN %d AND %d",
		int(math.Floor(xmin-bboxMarginFeet)), int(math.Ceil(xmax+bboxMarginFeet)),
		int(math.Floor(ymin-bboxMarginFeet)), int(math.Ceil(ymax+bboxMarginFeet)),
	)
}
