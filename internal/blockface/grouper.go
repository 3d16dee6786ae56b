// Package blockface fuses sign records with street centerlines: records are
// grouped into curb segments, each group is matched to the nearest
// same-named centerline, and the matched centerline is sliced and offset
// into a renderable line for one side of the street.
package blockface

import (
	"strings"

	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/streets"
)

// GroupKey builds the stable composite key for one record: normalized
// on/from/to street, side letter, raw rule text. Records agree on every
// component exactly or they belong to different blockfaces; two signs with
// different rule text on the same curb are two groups.
func GroupKey(p models.SignRecord) string {
	return strings.Join([]string{
		streets.Normalize(p.OnStreet),
		streets.Normalize(p.FromStreet),
		streets.Normalize(p.ToStreet),
		strings.ToUpper(strings.TrimSpace(p.Side)),
		strings.TrimSpace(p.RuleText),
	}, "||")
}

// GroupRecords buckets records into blockface groups by exact key equality.
// Group order follows first appearance in the input, so output is stable
// for a given input order.
func GroupRecords(points []models.SignRecord) []models.BlockfaceGroup {
	index := make(map[string]int)
	var groups []models.BlockfaceGroup

	for _, p := range points {
		k := GroupKey(p)
		if i, ok := index[k]; ok {
			groups[i].Records = append(groups[i].Records, p)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, models.BlockfaceGroup{Key: k, Records: []models.SignRecord{p}})
	}
	return groups
}
