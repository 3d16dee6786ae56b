// Package tilebuild converts raw upstream sign rows into per-tile JSON
// payloads over the shared grid. Conversion mirrors the serve-path rules
// exactly: rows without usable rule text, with non-finite coordinates, or
// whose projected position falls outside the plausibility bounds are
// dropped and counted, never written.
package tilebuild

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/projection"
	"github.com/curbline/parking-backend-go/internal/socrata"
	"github.com/curbline/parking-backend-go/internal/streets"
	"github.com/curbline/parking-backend-go/internal/tiles"
)

// Builder runs one offline sign-tile build.
type Builder struct {
	Grid    tiles.Grid
	Client  *socrata.Client
	OutDir  string
	Borough string
	BBox    *models.BBox // optional narrowing; nil builds the whole borough
}

// Stats counts what one run fetched, kept and dropped.
type Stats struct {
	Pages              int
	Rows               int
	Kept               int
	SkippedNoText      int
	SkippedBadXY       int
	SkippedOutOfBounds int
}

// Run fetches every page, buckets converted records by tile, and writes
// one payload plus one pointer per grid cell, including empty cells, so a
// missing tile file always means a broken store rather than sparse data.
func (b *Builder) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	buckets := make(map[tiles.TileID][]models.SignRecord, b.Grid.Cols*b.Grid.Rows)
	for _, id := range b.Grid.All() {
		buckets[id] = []models.SignRecord{}
	}

	where := socrata.WhereClause(b.Borough, b.BBox)
	log.Printf("Building sign tiles: grid %dx%d over %+v", b.Grid.Cols, b.Grid.Rows, b.Grid.BBox)

	err := b.Client.FetchAll(ctx, where, func(rows []socrata.Row) error {
		stats.Pages++
		stats.Rows += len(rows)
		log.Printf("Page %d: %d rows", stats.Pages, len(rows))

		for _, row := range rows {
			rec, reason := convertRow(row)
			switch reason {
			case dropNone:
				id := b.Grid.IndexFor(rec.Lon, rec.Lat)
				buckets[id] = append(buckets[id], rec)
				stats.Kept++
			case dropNoText:
				stats.SkippedNoText++
			case dropBadXY:
				stats.SkippedBadXY++
			case dropOutOfBounds:
				stats.SkippedOutOfBounds++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if err := b.writeTiles(buckets); err != nil {
		return stats, err
	}
	return stats, nil
}

type dropReason int

const (
	dropNone dropReason = iota
	dropNoText
	dropBadXY
	dropOutOfBounds
)

func convertRow(row socrata.Row) (models.SignRecord, dropReason) {
	ruleText := streets.CleanRuleText(row.SignDescription)
	if ruleText == "" {
		return models.SignRecord{}, dropNoText
	}

	x, errX := strconv.ParseFloat(row.SignXCoord, 64)
	y, errY := strconv.ParseFloat(row.SignYCoord, 64)
	if errX != nil || errY != nil {
		return models.SignRecord{}, dropBadXY
	}

	lat, lon, ok := projection.ToGeographic(x, y)
	if !ok {
		return models.SignRecord{}, dropOutOfBounds
	}

	return models.SignRecord{
		Lat:        lat,
		Lon:        lon,
		OnStreet:   strings.TrimSpace(row.OnStreet),
		FromStreet: strings.TrimSpace(row.FromStreet),
		ToStreet:   strings.TrimSpace(row.ToStreet),
		Side:       models.NormalizeSideLetter(row.SideOfStreet),
		RuleText:   ruleText,
	}, dropNone
}

func (b *Builder) writeTiles(buckets map[tiles.TileID][]models.SignRecord) error {
	pointerDir := filepath.Join(b.OutDir, "pointers")
	if err := os.MkdirAll(pointerDir, 0o755); err != nil {
		return fmt.Errorf("create output dirs: %w", err)
	}

	for _, id := range b.Grid.All() {
		payload, err := json.Marshal(buckets[id])
		if err != nil {
			return fmt.Errorf("marshal %s: %w", id.Name(), err)
		}

		payloadName := id.Name() + ".json"
		if err := os.WriteFile(filepath.Join(b.OutDir, payloadName), payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", payloadName, err)
		}

		pointer := tiles.PointerScheme + payloadName
		if err := os.WriteFile(filepath.Join(pointerDir, id.Name()+".txt"), []byte(pointer), 0o644); err != nil {
			return fmt.Errorf("write pointer for %s: %w", id.Name(), err)
		}

		log.Printf("Wrote %s (%d points)", payloadName, len(buckets[id]))
	}
	return nil
}
