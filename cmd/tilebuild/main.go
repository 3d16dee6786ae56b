// tilebuild fetches the city sign dataset once, converts rows into
// geographic sign records, buckets them into the shared tile grid, and
// writes per-tile JSON payloads plus pointer files for the serve path.
// Strictly offline; the API server only ever reads its output.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/curbline/parking-backend-go/internal/config"
	"github.com/curbline/parking-backend-go/internal/database"
	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/socrata"
	"github.com/curbline/parking-backend-go/internal/tilebuild"
)

func main() {
	var (
		outDir  = flag.String("out", "./data/tiles/signs", "output directory for tile payloads and pointers")
		borough = flag.String("borough", "BROOKLYN", "borough filter for the sign dataset")
		bboxArg = flag.String("bbox", "", "optional west,south,east,north narrowing (degrees)")
		history = flag.Bool("history", false, "print recent build runs and exit")
	)
	flag.Parse()

	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	if *history {
		printHistory()
		return
	}

	var bbox *models.BBox
	if *bboxArg != "" {
		b, err := parseBBoxArg(*bboxArg)
		if err != nil {
			log.Fatal("Invalid -bbox: ", err)
		}
		bbox = &b
	}

	builder := &tilebuild.Builder{
		Grid:    cfg.Grid,
		Client:  socrata.New(cfg.DatasetURL),
		OutDir:  *outDir,
		Borough: strings.ToUpper(*borough),
		BBox:    bbox,
	}

	started := time.Now()
	stats, err := builder.Run(context.Background())

	run := database.BuildRun{
		Dataset:            cfg.DatasetURL,
		StartedAt:          started,
		FinishedAt:         time.Now(),
		Status:             database.RunStatusOK,
		PagesFetched:       stats.Pages,
		RowsFetched:        stats.Rows,
		PointsKept:         stats.Kept,
		SkippedNoText:      stats.SkippedNoText,
		SkippedBadXY:       stats.SkippedBadXY,
		SkippedOutOfBounds: stats.SkippedOutOfBounds,
	}
	if err != nil {
		run.Status = database.RunStatusFailed
		run.Note = err.Error()
	}
	if _, dbErr := database.InsertBuildRun(run); dbErr != nil {
		log.Printf("Failed to record build run: %v", dbErr)
	}

	if err != nil {
		log.Fatal("BUILD FAILED: ", err)
	}

	log.Printf("DONE. rows=%d kept=%d skipped(noText=%d badXY=%d outOfBounds=%d) out=%s",
		stats.Rows, stats.Kept, stats.SkippedNoText, stats.SkippedBadXY, stats.SkippedOutOfBounds, *outDir)
}

func printHistory() {
	runs, err := database.ListBuildRuns(20)
	if err != nil {
		log.Fatal("Failed to list build runs:", err)
	}
	for _, r := range runs {
		fmt.Printf("#%d %s %s rows=%d kept=%d pages=%d %s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Status, r.RowsFetched, r.PointsKept, r.PagesFetched, r.Note)
	}
	if len(runs) == 0 {
		fmt.Println("no build runs recorded")
	}
}

func parseBBoxArg(s string) (models.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.BBox{}, fmt.Errorf("want west,south,east,north")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.BBox{}, err
		}
		vals[i] = v
	}
	b := models.BBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	return b, b.Validate()
}
