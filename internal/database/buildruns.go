package database

import (
	"database/sql"
	"time"
)

// BuildRun records one offline tile build: what was fetched, what was kept,
// and why rows were dropped.
type BuildRun struct {
	ID                 int64
	Dataset            string
	StartedAt          time.Time
	FinishedAt         time.Time
	Status             string // "ok" or "failed"
	PagesFetched       int
	RowsFetched        int
	PointsKept         int
	SkippedNoText      int
	SkippedBadXY       int
	SkippedOutOfBounds int
	Note               string
}

// Run statuses.
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// InsertBuildRun stores a completed run.
func InsertBuildRun(r BuildRun) (int64, error) {
	res, err := GetDB().Exec(`
		INSERT INTO build_runs
			(dataset, started_at, finished_at, status, pages_fetched, rows_fetched,
			 points_kept, skipped_no_text, skipped_bad_xy, skipped_out_of_bounds, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Dataset, r.StartedAt, r.FinishedAt, r.Status, r.PagesFetched, r.RowsFetched,
		r.PointsKept, r.SkippedNoText, r.SkippedBadXY, r.SkippedOutOfBounds, r.Note,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListBuildRuns returns the most recent runs, newest first.
func ListBuildRuns(limit int) ([]BuildRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := GetDB().Query(`
		SELECT id, dataset, started_at, finished_at, status, pages_fetched,
		       rows_fetched, points_kept, skipped_no_text, skipped_bad_xy,
		       skipped_out_of_bounds, COALESCE(note, '')
		FROM build_runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BuildRun
	for rows.Next() {
		var r BuildRun
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Dataset, &r.StartedAt, &finished, &r.Status,
			&r.PagesFetched, &r.RowsFetched, &r.PointsKept, &r.SkippedNoText,
			&r.SkippedBadXY, &r.SkippedOutOfBounds, &r.Note); err != nil {
			return nil, err
		}
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
