// Package database holds the build-run history store used by the offline
// tile builder. The request path never touches it; tiles are read-only at
// serve time.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

// Config holds database configuration
type Config struct {
	Path string
}

// Init initializes the database connection and schema.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); mkErr != nil {
			err = mkErr
			return
		}

		db, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return
		}

		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)

		if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return
		}
		if err = db.Ping(); err != nil {
			return
		}
		if err = migrate(db); err != nil {
			return
		}

		log.Printf("Database initialized: %s", cfg.Path)
	})

	return err
}

func migrate(db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS build_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			status TEXT NOT NULL,
			pages_fetched INTEGER NOT NULL DEFAULT 0,
			rows_fetched INTEGER NOT NULL DEFAULT 0,
			points_kept INTEGER NOT NULL DEFAULT 0,
			skipped_no_text INTEGER NOT NULL DEFAULT 0,
			skipped_bad_xy INTEGER NOT NULL DEFAULT 0,
			skipped_out_of_bounds INTEGER NOT NULL DEFAULT 0,
			note TEXT
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create build_runs table: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *sql.DB {
	if db == nil {
		log.Fatal("Database not initialized. Call Init() first.")
	}
	return db
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
