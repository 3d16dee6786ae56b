package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/tiles"
)

// DefaultGrid is the fixed tile grid every dataset shares. Sign tiles and
// centerline tiles are built against this exact value; changing it requires
// rebuilding both stores in lockstep, so it lives here and nowhere else.
var DefaultGrid = tiles.Grid{
	BBox: models.BBox{
		West:  -74.05,
		South: 40.56,
		East:  -73.83,
		North: 40.74,
	},
	Cols: 4,
	Rows: 4,
}

// Config holds runtime configuration for the API server and tile builder.
type Config struct {
	Port string

	// Tile store roots. Each is either an HTTP origin or a local directory
	// holding pointers/ and payload files.
	SignTileRoot       string
	CenterlineTileRoot string

	// Offline builder
	DBPath     string
	DatasetURL string

	Grid           tiles.Grid
	FetchWorkers   int
	RequestTimeout time.Duration
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	signRoot := os.Getenv("SIGN_TILE_ROOT")
	if signRoot == "" {
		signRoot = "./data/tiles/signs"
	}

	clRoot := os.Getenv("CENTERLINE_TILE_ROOT")
	if clRoot == "" {
		clRoot = "./data/tiles/centerline"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/tilebuild.db"
	}

	datasetURL := os.Getenv("DATASET_URL")
	if datasetURL == "" {
		datasetURL = "https://data.cityofnewyork.us/resource/2x64-6f34.json"
	}

	workers := tiles.DefaultWorkers
	if v := os.Getenv("FETCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	timeout := 25 * time.Second
	if v := os.Getenv("REQUEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Millisecond
		}
	}

	return &Config{
		Port:               port,
		SignTileRoot:       signRoot,
		CenterlineTileRoot: clRoot,
		DBPath:             dbPath,
		DatasetURL:         datasetURL,
		Grid:               DefaultGrid,
		FetchWorkers:       workers,
		RequestTimeout:     timeout,
	}
}
