// Package service applies the per-dataset partial-failure policy on top of
// the tile fetch layer and fuses the two datasets into blockface lines.
// The policy decision lives here, in one place, not in the fetch code.
package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/curbline/parking-backend-go/internal/blockface"
	"github.com/curbline/parking-backend-go/internal/config"
	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/tiles"
)

// CenterlineFetchError is the hard failure for the centerline dataset: any
// required tile that fails poisons the whole response, because a silent
// centerline gap is indistinguishable from "no rule here" on a map.
type CenterlineFetchError struct {
	FailedTiles []string
}

func (e *CenterlineFetchError) Error() string {
	return "centerline tile fetch failed: " + strings.Join(e.FailedTiles, ", ")
}

// TileService fetches both tile datasets over the shared grid.
type TileService struct {
	grid       tiles.Grid
	signs      *tiles.Fetcher
	centerline *tiles.Fetcher
	timeout    time.Duration
}

// NewTileService wires fetchers for the two tile roots. A root starting
// with http(s) gets the HTTP pointer resolver; anything else is treated as
// a local directory laid out the way the builder writes it.
func NewTileService(cfg *config.Config) *TileService {
	client := &http.Client{}
	return &TileService{
		grid:       cfg.Grid,
		signs:      newFetcher(cfg.SignTileRoot, cfg.FetchWorkers, client),
		centerline: newFetcher(cfg.CenterlineTileRoot, cfg.FetchWorkers, client),
		timeout:    cfg.RequestTimeout,
	}
}

func newFetcher(root string, workers int, client *http.Client) *tiles.Fetcher {
	var resolver tiles.PointerResolver
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		resolver = &tiles.HTTPResolver{Origin: root, Prefix: "/pointers", Client: client}
	} else {
		resolver = &tiles.FileResolver{
			PointerDir: root + "/pointers",
			PayloadDir: root,
		}
	}
	return &tiles.Fetcher{Resolver: resolver, Client: client, Workers: workers}
}

// FetchSigns resolves, fetches and aggregates sign tiles for a viewport.
// Failed tiles do not abort the request: whatever loaded is returned with
// partial set and the failures enumerated in the note.
func (s *TileService) FetchSigns(ctx context.Context, bbox models.BBox) (*models.SignsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ids := s.grid.TilesForBBox(bbox.Clamp(s.grid.BBox))
	results := s.signs.FetchAll(ctx, ids)

	resp := &models.SignsResponse{OK: true, Points: []models.SignRecord{}}
	var failed []string

	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Tile.Name())
			continue
		}
		points, err := tiles.DecodeSignTile(r.Data)
		if err != nil {
			failed = append(failed, r.Tile.Name())
			continue
		}
		// tiles are coarser than the viewport; filter to the requested box
		for _, p := range points {
			if bbox.Contains(p.Lat, p.Lon) {
				resp.Points = append(resp.Points, p)
			}
		}
	}

	if len(failed) > 0 {
		resp.Partial = true
		resp.Note = fmt.Sprintf("failed to load %d of %d sign tiles: %s",
			len(failed), len(ids), strings.Join(failed, ", "))
	}
	return resp, nil
}

// FetchCenterlines resolves, fetches and aggregates centerline tiles. Any
// tile failure is a hard failure carrying the failed tile names.
func (s *TileService) FetchCenterlines(ctx context.Context, bbox models.BBox) (*models.FeatureCollection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ids := s.grid.TilesForBBox(bbox.Clamp(s.grid.BBox))
	results := s.centerline.FetchAll(ctx, ids)

	collections := make([]*models.FeatureCollection, 0, len(results))
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Tile.Name())
			continue
		}
		fc, err := tiles.DecodeCenterlineTile(r.Data)
		if err != nil {
			failed = append(failed, r.Tile.Name())
			continue
		}
		collections = append(collections, fc)
	}

	if len(failed) > 0 {
		return nil, &CenterlineFetchError{FailedTiles: failed}
	}

	out := &models.FeatureCollection{Type: "FeatureCollection", Features: []models.CenterlineFeature{}}
	for _, fc := range collections {
		for _, f := range fc.Features {
			if f.IntersectsBBox(bbox) {
				out.Features = append(out.Features, f)
			}
		}
	}
	return out, nil
}

// BuildBlockfaces runs the full pipeline for a viewport: both datasets are
// fetched concurrently, then fused into offset blockface lines. A sign-side
// partial result degrades to a partial line set; a centerline failure
// propagates as the hard CenterlineFetchError.
func (s *TileService) BuildBlockfaces(ctx context.Context, bbox models.BBox) (*models.BlockfacesResponse, error) {
	var (
		wg       sync.WaitGroup
		signResp *models.SignsResponse
		signErr  error
		clResp   *models.FeatureCollection
		clErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		signResp, signErr = s.FetchSigns(ctx, bbox)
	}()
	go func() {
		defer wg.Done()
		clResp, clErr = s.FetchCenterlines(ctx, bbox)
	}()
	wg.Wait()

	if clErr != nil {
		return nil, clErr
	}
	if signErr != nil {
		return nil, signErr
	}

	lines := blockface.BuildLines(signResp.Points, clResp.Features)
	if lines == nil {
		lines = []models.BlockfaceLine{}
	}

	return &models.BlockfacesResponse{
		OK:      true,
		Lines:   lines,
		Partial: signResp.Partial,
		Note:    signResp.Note,
	}, nil
}
