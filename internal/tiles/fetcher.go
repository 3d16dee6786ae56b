package tiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/curbline/parking-backend-go/internal/models"
)

// DefaultWorkers bounds concurrent tile fetches within one request.
const DefaultWorkers = 6

// Result is the outcome of one tile fetch: raw payload bytes or an error.
// The per-dataset partial-failure policy is applied later, in one place,
// by the service layer.
type Result struct {
	Tile TileID
	Data []byte
	Err  error
}

// Failed returns the tiles whose fetch failed, in input order.
func Failed(results []Result) []TileID {
	var out []TileID
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r.Tile)
		}
	}
	return out
}

// Fetcher loads tile payloads through a pointer resolver.
type Fetcher struct {
	Resolver PointerResolver
	Client   *http.Client
	Workers  int
}

// FetchAll fetches every tile concurrently with a bounded worker count.
// Workers pull indices from a shared channel and write into a preallocated
// results slice at their assigned slot, so no locking is needed on the way
// out. Context cancellation aborts in-flight fetches.
func (f *Fetcher) FetchAll(ctx context.Context, ids []TileID) []Result {
	results := make([]Result, len(ids))

	workers := f.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	idx := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				data, err := f.fetchOne(ctx, ids[i])
				results[i] = Result{Tile: ids[i], Data: data, Err: err}
			}
		}()
	}

	for i := range ids {
		select {
		case idx <- i:
		case <-ctx.Done():
			// everything not yet handed out fails with the context error
			for j := i; j < len(ids); j++ {
				results[j] = Result{Tile: ids[j], Err: ctx.Err()}
			}
			close(idx)
			wg.Wait()
			return results
		}
	}
	close(idx)
	wg.Wait()
	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, tile TileID) ([]byte, error) {
	loc, err := f.Resolver.Resolve(ctx, tile)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return f.fetchHTTP(ctx, loc)
	}
	b, err := os.ReadFile(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return b, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s", ErrBadPayload, resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// DecodeSignTile parses a sign tile payload: a JSON array of sign records.
func DecodeSignTile(data []byte) ([]models.SignRecord, error) {
	var points []models.SignRecord
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return points, nil
}

// DecodeCenterlineTile parses a centerline tile payload: a GeoJSON
// FeatureCollection.
func DecodeCenterlineTile(data []byte) (*models.FeatureCollection, error) {
	var fc models.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q is not a FeatureCollection", ErrBadPayload, fc.Type)
	}
	return &fc, nil
}
