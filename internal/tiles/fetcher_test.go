package tiles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// countingResolver tracks in-flight resolutions so the test can observe the
// worker bound.
type countingResolver struct {
	dir     string
	active  int32
	maxSeen int32
}

func (r *countingResolver) Resolve(_ context.Context, tile TileID) (string, error) {
	n := atomic.AddInt32(&r.active, 1)
	for {
		m := atomic.LoadInt32(&r.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&r.maxSeen, m, n) {
			break
		}
	}
	defer atomic.AddInt32(&r.active, -1)
	return filepath.Join(r.dir, tile.Name()+".json"), nil
}

func writePayloads(t *testing.T, dir string, ids []TileID) {
	t.Helper()
	for _, id := range ids {
		body := fmt.Sprintf(`[{"lat":40.65,"lon":-73.94,"onStreet":"%s"}]`, id.Name())
		if err := os.WriteFile(filepath.Join(dir, id.Name()+".json"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFetchAll(t *testing.T) {
	dir := t.TempDir()
	var ids []TileID
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			ids = append(ids, TileID{Col: c, Row: r})
		}
	}
	writePayloads(t, dir, ids)

	resolver := &countingResolver{dir: dir}
	f := &Fetcher{Resolver: resolver, Workers: 3}

	results := f.FetchAll(context.Background(), ids)
	if len(results) != len(ids) {
		t.Fatalf("got %d results, want %d", len(results), len(ids))
	}
	for i, res := range results {
		if res.Tile != ids[i] {
			t.Errorf("result %d is for tile %+v, want %+v (slot order must match input)", i, res.Tile, ids[i])
		}
		if res.Err != nil {
			t.Errorf("tile %s: %v", res.Tile.Name(), res.Err)
		}
	}
	if got := atomic.LoadInt32(&resolver.maxSeen); got > 3 {
		t.Errorf("observed %d concurrent fetches, want at most 3", got)
	}
	if got := Failed(results); len(got) != 0 {
		t.Errorf("Failed() = %v, want none", got)
	}
}

func TestFetchAllPartialFailure(t *testing.T) {
	dir := t.TempDir()
	ids := []TileID{{0, 0}, {1, 0}, {2, 0}}
	writePayloads(t, dir, []TileID{{0, 0}, {2, 0}}) // tile_1_0 has no payload

	f := &Fetcher{Resolver: &countingResolver{dir: dir}}
	results := f.FetchAll(context.Background(), ids)

	failed := Failed(results)
	if len(failed) != 1 || failed[0] != (TileID{1, 0}) {
		t.Fatalf("Failed() = %v, want [{1 0}]", failed)
	}
	if !errors.Is(results[1].Err, ErrBadPayload) {
		t.Errorf("err = %v, want ErrBadPayload", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("healthy tiles must not be affected by the failed one")
	}
}

func TestFetchAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Fetcher{Resolver: &countingResolver{dir: t.TempDir()}}
	ids := []TileID{{0, 0}, {1, 1}}
	results := f.FetchAll(ctx, ids)

	if len(results) != len(ids) {
		t.Fatalf("got %d results, want %d", len(results), len(ids))
	}
	for i, res := range results {
		if res.Err == nil {
			t.Errorf("result %d succeeded under a cancelled context", i)
		}
		if res.Tile != ids[i] {
			t.Errorf("result %d tile = %+v, want %+v", i, res.Tile, ids[i])
		}
	}
}

func TestDecodeSignTile(t *testing.T) {
	points, err := DecodeSignTile([]byte(`[{"lat":40.65,"lon":-73.94,"onStreet":"Carroll Street","side":"N","ruleText":"NO PARKING"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].OnStreet != "Carroll Street" {
		t.Errorf("unexpected decode result: %+v", points)
	}

	if _, err := DecodeSignTile([]byte(`{"not":"an array"}`)); !errors.Is(err, ErrBadPayload) {
		t.Errorf("err = %v, want ErrBadPayload", err)
	}
}

func TestDecodeCenterlineTile(t *testing.T) {
	good := []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"name":"Carroll Street"},"geometry":{"type":"LineString","coordinates":[[-73.95,40.65],[-73.94,40.65]]}}]}`)
	fc, err := DecodeCenterlineTile(good)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Properties.Name != "Carroll Street" {
		t.Errorf("unexpected decode result: %+v", fc)
	}

	if _, err := DecodeCenterlineTile([]byte(`{"type":"Feature"}`)); !errors.Is(err, ErrBadPayload) {
		t.Errorf("wrong type: err = %v, want ErrBadPayload", err)
	}
	if _, err := DecodeCenterlineTile([]byte(`not json`)); !errors.Is(err, ErrBadPayload) {
		t.Errorf("bad json: err = %v, want ErrBadPayload", err)
	}
}
