package tiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Pointer scheme token written by the tile builder. Stripped before use.
const PointerScheme = "blob://"

var (
	// ErrPointerMissing means the pointer record for a tile could not be read.
	ErrPointerMissing = errors.New("tile pointer missing")
	// ErrBadPointer means the pointer content resolves to neither an
	// absolute location nor a recognized scheme-prefixed one.
	ErrBadPointer = errors.New("tile pointer malformed")
	// ErrBadPayload means the pointed-to payload is not a well-formed
	// collection of the expected shape.
	ErrBadPayload = errors.New("tile payload malformed")
)

// PointerResolver turns a tile id into the actual storage location of its
// payload. One implementation per storage backend keeps the matching core
// free of storage concerns.
type PointerResolver interface {
	Resolve(ctx context.Context, tile TileID) (string, error)
}

// HTTPResolver reads pointer files served under an HTTP origin, e.g.
// {origin}{prefix}/tile_0_0.txt. Pointer fetches are never cached: pinning
// a transient failure would persist an empty tile as permanent.
type HTTPResolver struct {
	Origin string // e.g. https://tiles.example.com
	Prefix string // e.g. /centerline/pointers
	Client *http.Client
}

// Resolve fetches and normalizes the pointer. Absolute paths ("/x/y.json")
// are rebased onto the origin; the custom scheme prefix is stripped; the
// result must be an http(s) URL.
func (r *HTTPResolver) Resolve(ctx context.Context, tile TileID) (string, error) {
	url := strings.TrimRight(r.Origin, "/") + r.Prefix + "/" + tile.Name() + ".txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPointerMissing, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := r.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPointerMissing, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d for %s", ErrPointerMissing, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPointerMissing, err)
	}

	loc := NormalizePointer(string(body))
	if strings.HasPrefix(loc, "/") {
		loc = strings.TrimRight(r.Origin, "/") + loc
	}
	if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
		return "", fmt.Errorf("%w: %q", ErrBadPointer, truncate(loc, 80))
	}
	return loc, nil
}

func (r *HTTPResolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

// FileResolver reads pointer files from a local directory, the layout the
// offline builder writes. Relative pointer content is joined onto the
// payload directory; absolute paths are used as-is.
type FileResolver struct {
	PointerDir string // directory holding tile_<c>_<r>.txt
	PayloadDir string // base for relative pointer content
}

func (r *FileResolver) Resolve(_ context.Context, tile TileID) (string, error) {
	b, err := os.ReadFile(filepath.Join(r.PointerDir, tile.Name()+".txt"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPointerMissing, err)
	}

	loc := NormalizePointer(string(b))
	if loc == "" {
		return "", fmt.Errorf("%w: empty pointer for %s", ErrBadPointer, tile.Name())
	}
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return loc, nil
	}
	if !filepath.IsAbs(loc) {
		loc = filepath.Join(r.PayloadDir, loc)
	}
	return loc, nil
}

// NormalizePointer trims the pointer text and strips the custom scheme
// token if present.
func NormalizePointer(s string) string {
	t := strings.TrimSpace(s)
	return strings.TrimPrefix(t, PointerScheme)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
