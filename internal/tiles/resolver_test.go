package tiles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePointer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"blob://tile_0_0.json", "tile_0_0.json"},
		{"  blob://tile_1_2.json\n", "tile_1_2.json"},
		{"/payloads/tile_0_0.json", "/payloads/tile_0_0.json"},
		{"https://cdn.example.com/tile_0_0.json", "https://cdn.example.com/tile_0_0.json"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizePointer(tc.in); got != tc.want {
			t.Errorf("NormalizePointer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFileResolver(t *testing.T) {
	dir := t.TempDir()
	pointerDir := filepath.Join(dir, "pointers")
	if err := os.MkdirAll(pointerDir, 0o755); err != nil {
		t.Fatal(err)
	}

	writePointer := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(pointerDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writePointer("tile_0_0.txt", "blob://tile_0_0.json")
	writePointer("tile_1_0.txt", "")
	writePointer("tile_2_0.txt", "https://cdn.example.com/t.json")

	r := &FileResolver{PointerDir: pointerDir, PayloadDir: dir}
	ctx := context.Background()

	t.Run("relative pointer joins onto payload dir", func(t *testing.T) {
		loc, err := r.Resolve(ctx, TileID{0, 0})
		if err != nil {
			t.Fatal(err)
		}
		want := filepath.Join(dir, "tile_0_0.json")
		if loc != want {
			t.Errorf("loc = %q, want %q", loc, want)
		}
	})

	t.Run("missing pointer", func(t *testing.T) {
		_, err := r.Resolve(ctx, TileID{3, 3})
		if !errors.Is(err, ErrPointerMissing) {
			t.Errorf("err = %v, want ErrPointerMissing", err)
		}
	})

	t.Run("empty pointer", func(t *testing.T) {
		_, err := r.Resolve(ctx, TileID{1, 0})
		if !errors.Is(err, ErrBadPointer) {
			t.Errorf("err = %v, want ErrBadPointer", err)
		}
	})

	t.Run("http pointer passes through", func(t *testing.T) {
		loc, err := r.Resolve(ctx, TileID{2, 0})
		if err != nil {
			t.Fatal(err)
		}
		if loc != "https://cdn.example.com/t.json" {
			t.Errorf("loc = %q", loc)
		}
	})
}

func TestHTTPResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/pointers/tile_0_0.txt":
			w.Write([]byte("blob:///payloads/tile_0_0.json"))
		case "/pointers/tile_1_0.txt":
			w.Write([]byte("blob://not-a-url"))
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	r := &HTTPResolver{Origin: srv.URL, Prefix: "/pointers", Client: srv.Client()}
	ctx := context.Background()

	t.Run("absolute path rebases onto origin", func(t *testing.T) {
		loc, err := r.Resolve(ctx, TileID{0, 0})
		if err != nil {
			t.Fatal(err)
		}
		want := srv.URL + "/payloads/tile_0_0.json"
		if loc != want {
			t.Errorf("loc = %q, want %q", loc, want)
		}
	})

	t.Run("non-url pointer is rejected", func(t *testing.T) {
		_, err := r.Resolve(ctx, TileID{1, 0})
		if !errors.Is(err, ErrBadPointer) {
			t.Errorf("err = %v, want ErrBadPointer", err)
		}
	})

	t.Run("404 pointer", func(t *testing.T) {
		_, err := r.Resolve(ctx, TileID{3, 3})
		if !errors.Is(err, ErrPointerMissing) {
			t.Errorf("err = %v, want ErrPointerMissing", err)
		}
	})
}
