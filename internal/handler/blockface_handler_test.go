package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/curbline/parking-backend-go/internal/config"
	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/service"
	"github.com/curbline/parking-backend-go/internal/tiles"
)

var handlerGrid = tiles.Grid{
	BBox: models.BBox{West: -73.96, South: 40.64, East: -73.92, North: 40.66},
	Cols: 2,
	Rows: 1,
}

func writeTile(t *testing.T, root string, id tiles.TileID, payload any) {
	t.Helper()
	pointerDir := filepath.Join(root, "pointers")
	if err := os.MkdirAll(pointerDir, 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	name := id.Name() + ".json"
	if err := os.WriteFile(filepath.Join(root, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pointerDir, id.Name()+".txt"), []byte(tiles.PointerScheme+name), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testRouter(t *testing.T) (*gin.Engine, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signRoot := t.TempDir()
	clRoot := t.TempDir()
	svc := service.NewTileService(&config.Config{
		Grid:               handlerGrid,
		SignTileRoot:       signRoot,
		CenterlineTileRoot: clRoot,
		FetchWorkers:       2,
		RequestTimeout:     5 * time.Second,
	})
	h := NewBlockfaceHandler(svc)

	r := gin.New()
	r.GET("/api/v1/signs", h.GetSigns)
	r.GET("/api/v1/centerline", h.GetCenterlines)
	r.GET("/api/v1/blockfaces", h.GetBlockfaces)
	return r, signRoot, clRoot
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

const viewQuery = "west=-73.96&south=40.64&east=-73.92&north=40.66"

func TestBBoxValidation(t *testing.T) {
	r, _, _ := testRouter(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing all", ""},
		{"missing north", "west=-73.96&south=40.64&east=-73.92"},
		{"not a number", "west=abc&south=40.64&east=-73.92&north=40.66"},
		{"nan", "west=NaN&south=40.64&east=-73.92&north=40.66"},
		{"west not less than east", "west=-73.92&south=40.64&east=-73.96&north=40.66"},
		{"south not less than north", "west=-73.96&south=40.66&east=-73.92&north=40.64"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, path := range []string{"/api/v1/signs", "/api/v1/centerline", "/api/v1/blockfaces"} {
				w := get(r, path+"?"+tc.query)
				if w.Code != http.StatusBadRequest {
					t.Errorf("%s: status = %d, want 400", path, w.Code)
				}
			}
		})
	}
}

func TestGetSigns(t *testing.T) {
	r, signRoot, _ := testRouter(t)
	writeTile(t, signRoot, tiles.TileID{Col: 0, Row: 0}, []models.SignRecord{
		{Lat: 40.65, Lon: -73.95, OnStreet: "Carroll Street", Side: "N", RuleText: "NO PARKING 8-9AM"},
	})
	writeTile(t, signRoot, tiles.TileID{Col: 1, Row: 0}, []models.SignRecord{})

	w := get(r, "/api/v1/signs?"+viewQuery)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}

	var resp models.SignsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Partial || len(resp.Points) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetSignsPartial(t *testing.T) {
	r, signRoot, _ := testRouter(t)
	// tile_1_0 missing entirely
	writeTile(t, signRoot, tiles.TileID{Col: 0, Row: 0}, []models.SignRecord{
		{Lat: 40.65, Lon: -73.95, OnStreet: "Carroll Street", Side: "N", RuleText: "NO PARKING"},
	})

	w := get(r, "/api/v1/signs?"+viewQuery)
	if w.Code != http.StatusOK {
		t.Fatalf("partial result must still be 200, got %d", w.Code)
	}

	var resp models.SignsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || !resp.Partial {
		t.Errorf("ok=%v partial=%v, want ok and partial", resp.OK, resp.Partial)
	}
	if !strings.Contains(resp.Note, "tile_1_0") {
		t.Errorf("note %q does not name the failed tile", resp.Note)
	}
}

func TestGetCenterlinesHardFailure(t *testing.T) {
	r, _, _ := testRouter(t)
	// empty centerline store: every tile fails

	w := get(r, "/api/v1/centerline?"+viewQuery)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	var body struct {
		Error       string   `json:"error"`
		FailedTiles []string `json:"failedTiles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error == "" || len(body.FailedTiles) != 2 {
		t.Errorf("body = %+v, want an error naming both failed tiles", body)
	}
}

func TestGetBlockfaces(t *testing.T) {
	r, signRoot, clRoot := testRouter(t)

	writeTile(t, signRoot, tiles.TileID{Col: 0, Row: 0}, []models.SignRecord{
		{Lat: 40.6501, Lon: -73.952, OnStreet: "Carroll Street", FromStreet: "5 Ave", ToStreet: "6 Ave", Side: "N", RuleText: "NO PARKING 8-9AM MON"},
		{Lat: 40.6501, Lon: -73.948, OnStreet: "Carroll Street", FromStreet: "5 Ave", ToStreet: "6 Ave", Side: "N", RuleText: "NO PARKING 8-9AM MON"},
	})
	writeTile(t, signRoot, tiles.TileID{Col: 1, Row: 0}, []models.SignRecord{})
	writeTile(t, clRoot, tiles.TileID{Col: 0, Row: 0}, models.FeatureCollection{
		Type: "FeatureCollection",
		Features: []models.CenterlineFeature{{
			Type:       "Feature",
			Properties: models.CenterlineProperties{Name: "Carroll Street"},
			Geometry: &models.LineStringGeometry{
				Type:        "LineString",
				Coordinates: []models.Position{{-73.955, 40.65}, {-73.945, 40.65}},
			},
		}},
	})
	writeTile(t, clRoot, tiles.TileID{Col: 1, Row: 0}, models.FeatureCollection{Type: "FeatureCollection", Features: []models.CenterlineFeature{}})

	w := get(r, "/api/v1/blockfaces?"+viewQuery)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.BlockfacesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || len(resp.Lines) != 1 {
		t.Fatalf("resp = %+v, want one line", resp)
	}
	if resp.Lines[0].Rule != "NO PARKING 8-9AM MON" {
		t.Errorf("rule = %q", resp.Lines[0].Rule)
	}
}
