package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curbline/parking-backend-go/internal/models"
	"github.com/curbline/parking-backend-go/internal/service"
)

// BlockfaceHandler serves the sign, centerline and fused blockface
// endpoints. All three responses are uncacheable: a cached transient
// failure would pin an empty viewport as permanent.
type BlockfaceHandler struct {
	service *service.TileService
}

// NewBlockfaceHandler creates a new blockface handler
func NewBlockfaceHandler(service *service.TileService) *BlockfaceHandler {
	return &BlockfaceHandler{service: service}
}

// parseBBox reads the four bbox query fields. Missing and non-finite are
// both rejected; so are degenerate extents.
func parseBBox(c *gin.Context) (models.BBox, error) {
	var b models.BBox
	fields := []struct {
		name string
		dst  *float64
	}{
		{"west", &b.West},
		{"south", &b.South},
		{"east", &b.East},
		{"north", &b.North},
	}
	for _, f := range fields {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			return b, fmt.Errorf("missing bbox params: west,south,east,north")
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return b, fmt.Errorf("bbox param %q is not a finite number", f.name)
		}
		*f.dst = v
	}
	return b, b.Validate()
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store, max-age=0")
}

// GetSigns handles GET /api/v1/signs
func (h *BlockfaceHandler) GetSigns(c *gin.Context) {
	noStore(c)

	bbox, err := parseBBox(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.SignsResponse{
			Points:  []models.SignRecord{},
			Partial: true,
			Note:    err.Error(),
		})
		return
	}

	resp, err := h.service.FetchSigns(c.Request.Context(), bbox)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.SignsResponse{
			Points:  []models.SignRecord{},
			Partial: true,
			Note:    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCenterlines handles GET /api/v1/centerline
func (h *BlockfaceHandler) GetCenterlines(c *gin.Context) {
	noStore(c)

	bbox, err := parseBBox(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fc, err := h.service.FetchCenterlines(c.Request.Context(), bbox)
	if err != nil {
		h.centerlineError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

// GetBlockfaces handles GET /api/v1/blockfaces
func (h *BlockfaceHandler) GetBlockfaces(c *gin.Context) {
	noStore(c)

	bbox, err := parseBBox(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.BlockfacesResponse{
			Lines:   []models.BlockfaceLine{},
			Partial: true,
			Note:    err.Error(),
		})
		return
	}

	resp, err := h.service.BuildBlockfaces(c.Request.Context(), bbox)
	if err != nil {
		h.centerlineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// centerlineError renders the hard centerline failure, naming which tiles
// failed so "data failed to load" is never mistaken for "no data in view".
func (h *BlockfaceHandler) centerlineError(c *gin.Context, err error) {
	var clErr *service.CenterlineFetchError
	if errors.As(err, &clErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":       "centerline tile fetch failed",
			"failedTiles": clErr.FailedTiles,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
