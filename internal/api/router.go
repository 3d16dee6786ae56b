package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/curbline/parking-backend-go/internal/config"
	"github.com/curbline/parking-backend-go/internal/handler"
	"github.com/curbline/parking-backend-go/internal/middleware"
	"github.com/curbline/parking-backend-go/internal/service"
)

// SetupRouter wires middleware, the tile service and the API routes.
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS: the map frontend is served from another origin
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Parking Backend API is running",
		})
	})

	tileService := service.NewTileService(cfg)
	blockfaces := handler.NewBlockfaceHandler(tileService)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		api.GET("/signs", blockfaces.GetSigns)
		api.GET("/centerline", blockfaces.GetCenterlines)
		api.GET("/blockfaces", blockfaces.GetBlockfaces)
	}

	return r
}
