package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pollenmap/pollen-backend-go/internal/config"
	"github.com/pollenmap/pollen-backend-go/internal/handler"
	"github.com/pollenmap/pollen-backend-go/internal/middleware"
	"github.com/pollenmap/pollen-backend-go/internal/stream"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth    *handler.AuthHandler
	Session *handler.SessionHandler
	Map     *handler.MapHandler
	Chart   *handler.ChartHandler
	Geocode *handler.GeocodeHandler
	Catalog *handler.CatalogHandler
	Hub     *stream.Hub
}

// SetupRouter builds the gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS for the browser renderer
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Pollen Map API is running",
		})
	})

	// Frame stream for renderers; the session ID is the capability.
	r.GET("/ws/sessions/:id", func(c *gin.Context) {
		h.Hub.Serve(c.Param("id"), c.Writer, c.Request)
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/token", h.Auth.IssueToken)
		api.GET("/catalog", h.Catalog.List)

		authed := api.Group("", middleware.Auth(cfg.JWTSecret))
		{
			sessions := authed.Group("/sessions")
			{
				sessions.POST("", h.Session.Create)
				sessions.DELETE("/:id", h.Session.Delete)
				sessions.POST("/:id/timeline", h.Session.Timeline)
				sessions.POST("/:id/species", h.Session.SwitchSpecies)
				sessions.GET("/:id/frame", h.Map.Frame)
				sessions.GET("/:id/chart", h.Chart.Series)
				sessions.GET("/:id/search", h.Geocode.Search)
				sessions.POST("/:id/geolocation", h.Geocode.Geolocation)
			}

			// The public geocoding provider throttles aggressively; keep our
			// own ceiling below theirs.
			geocode := authed.Group("/geocode", middleware.RateLimit(30, time.Minute))
			{
				geocode.GET("/reverse", h.Geocode.Reverse)
			}
		}
	}

	return r
}
