package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pollenmap/pollen-backend-go/internal/service"
	"github.com/pollenmap/pollen-backend-go/pkg/response"
)

// GeocodeHandler proxies location search, reverse geocoding and the
// geolocation flow.
type GeocodeHandler struct {
	geocode  *service.GeocodeService
	sessions *service.SessionService
}

// NewGeocodeHandler creates a new geocode handler
func NewGeocodeHandler(geocode *service.GeocodeService, sessions *service.SessionService) *GeocodeHandler {
	return &GeocodeHandler{geocode: geocode, sessions: sessions}
}

// Search handles GET /api/v1/sessions/:id/search?q
func (h *GeocodeHandler) Search(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	results, err := h.geocode.Search(c.Request.Context(), sess, c.Query("q"))
	if err != nil {
		// Inline no-results state; the map stays interactive.
		response.Error(c, http.StatusBadGateway, "Location search is unavailable")
		return
	}

	response.Success(c, gin.H{"results": results, "count": len(results)})
}

// Reverse handles GET /api/v1/geocode/reverse?lat&lon
func (h *GeocodeHandler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		response.BadRequest(c, "Invalid coordinates")
		return
	}

	result, err := h.geocode.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		// Display-name lookup is cosmetic: log and answer with no name.
		log.Printf("reverse geocode (%g, %g) failed: %v", lat, lon, err)
		response.Success(c, gin.H{"display_name": ""})
		return
	}

	response.Success(c, result)
}

type geolocationRequest struct {
	Status string  `json:"status" binding:"required"` // granted | denied
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Geolocation handles POST /api/v1/sessions/:id/geolocation. Permission
// denial is a distinct terminal state with its own message, never conflated
// with fetch failures.
func (h *GeocodeHandler) Geolocation(c *gin.Context) {
	var req geolocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.Status == "denied" {
		response.Error(c, http.StatusForbidden, "Location access was denied. Enable location permissions to center the map on your position.")
		return
	}

	result, err := h.geocode.Reverse(c.Request.Context(), req.Lat, req.Lon)
	if err != nil {
		log.Printf("reverse geocode for geolocation (%g, %g) failed: %v", req.Lat, req.Lon, err)
		response.Success(c, gin.H{"display_name": ""})
		return
	}
	response.Success(c, result)
}
