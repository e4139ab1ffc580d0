package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pollenmap/pollen-backend-go/internal/chart"
	"github.com/pollenmap/pollen-backend-go/internal/service"
	"github.com/pollenmap/pollen-backend-go/pkg/response"
)

// ChartHandler serves point-inspection time series.
type ChartHandler struct {
	sessions *service.SessionService
}

// NewChartHandler creates a new chart handler
func NewChartHandler(sessions *service.SessionService) *ChartHandler {
	return &ChartHandler{sessions: sessions}
}

// Series handles GET /api/v1/sessions/:id/chart?lat&lon
func (h *ChartHandler) Series(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		response.BadRequest(c, "Invalid coordinates")
		return
	}

	series, err := h.sessions.Chart(c.Request.Context(), c.Param("id"), lat, lon)
	if err != nil {
		if errors.Is(err, chart.ErrSuperseded) {
			// A newer selection won; nothing to show and nothing to report.
			c.Status(http.StatusNoContent)
			return
		}
		response.Error(c, http.StatusBadGateway, err.Error())
		return
	}

	response.Success(c, series)
}
