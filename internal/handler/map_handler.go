package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pollenmap/pollen-backend-go/internal/service"
	"github.com/pollenmap/pollen-backend-go/pkg/response"
)

// MapHandler serves rendered layer frames.
type MapHandler struct {
	sessions *service.SessionService
}

// NewMapHandler creates a new map handler
func NewMapHandler(sessions *service.SessionService) *MapHandler {
	return &MapHandler{sessions: sessions}
}

// Frame handles GET /api/v1/sessions/:id/frame?hour&zoom
func (h *MapHandler) Frame(c *gin.Context) {
	hour := -1
	if raw := c.Query("hour"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Invalid hour")
			return
		}
		hour = parsed
	}

	zoom := 0.0
	if raw := c.Query("zoom"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "Invalid zoom")
			return
		}
		zoom = parsed
	}

	frame, err := h.sessions.Frame(c.Request.Context(), c.Param("id"), hour, zoom)
	if err != nil {
		// The map stays interactive; the client shows its no-data state.
		response.Error(c, http.StatusBadGateway, err.Error())
		return
	}

	response.Success(c, frame)
}
