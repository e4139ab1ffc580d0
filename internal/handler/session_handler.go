package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/service"
	"github.com/pollenmap/pollen-backend-go/internal/timeline"
	"github.com/pollenmap/pollen-backend-go/pkg/response"
)

// SessionHandler handles map session lifecycle and timeline control.
type SessionHandler struct {
	sessions *service.SessionService
	catalog  *models.Catalog
	region   *models.Region
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, catalog *models.Catalog, region *models.Region) *SessionHandler {
	return &SessionHandler{sessions: sessions, catalog: catalog, region: region}
}

type createSessionRequest struct {
	Species string  `json:"species" binding:"required"`
	Zoom    float64 `json:"zoom"`
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sess, err := h.sessions.Create(req.Species, req.Zoom)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"session_id": sess.ID,
		"timeline":   sess.Timeline.Snapshot(),
		"region":     h.region,
		"catalog":    h.catalog.All(),
	})
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Teardown(c.Param("id")); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

type timelineRequest struct {
	Action string `json:"action" binding:"required"` // play | pause | seek
	Hour   *int   `json:"hour"`
}

// Timeline handles POST /api/v1/sessions/:id/timeline
func (h *SessionHandler) Timeline(c *gin.Context) {
	var req timelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	id := c.Param("id")
	var state timeline.State
	var err error
	switch req.Action {
	case "play":
		state, err = h.sessions.Play(id)
	case "pause":
		state, err = h.sessions.Pause(id)
	case "seek":
		if req.Hour == nil {
			response.BadRequest(c, "Seek requires an hour")
			return
		}
		state, err = h.sessions.Seek(c.Request.Context(), id, *req.Hour)
	default:
		response.BadRequest(c, "Unknown timeline action")
		return
	}
	if err != nil {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}

	response.Success(c, gin.H{"timeline": state})
}

type speciesRequest struct {
	Species string `json:"species" binding:"required"`
}

// SwitchSpecies handles POST /api/v1/sessions/:id/species
func (h *SessionHandler) SwitchSpecies(c *gin.Context) {
	var req speciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.sessions.SwitchSpecies(c.Param("id"), req.Species); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, gin.H{"species": req.Species})
}
