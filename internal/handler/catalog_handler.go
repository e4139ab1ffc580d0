package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/pkg/response"
)

// CatalogHandler serves the species catalog.
type CatalogHandler struct {
	catalog *models.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *models.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /api/v1/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	species := h.catalog.All()
	response.Success(c, gin.H{
		"species": species,
		"count":   len(species),
	})
}
