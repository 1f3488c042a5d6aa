package handler

import (
	"net/http"

	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/catalog"
)

// CatalogHandler serves the read-only exercise and food catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Exercises handles GET /v1/catalog/exercises.
func (h *CatalogHandler) Exercises(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.catalog.Exercises())
}

// SearchFoods handles GET /v1/catalog/foods?q=.
func (h *CatalogHandler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.catalog.SearchFoods(r.URL.Query().Get("q")))
}

// FrequentFoods handles GET /v1/catalog/foods/frequent.
func (h *CatalogHandler) FrequentFoods(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.catalog.FrequentFoods())
}
