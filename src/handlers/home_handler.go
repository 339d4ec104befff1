// backend/src/handlers/home_handler.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/bsm/src/models"
)

// sections are the four tiles on the BSM landing page. Paths are the
// file-path-like route identifiers the frontend resolves to sub-pages.
var sections = []models.Section{
	{Slug: "distribution", Title: "Distribution", Path: "pages/01_distribution", Status: "coming_soon"},
	{Slug: "portfolio-management", Title: "Portfolio Management", Path: "pages/02_portfolio_management", Status: "available"},
	{Slug: "forecasting", Title: "Forecasting", Path: "pages/03_forecasting", Status: "coming_soon"},
	{Slug: "post-deal", Title: "Post Deal", Path: "pages/04_post_deal", Status: "coming_soon"},
}

// HomeHandler serves the navigation shell.
type HomeHandler struct{}

func NewHomeHandler() *HomeHandler { return &HomeHandler{} }

func (h *HomeHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"title":    "BSM",
		"sections": sections,
	})
}

func (h *HomeHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	for _, s := range sections {
		if s.Slug == slug {
			payload := map[string]interface{}{"section": s}
			if s.Status != "available" {
				payload["message"] = "This section is not built out yet. Select another section from the dashboard."
			}
			sendJSON(w, http.StatusOK, payload)
			return
		}
	}
	sendJSONError(w, "unknown section", http.StatusNotFound)
}
