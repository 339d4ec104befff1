// backend/src/handlers/dashboard_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/username/bsm/src/charts"
	"github.com/username/bsm/src/logger"
)

// HandleDashboardPage renders the "Filtered Data Visuals" as a standalone
// HTML page with the balance-by-sector bar and facility-count pie. Chart
// failures degrade to a warning message; they never abort the page.
func (h *PortfolioHandler) HandleDashboardPage(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	month := r.URL.Query().Get("month")
	if month == "" {
		if months := h.portfolioService.Months(); len(months) > 0 {
			month = months[0]
		}
	}
	if month == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<p>Could not display Portfolio data as the data file failed to load.</p>")
		return
	}

	sel := h.parseSelection(r, month)
	page := charts.BuildDashboardPage(
		month,
		h.portfolioService.BalanceBySector(sel),
		h.portfolioService.FacilityCountByRating(sel),
	)
	if page == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<p>No data matching current filters to display visuals.</p>")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		ctxLogger.Warn("Chart rendering failed, skipping charts", "month", month, "error", err)
		fmt.Fprint(w, "<p>An error occurred generating charts.</p>")
	}
}
