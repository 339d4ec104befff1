// backend/src/handlers/portfolio_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/username/bsm/src/config"
	"github.com/username/bsm/src/logger"
	"github.com/username/bsm/src/models"
	"github.com/username/bsm/src/processors"
	"github.com/username/bsm/src/services"
)

// PortfolioHandler serves the Portfolio Management page: view state, month
// selection, the monthly snapshot, filter options, the filtered table and
// the chart aggregates.
type PortfolioHandler struct {
	portfolioService services.PortfolioService
	sessionService   *services.SessionService
	display          *processors.DisplayProcessor
}

func NewPortfolioHandler(portfolioService services.PortfolioService, sessionService *services.SessionService, display *processors.DisplayProcessor) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		sessionService:   sessionService,
		display:          display,
	}
}

// sessionID reads the session cookie, minting one for first-time visitors.
func (h *PortfolioHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(config.Cfg.SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := h.sessionService.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     config.Cfg.SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(config.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *PortfolioHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	sendJSON(w, http.StatusOK, map[string]string{"view": string(h.sessionService.View(sid))})
}

// HandleSetView switches between the main overview and the Total Book view.
// Only an explicit request changes the state; it takes effect on the next
// render cycle.
func (h *PortfolioHandler) HandleSetView(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	var body struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	state, err := models.ParseViewState(body.View)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.sessionService.SetView(sid, state)
	logger.FromContext(r.Context()).Info("Portfolio view changed", "view", state)
	sendJSON(w, http.StatusOK, map[string]string{"view": string(state)})
}

func (h *PortfolioHandler) HandleGetMonths(w http.ResponseWriter, r *http.Request) {
	months := h.portfolioService.Months()
	payload := map[string]interface{}{"months": months}
	if status := h.portfolioService.DataStatus(); !status.Loaded {
		payload["dataStatus"] = status.Message
	}
	sendJSON(w, http.StatusOK, payload)
}

// HandleGetSummary serves the Monthly Snapshot Summary, computed over the
// month-filtered data before the categorical filters apply.
func (h *PortfolioHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	month, ok := h.resolveMonth(w, r)
	if !ok {
		return
	}

	summary := h.portfolioService.MonthlySummary(month)
	payload := map[string]interface{}{
		"summary": summary,
		"display": summaryDisplay(summary),
	}
	if summary.FacilityCount == 0 {
		payload["message"] = fmt.Sprintf("No data available for %s to calculate summaries.", month)
	}
	sendJSON(w, http.StatusOK, payload)
}

// summaryDisplay formats the six metric tiles with their captions.
func summaryDisplay(s models.MonthlySummary) map[string]string {
	return map[string]string{
		"Total Balance":      processors.FormatCurrency(s.TotalBalance),
		"Facility Count":     strconv.Itoa(s.FacilityCount),
		"Total RWA":          processors.FormatCurrency(s.TotalRWA),
		"W. Avg. Margin":     processors.FormatPercent(s.WeightedAvgMargin, 2),
		"Total NII (Month)":  processors.FormatCurrency(s.TotalNII),
		"Total Fees (Month)": processors.FormatCurrency(s.TotalFees),
	}
}

func (h *PortfolioHandler) HandleGetFilterOptions(w http.ResponseWriter, r *http.Request) {
	month, ok := h.resolveMonth(w, r)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, h.portfolioService.FilterOptions(month))
}

// HandleGetFacilities serves the filtered, display-formatted data table.
func (h *PortfolioHandler) HandleGetFacilities(w http.ResponseWriter, r *http.Request) {
	month, ok := h.resolveMonth(w, r)
	if !ok {
		return
	}

	sel := h.parseSelection(r, month)
	facilities := h.portfolioService.FilteredFacilities(sel)
	table := h.display.FormatTable(facilities)

	payload := map[string]interface{}{
		"month":   month,
		"count":   len(facilities),
		"columns": table.Columns,
		"rows":    table.Rows,
	}
	if len(facilities) == 0 {
		payload["message"] = fmt.Sprintf("No data matches the selected filters for %s.", month)
	}
	sendJSON(w, http.StatusOK, payload)
}

// HandleGetCharts serves the chart aggregates as plain series data.
func (h *PortfolioHandler) HandleGetCharts(w http.ResponseWriter, r *http.Request) {
	month, ok := h.resolveMonth(w, r)
	if !ok {
		return
	}

	sel := h.parseSelection(r, month)
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"month":                 month,
		"balanceBySector":       h.portfolioService.BalanceBySector(sel),
		"facilityCountByRating": h.portfolioService.FacilityCountByRating(sel),
	})
}

// resolveMonth picks the month query param, defaulting to the most recent
// available month. When no data is loaded at all it replies for the caller
// with an empty-but-valid payload and returns ok=false.
func (h *PortfolioHandler) resolveMonth(w http.ResponseWriter, r *http.Request) (string, bool) {
	if month := r.URL.Query().Get("month"); month != "" {
		return month, true
	}
	if months := h.portfolioService.Months(); len(months) > 0 {
		return months[0], true
	}

	payload := map[string]interface{}{
		"message": "Could not display Portfolio data as the data file failed to load.",
	}
	if status := h.portfolioService.DataStatus(); !status.Loaded {
		payload["dataStatus"] = status.Message
	}
	sendJSON(w, http.StatusOK, payload)
	return "", false
}

// parseSelection builds the filter selection from query params. Omitted
// categorical params default to the full option set, mirroring the UI
// multiselect defaults; an explicitly empty param means an empty set and
// therefore an empty result.
func (h *PortfolioHandler) parseSelection(r *http.Request, month string) models.FilterSelection {
	opts := h.portfolioService.FilterOptions(month)
	q := r.URL.Query()

	sel := models.FilterSelection{
		Month:      month,
		Franchises: pickValues(q, "franchise", opts.Franchises),
		Sectors:    pickValues(q, "sector", opts.Sectors),
		Ratings:    pickValues(q, "rating", opts.Ratings),
		Products:   pickValues(q, "product", opts.Products),
		BalanceMin: float64(opts.Balance.Min),
		BalanceMax: float64(opts.Balance.Max),
	}
	if v := q.Get("balance_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			sel.BalanceMin = f
		}
	}
	if v := q.Get("balance_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			sel.BalanceMax = f
		}
	}
	return sel
}

func pickValues(q url.Values, key string, defaults []string) []string {
	vals, ok := q[key]
	if !ok {
		return defaults
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
