// backend/src/services/interfaces.go
package services

import (
	"github.com/username/bsm/src/loader"
	"github.com/username/bsm/src/models"
)

// TableSource supplies the loaded loan table. Satisfied by *loader.Loader;
// tests substitute an in-memory stub.
type TableSource interface {
	Load() (models.LoanTable, loader.Status)
}

// PortfolioService defines the core Portfolio Management logic: month
// selection, filter option derivation, conjunctive filtering and the
// aggregates behind the summary panel and charts.
//
// None of the methods return errors. A missing or unreadable data file
// surfaces through DataStatus and otherwise degrades to empty results, so a
// sub-section failure never aborts the whole page.
type PortfolioService interface {
	// DataStatus reports whether the loan data file loaded, with a
	// user-facing message when it did not.
	DataStatus() loader.Status

	// Months lists the available reporting months ("YYYY-MM"), most
	// recent first.
	Months() []string

	// MonthlySummary aggregates the month-filtered data before any
	// categorical filters apply.
	MonthlySummary(month string) models.MonthlySummary

	// FilterOptions derives the selectable filter values and balance
	// bounds from the month-filtered data.
	FilterOptions(month string) models.FilterOptions

	// DefaultSelection is the UI default for a month: every option
	// selected and the full balance range.
	DefaultSelection(month string) models.FilterSelection

	// FilteredFacilities returns the rows satisfying every predicate of
	// the selection. The result is always a fresh copy.
	FilteredFacilities(sel models.FilterSelection) []models.LoanRecord

	// BalanceBySector sums balance per sector over the filtered rows,
	// sorted descending by balance.
	BalanceBySector(sel models.FilterSelection) []models.SectorBalance

	// FacilityCountByRating counts filtered rows per credit rating,
	// ordered by the fixed rating scale.
	FacilityCountByRating(sel models.FilterSelection) []models.RatingCount
}
