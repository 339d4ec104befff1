// backend/src/processors/display_processor.go
package processors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/username/bsm/src/logger"
	"github.com/username/bsm/src/models"
)

// displayColumns is the fixed priority order for the data table. Columns
// without a cell mapping are silently skipped rather than erroring.
var displayColumns = []string{
	"Date", "Facility ID", "Customer Name", "Franchise", "Sector", "Product",
	"Balance", "Margin", "Net Interest Income", "Fee Income", "RAROE",
	"Credit Rating", "PD", "LGD", "EAD", "RWA", "Interest Income", "Interest Costs",
}

// cellMappers formats one display cell per known column.
var cellMappers = map[string]func(models.LoanRecord) string{
	"Date":                func(r models.LoanRecord) string { return r.Date.Format("2006-01-02") },
	"Facility ID":         func(r models.LoanRecord) string { return r.FacilityID },
	"Customer Name":       func(r models.LoanRecord) string { return r.CustomerName },
	"Franchise":           func(r models.LoanRecord) string { return r.Franchise },
	"Sector":              func(r models.LoanRecord) string { return r.Sector },
	"Product":             func(r models.LoanRecord) string { return r.Product },
	"Credit Rating":       func(r models.LoanRecord) string { return r.CreditRating },
	"Balance":             func(r models.LoanRecord) string { return FormatCurrency(r.Balance) },
	"EAD":                 func(r models.LoanRecord) string { return FormatCurrency(r.EAD) },
	"RWA":                 func(r models.LoanRecord) string { return FormatCurrency(r.RWA) },
	"Interest Income":     func(r models.LoanRecord) string { return FormatCurrency(r.InterestIncome) },
	"Interest Costs":      func(r models.LoanRecord) string { return FormatCurrency(r.InterestCosts) },
	"Net Interest Income": func(r models.LoanRecord) string { return FormatCurrency(r.NetInterestIncome) },
	"Fee Income":          func(r models.LoanRecord) string { return FormatCurrency(r.FeeIncome) },
	"Margin":              func(r models.LoanRecord) string { return FormatPercent(r.Margin, 2) },
	"RAROE":               func(r models.LoanRecord) string { return FormatPercent(r.RAROE, 2) },
	"PD":                  func(r models.LoanRecord) string { return FormatPercent(r.PD, 4) },
	"LGD":                 func(r models.LoanRecord) string { return FormatPercent(r.LGD, 1) },
}

// DisplayProcessor maps numeric loan records to display strings for the data
// table. The underlying records stay numeric for any further computation.
type DisplayProcessor struct{}

func NewDisplayProcessor() *DisplayProcessor { return &DisplayProcessor{} }

// FormatTable renders records into the fixed column order. A formatting
// failure falls back to unformatted values instead of failing the page.
func (p *DisplayProcessor) FormatTable(records []models.LoanRecord) (table models.DisplayTable) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.L.Error("Error formatting display data, falling back to raw values", "error", rec)
			table = rawTable(records)
		}
	}()

	columns := make([]string, 0, len(displayColumns))
	for _, col := range displayColumns {
		if _, ok := cellMappers[col]; ok {
			columns = append(columns, col)
		}
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			row = append(row, cellMappers[col](r))
		}
		rows = append(rows, row)
	}
	return models.DisplayTable{Columns: columns, Rows: rows}
}

// rawTable is the unformatted fallback: plain fmt rendering of every value.
func rawTable(records []models.LoanRecord) models.DisplayTable {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format("2006-01-02 15:04:05"), r.FacilityID, r.CustomerName,
			r.Franchise, r.Sector, r.Product,
			fmt.Sprint(r.Balance), fmt.Sprint(r.Margin), fmt.Sprint(r.NetInterestIncome),
			fmt.Sprint(r.FeeIncome), fmt.Sprint(r.RAROE), r.CreditRating,
			fmt.Sprint(r.PD), fmt.Sprint(r.LGD), fmt.Sprint(r.EAD), fmt.Sprint(r.RWA),
			fmt.Sprint(r.InterestIncome), fmt.Sprint(r.InterestCosts),
		})
	}
	return models.DisplayTable{Columns: displayColumns, Rows: rows}
}

// FormatCurrency renders a monetary value as pounds with a thousands
// separator and no decimal places, e.g. 1234567.4 -> "£1,234,567".
func FormatCurrency(v float64) string {
	return "£" + humanize.Comma(int64(math.Round(v)))
}

// ParseCurrency reverses FormatCurrency, recovering the value rounded to the
// nearest whole unit.
func ParseCurrency(s string) (float64, error) {
	cleaned := strings.NewReplacer("£", "", ",", "").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(cleaned, 64)
}

// FormatPercent renders a fraction as a percentage with the given number of
// decimal places, e.g. FormatPercent(0.0175, 2) -> "1.75%".
func FormatPercent(v float64, decimals int) string {
	return strconv.FormatFloat(v*100, 'f', decimals, 64) + "%"
}
