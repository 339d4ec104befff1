package services

import (
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/bsm/src/loader"
	"github.com/username/bsm/src/models"
)

type stubSource struct {
	table  models.LoanTable
	status loader.Status
}

func (s *stubSource) Load() (models.LoanTable, loader.Status) {
	return s.table, s.status
}

func newTestService(records ...models.LoanRecord) PortfolioService {
	src := &stubSource{table: records, status: loader.Status{Loaded: true}}
	return NewPortfolioService(src, cache.New(time.Minute, time.Minute))
}

func loan(year int, month time.Month, franchise, sector, rating, product string, balance, margin float64) models.LoanRecord {
	return models.LoanRecord{
		Date:         time.Date(year, month, 28, 0, 0, 0, 0, time.UTC),
		FacilityID:   "F-" + sector,
		Franchise:    franchise,
		Sector:       sector,
		CreditRating: rating,
		Product:      product,
		Balance:      balance,
		Margin:       margin,
	}
}

func TestMonthsDescending(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.January, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
		loan(2025, time.March, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
		loan(2025, time.March, "Corporate", "Energy", "BB", "RCF", 200, 0.02),
	)

	assert.Equal(t, []string{"2025-03", "2025-02", "2025-01"}, svc.Months())
}

func TestMonthFilterScenario(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.January, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
		loan(2025, time.January, "Corporate", "Energy", "BB", "RCF", 200, 0.02),
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 300, 0.015),
	)

	got := svc.FilteredFacilities(svc.DefaultSelection("2025-02"))
	require.Len(t, got, 1)
	for _, r := range got {
		assert.Equal(t, "2025-02", models.MonthKey(r.Date))
	}
}

func TestEmptyCategoricalSetsYieldEmptyResult(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
	)

	sel := svc.DefaultSelection("2025-02")
	sel.Franchises = nil
	sel.Sectors = nil
	sel.Ratings = nil
	sel.Products = nil

	assert.Empty(t, svc.FilteredFacilities(sel))
}

func TestFilterConjunction(t *testing.T) {
	t.Parallel()

	match := loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 150, 0.01)
	svc := newTestService(
		match,
		loan(2025, time.February, "Commercial", "Retail", "A", "Term Loan", 150, 0.01), // wrong franchise
		loan(2025, time.February, "Corporate", "Energy", "A", "Term Loan", 150, 0.01),  // wrong sector
		loan(2025, time.February, "Corporate", "Retail", "CCC", "Term Loan", 150, 0.01), // wrong rating
		loan(2025, time.February, "Corporate", "Retail", "A", "RCF", 150, 0.01),        // wrong product
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 900, 0.01),  // outside balance range
	)

	sel := models.FilterSelection{
		Month:      "2025-02",
		Franchises: []string{"Corporate"},
		Sectors:    []string{"Retail"},
		Ratings:    []string{"A"},
		Products:   []string{"Term Loan"},
		BalanceMin: 100,
		BalanceMax: 200,
	}

	got := svc.FilteredFacilities(sel)
	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, "Corporate", r.Franchise)
	assert.Equal(t, "Retail", r.Sector)
	assert.Equal(t, "A", r.CreditRating)
	assert.Equal(t, "Term Loan", r.Product)
	assert.GreaterOrEqual(t, r.Balance, sel.BalanceMin)
	assert.LessOrEqual(t, r.Balance, sel.BalanceMax)
}

func TestBalanceRangeInclusive(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 200, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 300, 0.01),
	)

	sel := svc.DefaultSelection("2025-02")
	sel.BalanceMin = 100
	sel.BalanceMax = 200

	assert.Len(t, svc.FilteredFacilities(sel), 2)
}

func TestFilterOptionsDerivedFromSelectedMonth(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.January, "Corporate", "Shipping", "CCC", "Bridge", 100, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "BB", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Commercial", "Energy", "AAA", "RCF", 200, 0.02),
	)

	opts := svc.FilterOptions("2025-02")

	assert.Equal(t, []string{"Energy", "Retail"}, opts.Sectors)
	assert.NotContains(t, opts.Sectors, "Shipping") // January-only sector must not leak
	assert.Equal(t, []string{"Commercial", "Corporate"}, opts.Franchises)
	assert.Equal(t, []string{"RCF", "Term Loan"}, opts.Products)
	// Scale order, not lexical: AAA before BB.
	assert.Equal(t, []string{"AAA", "BB"}, opts.Ratings)
}

func TestBalanceBoundsStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balances []float64
		want     models.BalanceBounds
	}{
		{"spread", []float64{0, 1000}, models.BalanceBounds{Min: 0, Max: 1000, Step: 10}},
		{"narrow spread keeps step one", []float64{0, 50}, models.BalanceBounds{Min: 0, Max: 50, Step: 1}},
		{"single value nudges max", []float64{500}, models.BalanceBounds{Min: 500, Max: 501, Step: 1}},
		{"empty month", nil, models.BalanceBounds{Min: 0, Max: 1, Step: 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			records := make([]models.LoanRecord, 0, len(tt.balances))
			for _, b := range tt.balances {
				records = append(records, loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", b, 0.01))
			}
			got := newTestService(records...).FilterOptions("2025-02")
			assert.Equal(t, tt.want, got.Balance)
		})
	}
}

func TestWeightedAverageMargin(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Corporate", "Energy", "BB", "RCF", 300, 0.02),
	)

	summary := svc.MonthlySummary("2025-02")
	assert.InDelta(t, 0.0175, summary.WeightedAvgMargin, 1e-12)
	assert.InDelta(t, 400, summary.TotalBalance, 1e-9)
	assert.Equal(t, 2, summary.FacilityCount)
}

func TestWeightedAverageMarginZeroBalance(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 0, 0.05),
	)

	assert.Zero(t, svc.MonthlySummary("2025-02").WeightedAvgMargin)
}

func TestSummaryIgnoresCategoricalFilters(t *testing.T) {
	t.Parallel()

	// The snapshot covers the whole month, so there is nothing to deselect;
	// an empty month simply yields zeros.
	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
	)

	empty := svc.MonthlySummary("2025-03")
	assert.Zero(t, empty.TotalBalance)
	assert.Zero(t, empty.FacilityCount)
}

func TestBalanceBySectorSortedDescending(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Corporate", "Energy", "A", "Term Loan", 700, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 250, 0.01),
		loan(2025, time.February, "Corporate", "Shipping", "A", "Term Loan", 500, 0.01),
	)

	got := svc.BalanceBySector(svc.DefaultSelection("2025-02"))
	require.Len(t, got, 3)
	assert.Equal(t, models.SectorBalance{Sector: "Energy", Balance: 700}, got[0])
	assert.Equal(t, models.SectorBalance{Sector: "Shipping", Balance: 500}, got[1])
	assert.Equal(t, models.SectorBalance{Sector: "Retail", Balance: 350}, got[2])
}

func TestFacilityCountByRatingScaleOrder(t *testing.T) {
	t.Parallel()

	// Input rows deliberately out of scale order.
	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "CCC", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "AAA", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "B", "Term Loan", 100, 0.01),
		loan(2025, time.February, "Corporate", "Retail", "AAA", "Term Loan", 100, 0.01),
	)

	got := svc.FacilityCountByRating(svc.DefaultSelection("2025-02"))
	require.Len(t, got, 3)
	assert.Equal(t, models.RatingCount{Rating: "AAA", Count: 2}, got[0])
	assert.Equal(t, models.RatingCount{Rating: "B", Count: 1}, got[1])
	assert.Equal(t, models.RatingCount{Rating: "CCC", Count: 1}, got[2])
}

func TestFilteredFacilitiesReturnsFreshCopy(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		loan(2025, time.February, "Corporate", "Retail", "A", "Term Loan", 100, 0.01),
	)
	sel := svc.DefaultSelection("2025-02")

	first := svc.FilteredFacilities(sel)
	require.Len(t, first, 1)
	first[0].Balance = -1

	second := svc.FilteredFacilities(sel)
	require.Len(t, second, 1)
	assert.InDelta(t, 100, second[0].Balance, 1e-9)
}
