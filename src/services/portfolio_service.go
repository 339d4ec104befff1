// backend/src/services/portfolio_service.go
package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/bsm/src/loader"
	"github.com/username/bsm/src/models"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type portfolioService struct {
	source    TableSource
	viewCache *cache.Cache
}

// NewPortfolioService builds the portfolio service on top of a table source.
// Filtered subsets are cached in viewCache keyed by the canonicalized
// selection, so repeated re-renders of the same filters do not rescan.
func NewPortfolioService(source TableSource, viewCache *cache.Cache) PortfolioService {
	return &portfolioService{source: source, viewCache: viewCache}
}

func (s *portfolioService) DataStatus() loader.Status {
	_, status := s.source.Load()
	return status
}

func (s *portfolioService) Months() []string {
	table, _ := s.source.Load()
	seen := make(map[string]bool)
	months := make([]string, 0)
	for _, r := range table {
		key := models.MonthKey(r.Date)
		if !seen[key] {
			seen[key] = true
			months = append(months, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// monthSlice copies the rows belonging to one reporting month. The loaded
// table itself is never handed out, keeping it immutable.
func (s *portfolioService) monthSlice(month string) []models.LoanRecord {
	table, _ := s.source.Load()
	out := make([]models.LoanRecord, 0)
	for _, r := range table {
		if models.MonthKey(r.Date) == month {
			out = append(out, r)
		}
	}
	return out
}

func (s *portfolioService) MonthlySummary(month string) models.MonthlySummary {
	monthly := s.monthSlice(month)

	summary := models.MonthlySummary{Month: month, FacilityCount: len(monthly)}
	var weightedMargin float64
	for _, r := range monthly {
		summary.TotalBalance += r.Balance
		summary.TotalRWA += r.RWA
		summary.TotalNII += r.NetInterestIncome
		summary.TotalFees += r.FeeIncome
		weightedMargin += r.Margin * r.Balance
	}
	// Weighted average margin is defined as 0 for a zero-balance month.
	if summary.TotalBalance > 0 {
		summary.WeightedAvgMargin = weightedMargin / summary.TotalBalance
	}
	return summary
}

func (s *portfolioService) FilterOptions(month string) models.FilterOptions {
	monthly := s.monthSlice(month)

	franchises := make(map[string]bool)
	sectors := make(map[string]bool)
	ratings := make(map[string]bool)
	products := make(map[string]bool)
	for _, r := range monthly {
		franchises[r.Franchise] = true
		sectors[r.Sector] = true
		ratings[r.CreditRating] = true
		products[r.Product] = true
	}

	opts := models.FilterOptions{
		Franchises: sortedKeys(franchises),
		Sectors:    sortedKeys(sectors),
		Products:   sortedKeys(products),
		Ratings:    make([]string, 0, len(ratings)),
		Balance:    balanceBounds(monthly),
	}
	// Ratings keep the fixed scale order, filtered to what is present.
	for _, r := range models.RatingScale {
		if ratings[r] {
			opts.Ratings = append(opts.Ratings, r)
		}
	}
	return opts
}

func (s *portfolioService) DefaultSelection(month string) models.FilterSelection {
	opts := s.FilterOptions(month)
	return models.FilterSelection{
		Month:      month,
		Franchises: opts.Franchises,
		Sectors:    opts.Sectors,
		Ratings:    opts.Ratings,
		Products:   opts.Products,
		BalanceMin: float64(opts.Balance.Min),
		BalanceMax: float64(opts.Balance.Max),
	}
}

func (s *portfolioService) FilteredFacilities(sel models.FilterSelection) []models.LoanRecord {
	key := selectionKey(sel)
	if hit, found := s.viewCache.Get(key); found {
		if records, ok := hit.([]models.LoanRecord); ok {
			return cloneRecords(records)
		}
	}

	franchises := toSet(sel.Franchises)
	sectors := toSet(sel.Sectors)
	ratings := toSet(sel.Ratings)
	products := toSet(sel.Products)

	filtered := make([]models.LoanRecord, 0)
	for _, r := range s.monthSlice(sel.Month) {
		if !franchises[r.Franchise] || !sectors[r.Sector] || !ratings[r.CreditRating] || !products[r.Product] {
			continue
		}
		if r.Balance < sel.BalanceMin || r.Balance > sel.BalanceMax {
			continue
		}
		filtered = append(filtered, r)
	}

	s.viewCache.Set(key, filtered, DefaultCacheExpiration)
	return cloneRecords(filtered)
}

func (s *portfolioService) BalanceBySector(sel models.FilterSelection) []models.SectorBalance {
	totals := make(map[string]float64)
	for _, r := range s.FilteredFacilities(sel) {
		totals[r.Sector] += r.Balance
	}

	out := make([]models.SectorBalance, 0, len(totals))
	for sector, balance := range totals {
		out = append(out, models.SectorBalance{Sector: sector, Balance: balance})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

func (s *portfolioService) FacilityCountByRating(sel models.FilterSelection) []models.RatingCount {
	counts := make(map[string]int)
	for _, r := range s.FilteredFacilities(sel) {
		counts[r.CreditRating]++
	}

	out := make([]models.RatingCount, 0, len(counts))
	for _, rating := range models.RatingScale {
		if counts[rating] > 0 {
			out = append(out, models.RatingCount{Rating: rating, Count: counts[rating]})
		}
	}
	return out
}

// balanceBounds computes the slider bounds and step from one month's data.
// Step is at least 1; when min and max coincide the max is nudged up one
// step so the range control stays well-formed.
func balanceBounds(monthly []models.LoanRecord) models.BalanceBounds {
	var minB, maxB int
	for i, r := range monthly {
		b := int(r.Balance)
		if i == 0 || b < minB {
			minB = b
		}
		if i == 0 || b > maxB {
			maxB = b
		}
	}

	step := (maxB - minB) / 100
	if step < 1 {
		step = 1
	}
	if minB >= maxB {
		maxB = minB + step
	}
	return models.BalanceBounds{Min: minB, Max: maxB, Step: step}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func cloneRecords(in []models.LoanRecord) []models.LoanRecord {
	out := make([]models.LoanRecord, len(in))
	copy(out, in)
	return out
}

// selectionKey canonicalizes a selection into a cache key. Set order does
// not matter, so the sets are sorted before joining.
func selectionKey(sel models.FilterSelection) string {
	var b strings.Builder
	b.WriteString("facilities:")
	b.WriteString(sel.Month)
	for _, set := range [][]string{sel.Franchises, sel.Sectors, sel.Ratings, sel.Products} {
		sorted := append([]string(nil), set...)
		sort.Strings(sorted)
		b.WriteString("|")
		b.WriteString(strings.Join(sorted, ","))
	}
	b.WriteString("|")
	b.WriteString(strconv.FormatFloat(sel.BalanceMin, 'f', -1, 64))
	b.WriteString("-")
	b.WriteString(strconv.FormatFloat(sel.BalanceMax, 'f', -1, 64))
	return b.String()
}
