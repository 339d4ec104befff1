// backend/src/models/payloads.go
package models

// Section is one tile on the dashboard landing page. Path is the
// file-path-like route identifier the frontend resolves.
type Section struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Path   string `json:"path"`
	Status string `json:"status"`
}

// MonthlySummary is the "Monthly Snapshot Summary" panel, computed over the
// month-filtered data before any categorical filters apply.
type MonthlySummary struct {
	Month             string  `json:"month"`
	TotalBalance      float64 `json:"totalBalance"`
	TotalRWA          float64 `json:"totalRwa"`
	TotalNII          float64 `json:"totalNii"`
	TotalFees         float64 `json:"totalFees"`
	FacilityCount     int     `json:"facilityCount"`
	WeightedAvgMargin float64 `json:"weightedAvgMargin"`
}

// BalanceBounds describes the balance range slider for one month of data.
type BalanceBounds struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// FilterOptions are the selectable values for each filter, derived from the
// month-filtered data so stale options never appear.
type FilterOptions struct {
	Franchises []string      `json:"franchises"`
	Sectors    []string      `json:"sectors"`
	Ratings    []string      `json:"ratings"`
	Products   []string      `json:"products"`
	Balance    BalanceBounds `json:"balance"`
}

// SectorBalance is one bar of the "Total Balance by Sector" chart.
type SectorBalance struct {
	Sector  string  `json:"sector"`
	Balance float64 `json:"balance"`
}

// RatingCount is one slice of the "Facility Count by Credit Rating" chart.
type RatingCount struct {
	Rating string `json:"rating"`
	Count  int    `json:"count"`
}

// DisplayTable is a formatted, column-ordered table ready for rendering.
// Cell values are display strings; the numeric originals stay in LoanRecord.
type DisplayTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
