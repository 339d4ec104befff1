// backend/src/models/loan.go
package models

import (
	"fmt"
	"time"
)

// RatingScale is the fixed ordinal credit rating scale, best to worst.
// All rating displays and orderings use this scale, never lexical order.
var RatingScale = []string{"AAA", "AA", "A", "BBB", "BB", "B", "CCC"}

// RatingRank returns the position of a rating on the scale, or len(RatingScale)
// for ratings outside it so unknown values sort last.
func RatingRank(rating string) int {
	for i, r := range RatingScale {
		if r == rating {
			return i
		}
	}
	return len(RatingScale)
}

// LoanRecord is one facility for one reporting month, as stored in the
// loan data file. Column names in the file contain spaces; the parquet
// tags mirror them exactly.
type LoanRecord struct {
	Date              time.Time `parquet:"Date" json:"date"`
	FacilityID        string    `parquet:"Facility ID" json:"facilityId"`
	CustomerName      string    `parquet:"Customer Name" json:"customerName"`
	Franchise         string    `parquet:"Franchise" json:"franchise"`
	Sector            string    `parquet:"Sector" json:"sector"`
	Product           string    `parquet:"Product" json:"product"`
	CreditRating      string    `parquet:"Credit Rating" json:"creditRating"`
	Balance           float64   `parquet:"Balance" json:"balance"`
	Margin            float64   `parquet:"Margin" json:"margin"`
	RAROE             float64   `parquet:"RAROE" json:"raroe"`
	PD                float64   `parquet:"PD" json:"pd"`
	LGD               float64   `parquet:"LGD" json:"lgd"`
	EAD               float64   `parquet:"EAD" json:"ead"`
	RWA               float64   `parquet:"RWA" json:"rwa"`
	InterestIncome    float64   `parquet:"Interest Income" json:"interestIncome"`
	InterestCosts     float64   `parquet:"Interest Costs" json:"interestCosts"`
	NetInterestIncome float64   `parquet:"Net Interest Income" json:"netInterestIncome"`
	FeeIncome         float64   `parquet:"Fee Income" json:"feeIncome"`
}

// LoanTable is the full loaded dataset. It is read-only after loading;
// every derived subset is a fresh copy.
type LoanTable []LoanRecord

// MonthKey formats a timestamp as the "YYYY-MM" key used for month filtering.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ViewState identifies which Portfolio Management view the session is on.
type ViewState string

const (
	ViewMain      ViewState = "main"
	ViewTotalBook ViewState = "total_book"
)

// ParseViewState validates a raw view identifier.
func ParseViewState(s string) (ViewState, error) {
	switch ViewState(s) {
	case ViewMain, ViewTotalBook:
		return ViewState(s), nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// FilterSelection captures the user's current filter choices for the
// Total Book view. Empty categorical sets exclude everything; they are
// not treated as "no constraint".
type FilterSelection struct {
	Month      string   `json:"month"`
	Franchises []string `json:"franchises"`
	Sectors    []string `json:"sectors"`
	Ratings    []string `json:"ratings"`
	Products   []string `json:"products"`
	BalanceMin float64  `json:"balanceMin"`
	BalanceMax float64  `json:"balanceMax"`
}
