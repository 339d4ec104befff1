// backend/src/charts/charts.go
package charts

import (
	"fmt"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/username/bsm/src/models"
)

// BuildDashboardPage assembles the "Filtered Data Visuals" page: a bar chart
// of total balance by sector and a pie chart of facility count by credit
// rating. Returns nil when there is nothing to chart.
func BuildDashboardPage(month string, sectors []models.SectorBalance, ratings []models.RatingCount) *components.Page {
	if len(sectors) == 0 && len(ratings) == 0 {
		return nil
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = fmt.Sprintf("Portfolio Management — %s", month)

	if len(sectors) > 0 {
		page.AddCharts(balanceBySectorBar(sectors))
	}
	if len(ratings) > 0 {
		page.AddCharts(facilityCountPie(ratings))
	}
	return page
}

func balanceBySectorBar(sectors []models.SectorBalance) *echarts.Bar {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: "Total Balance by Sector"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Total Balance (£)"}),
		echarts.WithInitializationOpts(opts.Initialization{Height: "350px"}),
	)

	names := make([]string, 0, len(sectors))
	values := make([]opts.BarData, 0, len(sectors))
	for _, s := range sectors {
		names = append(names, s.Sector)
		values = append(values, opts.BarData{Value: s.Balance})
	}
	bar.SetXAxis(names).AddSeries("Balance", values)
	return bar
}

func facilityCountPie(ratings []models.RatingCount) *echarts.Pie {
	pie := echarts.NewPie()
	pie.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: "Facility Count by Credit Rating"}),
		echarts.WithInitializationOpts(opts.Initialization{Height: "350px"}),
	)

	values := make([]opts.PieData, 0, len(ratings))
	for _, r := range ratings {
		values = append(values, opts.PieData{Name: r.Rating, Value: r.Count})
	}
	pie.AddSeries("Facilities", values)
	return pie
}
