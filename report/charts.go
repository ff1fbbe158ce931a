package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nkemjika/salesdash/analyze"
)

// RevenueLine builds the monthly revenue line chart.
func RevenueLine(months []analyze.MonthRevenue) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Monthly Revenue"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Revenue"}),
	)

	labels := make([]string, len(months))
	revenue := make([]opts.LineData, len(months))
	units := make([]opts.LineData, len(months))
	for i, m := range months {
		labels[i] = m.Month
		revenue[i] = opts.LineData{Value: round2(m.Revenue)}
		units[i] = opts.LineData{Value: m.Units}
	}

	line.SetXAxis(labels).
		AddSeries("Revenue", revenue).
		AddSeries("Units", units).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: true}))
	return line
}

// TopProductsBar builds the top products bar chart.
func TopProductsBar(products []analyze.ProductRevenue) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Top Products by Revenue"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	labels := make([]string, len(products))
	data := make([]opts.BarData, len(products))
	for i, p := range products {
		labels[i] = p.Name
		data[i] = opts.BarData{Value: round2(p.Revenue)}
	}

	bar.SetXAxis(labels).AddSeries("Revenue", data)
	return bar
}

// CategoryPie builds the revenue share pie chart.
func CategoryPie(categories []analyze.CategoryRevenue) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Revenue by Category"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	data := make([]opts.PieData, len(categories))
	for i, c := range categories {
		data[i] = opts.PieData{Name: c.Category, Value: round2(c.Revenue)}
	}

	pie.AddSeries("Revenue", data).
		SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"40%", "70%"},
		}))
	return pie
}

// StoreBar builds the per-store revenue bar chart.
func StoreBar(stores []analyze.StoreRevenue) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Revenue by Store"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	labels := make([]string, len(stores))
	data := make([]opts.BarData, len(stores))
	for i, s := range stores {
		labels[i] = s.Name
		data[i] = opts.BarData{Value: round2(s.Revenue)}
	}

	bar.SetXAxis(labels).AddSeries("Revenue", data)
	return bar
}

// WriteDashboard renders all charts onto a single HTML page.
func WriteDashboard(path string,
	months []analyze.MonthRevenue,
	products []analyze.ProductRevenue,
	categories []analyze.CategoryRevenue,
	stores []analyze.StoreRevenue,
) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	page := components.NewPage()
	page.PageTitle = "Sales Dashboard"
	page.AddCharts(
		RevenueLine(months),
		TopProductsBar(products),
		CategoryPie(categories),
		StoreBar(stores),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dashboard file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
