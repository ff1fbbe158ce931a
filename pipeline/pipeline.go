package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nkemjika/salesdash/analyze"
	"github.com/nkemjika/salesdash/config"
	"github.com/nkemjika/salesdash/export"
	"github.com/nkemjika/salesdash/extract"
	"github.com/nkemjika/salesdash/migrations"
	"github.com/nkemjika/salesdash/models"
	"github.com/nkemjika/salesdash/report"
	"github.com/nkemjika/salesdash/transform"
)

// Options parameterize one pipeline pass.
type Options struct {
	From          time.Time
	To            time.Time
	PriceStrategy transform.PriceStrategy
	TopN          int
	WriteBack     bool
}

// Result collects everything a pass produced: KPI tables, cleaning
// stats and the paths of the written artifacts.
type Result struct {
	Summary    analyze.Summary
	Months     []analyze.MonthRevenue
	Products   []analyze.ProductRevenue
	Categories []analyze.CategoryRevenue
	Stores     []analyze.StoreRevenue
	Prices     analyze.PriceStats
	CleanStats transform.Stats

	CleanedCSV  string
	CleanedPQ   string
	MonthlyCSV  string
	DashboardHT string
}

// Runner executes the stages in order, once each: extract, clean,
// aggregate, chart, export. No retries, no concurrency.
type Runner struct {
	cfg       config.Config
	db        *sql.DB
	extractor *extract.Extractor
}

func NewRunner(cfg config.Config, db *sql.DB) *Runner {
	return &Runner{
		cfg:       cfg,
		db:        db,
		extractor: extract.NewExtractor(db, cfg.Driver),
	}
}

// Run performs one full pass over [opts.From, opts.To).
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.PriceStrategy == "" {
		opts.PriceStrategy = transform.ImputeMedian
	}

	// Extract
	sales, err := r.extractor.Sales(ctx, opts.From, opts.To)
	if err != nil {
		return nil, err
	}
	products, err := r.extractor.Products(ctx)
	if err != nil {
		return nil, err
	}
	stores, err := r.extractor.Stores(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("extracted %d sales, %d products, %d stores", len(sales), len(products), len(stores))

	salesDF := extract.SalesFrame(sales)
	productsDF := extract.ProductsFrame(products)
	storesDF := extract.StoresFrame(stores)

	// Transform
	cleaned, stats, err := transform.Clean(salesDF, opts.PriceStrategy)
	if err != nil {
		return nil, fmt.Errorf("cleaning sales table: %w", err)
	}
	log.Printf("cleaned table: %d -> %d rows (%d bad dates, %d missing prices, %d imputed, %d duplicates)",
		stats.InputRows, stats.OutputRows, stats.BadDates, stats.MissingPrices, stats.Imputed, stats.Duplicates)

	// Analyze
	result := &Result{
		Summary:    analyze.Summarize(cleaned),
		Months:     analyze.ByMonth(cleaned),
		Products:   analyze.TopProducts(cleaned, productsDF, opts.TopN),
		Categories: analyze.ByCategory(cleaned, productsDF),
		Stores:     analyze.ByStore(cleaned, storesDF),
		Prices:     analyze.DescribePrices(cleaned),
		CleanStats: stats,
	}

	// Visualize
	result.DashboardHT = filepath.Join(r.cfg.ExportDir, "dashboard.html")
	if err := report.WriteDashboard(result.DashboardHT, result.Months, result.Products, result.Categories, result.Stores); err != nil {
		return nil, err
	}

	// Export
	result.CleanedCSV = filepath.Join(r.cfg.ExportDir, "sales_clean.csv")
	if err := export.WriteCSV(cleaned, result.CleanedCSV); err != nil {
		return nil, err
	}

	result.MonthlyCSV = filepath.Join(r.cfg.ExportDir, "monthly_revenue.csv")
	if err := export.WriteCSV(monthlyFrame(result.Months), result.MonthlyCSV); err != nil {
		return nil, err
	}

	cleanedRows, err := transform.ToCleanedSales(cleaned)
	if err != nil {
		return nil, fmt.Errorf("materializing cleaned rows: %w", err)
	}

	result.CleanedPQ = filepath.Join(r.cfg.ExportDir, "sales_clean.parquet")
	if err := export.WriteParquet(cleanedRows, result.CleanedPQ); err != nil {
		return nil, err
	}

	if opts.WriteBack {
		if err := r.writeBack(ctx, cleanedRows); err != nil {
			return nil, err
		}
		log.Printf("wrote %d cleaned rows back to sales_clean", len(cleanedRows))
	}

	log.Printf("pipeline finished in %s", time.Since(start).Round(time.Millisecond))
	return result, nil
}

func (r *Runner) writeBack(ctx context.Context, rows []models.CleanedSale) error {
	if err := migrations.EnsureExportTable(r.db, r.cfg.Driver); err != nil {
		return err
	}
	return export.WriteBack(ctx, r.db, r.cfg.Driver, rows, export.DefaultBatchSize)
}

func monthlyFrame(months []analyze.MonthRevenue) dataframe.DataFrame {
	labels := make([]string, len(months))
	revenues := make([]float64, len(months))
	units := make([]int, len(months))
	for i, m := range months {
		labels[i] = m.Month
		revenues[i] = m.Revenue
		units[i] = int(m.Units)
	}
	return dataframe.New(
		series.New(labels, series.String, "month"),
		series.New(revenues, series.Float, "revenue"),
		series.New(units, series.Int, "units"),
	)
}
