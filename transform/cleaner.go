package transform

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nkemjika/salesdash/models"
)

// PriceStrategy selects what happens to rows with a missing unit price.
type PriceStrategy string

const (
	// ImputeMedian fills a missing unit price with the median price of
	// the same product. Rows whose product has no priced row at all are
	// dropped.
	ImputeMedian PriceStrategy = "impute-median"
	// DropMissing removes rows with a missing unit price.
	DropMissing PriceStrategy = "drop"
)

// Accepted order_date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Stats reports what each cleaning step did to the table.
type Stats struct {
	InputRows     int
	BadDates      int
	MissingPrices int
	Imputed       int
	Duplicates    int
	OutputRows    int
}

// Clean runs the full cleaning sequence: date coercion, price handling,
// de-duplication, derived columns. Each step only ever removes or fills
// rows, so OutputRows <= InputRows always holds.
func Clean(df dataframe.DataFrame, strategy PriceStrategy) (dataframe.DataFrame, Stats, error) {
	stats := Stats{InputRows: df.Nrow()}
	if df.Nrow() == 0 {
		return df, stats, nil
	}
	if err := df.Error(); err != nil {
		return df, stats, fmt.Errorf("invalid input table: %w", err)
	}

	df, bad := CoerceDates(df)
	stats.BadDates = bad
	if df.Nrow() == 0 {
		return df, stats, nil
	}

	df, missing, imputed := HandlePrices(df, strategy)
	stats.MissingPrices = missing
	stats.Imputed = imputed
	if df.Nrow() == 0 {
		return df, stats, nil
	}

	df, dups := Dedupe(df)
	stats.Duplicates = dups

	df = AddDerived(df)

	stats.OutputRows = df.Nrow()
	return df, stats, nil
}

// CoerceDates normalizes order_date to ISO yyyy-mm-dd and drops rows
// whose date is empty or unparseable. Returns the dropped count.
func CoerceDates(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	raw := df.Col("order_date").Records()

	keep := make([]int, 0, len(raw))
	normalized := make([]string, 0, len(raw))
	for i, v := range raw {
		iso, ok := parseDate(v)
		if !ok {
			continue
		}
		keep = append(keep, i)
		normalized = append(normalized, iso)
	}

	if len(keep) == len(raw) && len(keep) > 0 {
		return df.Mutate(series.New(normalized, series.String, "order_date")), 0
	}

	dropped := len(raw) - len(keep)
	df = df.Subset(keep)
	if df.Nrow() > 0 {
		df = df.Mutate(series.New(normalized, series.String, "order_date"))
	}
	return df, dropped
}

func parseDate(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || v == "NaN" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// HandlePrices resolves missing unit prices per the chosen strategy and
// drops rows with a non-positive quantity. Returns how many rows had a
// missing price and how many of those were imputed rather than dropped.
func HandlePrices(df dataframe.DataFrame, strategy PriceStrategy) (dataframe.DataFrame, int, int) {
	prices := df.Col("unit_price").Float()
	products := df.Col("product_id").Records()
	quantities := df.Col("quantity").Float()

	medians := map[string]float64{}
	if strategy == ImputeMedian {
		byProduct := map[string][]float64{}
		for i, p := range prices {
			if !math.IsNaN(p) && p > 0 {
				byProduct[products[i]] = append(byProduct[products[i]], p)
			}
		}
		for product, vals := range byProduct {
			medians[product] = median(vals)
		}
	}

	keep := make([]int, 0, len(prices))
	filled := make([]float64, 0, len(prices))
	missing, imputed := 0, 0
	for i, p := range prices {
		if quantities[i] <= 0 {
			continue
		}
		if math.IsNaN(p) || p <= 0 {
			missing++
			m, ok := medians[products[i]]
			if strategy != ImputeMedian || !ok {
				continue
			}
			imputed++
			p = m
		}
		keep = append(keep, i)
		filled = append(filled, p)
	}

	df = df.Subset(keep)
	if df.Nrow() > 0 {
		df = df.Mutate(series.New(filled, series.Float, "unit_price"))
	}
	return df, missing, imputed
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Dedupe removes exact duplicate rows, keeping the first occurrence.
// Running it on an already deduplicated table is a no-op.
func Dedupe(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	records := df.Records()
	if len(records) <= 1 {
		return df, 0
	}

	seen := make(map[string]bool, len(records)-1)
	keep := make([]int, 0, len(records)-1)
	for i, row := range records[1:] {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}

	dropped := len(records) - 1 - len(keep)
	if dropped == 0 {
		return df, 0
	}
	return df.Subset(keep), dropped
}

// AddDerived appends the line_total and month columns.
// line_total = quantity * unit_price; month is the yyyy-mm bucket of
// the (already normalized) order date.
func AddDerived(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Nrow() == 0 {
		return df
	}

	quantities := df.Col("quantity").Float()
	prices := df.Col("unit_price").Float()
	dates := df.Col("order_date").Records()

	totals := make([]float64, len(quantities))
	months := make([]string, len(dates))
	for i := range quantities {
		totals[i] = quantities[i] * prices[i]
		if len(dates[i]) >= 7 {
			months[i] = dates[i][:7]
		}
	}

	return df.
		Mutate(series.New(totals, series.Float, "line_total")).
		Mutate(series.New(months, series.String, "month"))
}

// ToCleanedSales materializes a cleaned dataframe back into row structs
// for Parquet export and database write-back.
func ToCleanedSales(df dataframe.DataFrame) ([]models.CleanedSale, error) {
	if df.Nrow() == 0 {
		return nil, nil
	}

	cols := map[string][]string{}
	for _, name := range []string{"sale_id", "order_id", "product_id", "store_id", "order_date", "month"} {
		cols[name] = df.Col(name).Records()
	}
	quantities := df.Col("quantity").Float()
	prices := df.Col("unit_price").Float()
	totals := df.Col("line_total").Float()

	rows := make([]models.CleanedSale, df.Nrow())
	for i := range rows {
		saleID, err := strconv.ParseInt(cols["sale_id"][i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad sale_id %q", i, cols["sale_id"][i])
		}
		productID, _ := strconv.ParseInt(cols["product_id"][i], 10, 64)
		storeID, _ := strconv.ParseInt(cols["store_id"][i], 10, 64)

		rows[i] = models.CleanedSale{
			SaleID:    saleID,
			OrderID:   cols["order_id"][i],
			ProductID: productID,
			StoreID:   storeID,
			OrderDate: cols["order_date"][i],
			Month:     cols["month"][i],
			Quantity:  int64(quantities[i]),
			UnitPrice: prices[i],
			LineTotal: totals[i],
		}
	}

	return rows, nil
}
