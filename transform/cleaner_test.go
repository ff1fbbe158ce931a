package transform

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"
)

// rawFrame builds a deliberately messy extract: one RFC3339 timestamp,
// one unparseable date, one exact duplicate row and two missing prices
// (one imputable from a sibling row, one not).
func rawFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{1, 2, 3, 3, 5, 6}, series.Int, "sale_id"),
		series.New([]string{"A-1", "A-1", "B-1", "B-1", "C-1", "C-2"}, series.String, "order_id"),
		series.New([]int{1, 2, 2, 2, 3, 4}, series.Int, "product_id"),
		series.New([]int{1, 1, 2, 2, 2, 1}, series.Int, "store_id"),
		series.New([]string{
			"2024-01-05",
			"2024-01-06T10:30:00Z",
			"2024-02-10",
			"2024-02-10",
			"not-a-date",
			"2024-03-01",
		}, series.String, "order_date"),
		series.New([]int{2, 1, 3, 3, 1, 2}, series.Int, "quantity"),
		series.New([]float64{10, math.NaN(), 20, 20, 5, math.NaN()}, series.Float, "unit_price"),
	)
}

func TestCleanWithImputation(t *testing.T) {
	df, stats, err := Clean(rawFrame(), ImputeMedian)
	require.NoError(t, err)

	require.Equal(t, 6, stats.InputRows)
	require.Equal(t, 1, stats.BadDates)
	require.Equal(t, 2, stats.MissingPrices)
	require.Equal(t, 1, stats.Imputed)
	require.Equal(t, 1, stats.Duplicates)
	require.Equal(t, 3, stats.OutputRows)
	require.Equal(t, 3, df.Nrow())

	// Row count never grows.
	require.LessOrEqual(t, stats.OutputRows, stats.InputRows)

	// Targeted columns are null-free after cleaning.
	for _, p := range df.Col("unit_price").Float() {
		require.False(t, math.IsNaN(p))
		require.Greater(t, p, 0.0)
	}
	for _, d := range df.Col("order_date").Records() {
		require.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, d)
	}

	// The RFC3339 timestamp was normalized to a plain date.
	require.Equal(t, "2024-01-06", df.Col("order_date").Records()[1])

	// The missing price on product 2 was filled with its sibling's price.
	require.InDelta(t, 20.0, df.Col("unit_price").Float()[1], 1e-9)
}

func TestCleanDroppingMissingPrices(t *testing.T) {
	df, stats, err := Clean(rawFrame(), DropMissing)
	require.NoError(t, err)

	require.Equal(t, 2, stats.MissingPrices)
	require.Equal(t, 0, stats.Imputed)
	require.Equal(t, 2, df.Nrow())
}

func TestDerivedColumns(t *testing.T) {
	df, _, err := Clean(rawFrame(), ImputeMedian)
	require.NoError(t, err)

	quantities := df.Col("quantity").Float()
	prices := df.Col("unit_price").Float()
	totals := df.Col("line_total").Float()
	months := df.Col("month").Records()
	dates := df.Col("order_date").Records()

	for i := range totals {
		require.InDelta(t, quantities[i]*prices[i], totals[i], 1e-9,
			"line_total must equal quantity * unit_price on row %d", i)
		require.Equal(t, dates[i][:7], months[i])
	}
}

func TestDedupeIdempotent(t *testing.T) {
	df, _, err := Clean(rawFrame(), ImputeMedian)
	require.NoError(t, err)

	again, dropped := Dedupe(df)
	require.Zero(t, dropped, "second dedupe pass must be a no-op")
	require.Equal(t, df.Records(), again.Records())
}

func TestCoerceDatesLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-05-01", "2024-05-01", true},
		{"2024-05-01 13:45:00", "2024-05-01", true},
		{"2024-05-01T13:45:00Z", "2024-05-01", true},
		{"05/20/2024", "2024-05-20", true},
		{"2024/05/01", "2024-05-01", true},
		{"", "", false},
		{"NaN", "", false},
		{"20240501", "", false},
	}

	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		require.Equal(t, tt.ok, ok, "parseDate(%q)", tt.in)
		require.Equal(t, tt.want, got, "parseDate(%q)", tt.in)
	}
}

func TestCleanEmptyFrame(t *testing.T) {
	empty := dataframe.New(
		series.New([]int{}, series.Int, "sale_id"),
		series.New([]string{}, series.String, "order_id"),
		series.New([]int{}, series.Int, "product_id"),
		series.New([]int{}, series.Int, "store_id"),
		series.New([]string{}, series.String, "order_date"),
		series.New([]int{}, series.Int, "quantity"),
		series.New([]float64{}, series.Float, "unit_price"),
	)

	df, stats, err := Clean(empty, ImputeMedian)
	require.NoError(t, err)
	require.Zero(t, stats.OutputRows)
	require.Zero(t, df.Nrow())
}

func TestToCleanedSales(t *testing.T) {
	df, _, err := Clean(rawFrame(), ImputeMedian)
	require.NoError(t, err)

	rows, err := ToCleanedSales(df)
	require.NoError(t, err)
	require.Len(t, rows, df.Nrow())

	first := rows[0]
	require.Equal(t, int64(1), first.SaleID)
	require.Equal(t, "A-1", first.OrderID)
	require.Equal(t, "2024-01-05", first.OrderDate)
	require.Equal(t, "2024-01", first.Month)
	require.Equal(t, int64(2), first.Quantity)
	require.InDelta(t, 20.0, first.LineTotal, 1e-9)
}
