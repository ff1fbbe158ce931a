package analyze

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"
)

// cleanedFrame mirrors the shape the transform stage produces: dates
// normalized, no missing prices, derived columns present.
func cleanedFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{1, 2, 3, 4, 5}, series.Int, "sale_id"),
		series.New([]string{"A-1", "A-1", "B-1", "C-1", "C-2"}, series.String, "order_id"),
		series.New([]int{1, 2, 2, 1, 3}, series.Int, "product_id"),
		series.New([]int{1, 1, 2, 2, 1}, series.Int, "store_id"),
		series.New([]string{
			"2024-01-05", "2024-01-06", "2024-02-10", "2024-02-15", "2024-02-20",
		}, series.String, "order_date"),
		series.New([]string{
			"2024-01", "2024-01", "2024-02", "2024-02", "2024-02",
		}, series.String, "month"),
		series.New([]int{2, 1, 3, 1, 4}, series.Int, "quantity"),
		series.New([]float64{10, 20, 20, 10, 5}, series.Float, "unit_price"),
		series.New([]float64{20, 20, 60, 10, 20}, series.Float, "line_total"),
	)
}

func productsFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{1, 2, 3}, series.Int, "product_id"),
		series.New([]string{"Widget", "Gadget", "Sprocket"}, series.String, "product_name"),
		series.New([]string{"Hardware", "Electronics", "Hardware"}, series.String, "category"),
		series.New([]float64{10, 20, 5}, series.Float, "list_price"),
	)
}

func storesFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{1, 2}, series.Int, "store_id"),
		series.New([]string{"Downtown", "Airport"}, series.String, "store_name"),
		series.New([]string{"North", "South"}, series.String, "region"),
	)
}

func TestSummarize(t *testing.T) {
	s := Summarize(cleanedFrame())

	require.Equal(t, 5, s.Rows)
	require.Equal(t, 4, s.Orders) // A-1 spans two lines
	require.Equal(t, int64(11), s.Units)
	require.InDelta(t, 130.0, s.TotalRevenue, 1e-9)
	require.InDelta(t, 32.5, s.AvgOrderValue, 1e-9)
}

func TestByMonthSumsToGrandTotal(t *testing.T) {
	df := cleanedFrame()
	months := ByMonth(df)

	require.Len(t, months, 2)
	require.Equal(t, "2024-01", months[0].Month)
	require.Equal(t, "2024-02", months[1].Month)

	// Each group key appears exactly once.
	seen := map[string]bool{}
	for _, m := range months {
		require.False(t, seen[m.Month], "month %s appears twice", m.Month)
		seen[m.Month] = true
	}

	// Grouped revenue must add up to the ungrouped total.
	var grouped float64
	for _, m := range months {
		grouped += m.Revenue
	}
	require.InDelta(t, df.Col("line_total").Sum(), grouped, 1e-9)

	require.InDelta(t, 40.0, months[0].Revenue, 1e-9)
	require.InDelta(t, 90.0, months[1].Revenue, 1e-9)
	require.Equal(t, int64(3), months[0].Units)
	require.Equal(t, int64(8), months[1].Units)
}

func TestTopProducts(t *testing.T) {
	top := TopProducts(cleanedFrame(), productsFrame(), 2)

	require.Len(t, top, 2)
	require.Equal(t, "Gadget", top[0].Name)
	require.InDelta(t, 80.0, top[0].Revenue, 1e-9)
	require.Equal(t, "Electronics", top[0].Category)
	require.GreaterOrEqual(t, top[0].Revenue, top[1].Revenue)
}

func TestByCategoryShares(t *testing.T) {
	categories := ByCategory(cleanedFrame(), productsFrame())

	require.Len(t, categories, 2)

	var total, share float64
	for _, c := range categories {
		total += c.Revenue
		share += c.Share
	}
	require.InDelta(t, 130.0, total, 1e-9)
	require.InDelta(t, 1.0, share, 1e-9)

	require.Equal(t, "Electronics", categories[0].Category)
	require.InDelta(t, 80.0, categories[0].Revenue, 1e-9)
}

func TestByStore(t *testing.T) {
	stores := ByStore(cleanedFrame(), storesFrame())

	require.Len(t, stores, 2)
	require.Equal(t, "Airport", stores[0].Name)
	require.InDelta(t, 70.0, stores[0].Revenue, 1e-9)
	require.Equal(t, 2, stores[0].Orders)
	require.Equal(t, "Downtown", stores[1].Name)
	require.InDelta(t, 60.0, stores[1].Revenue, 1e-9)
	require.Equal(t, 2, stores[1].Orders) // A-1 counted once despite two lines
}

func TestDescribePrices(t *testing.T) {
	stats := DescribePrices(cleanedFrame())

	require.InDelta(t, 13.0, stats.Mean, 1e-9)
	require.InDelta(t, 10.0, stats.Median, 1e-9)
	require.InDelta(t, 5.0, stats.Min, 1e-9)
	require.InDelta(t, 20.0, stats.Max, 1e-9)
	require.Greater(t, stats.StdDev, 0.0)
}

func TestEmptyInputs(t *testing.T) {
	empty := dataframe.New(
		series.New([]int{}, series.Int, "sale_id"),
		series.New([]string{}, series.String, "order_id"),
		series.New([]float64{}, series.Float, "line_total"),
	)

	require.Zero(t, Summarize(empty).TotalRevenue)
	require.Nil(t, ByMonth(empty))
	require.Nil(t, TopProducts(empty, productsFrame(), 5))
	require.Nil(t, ByCategory(empty, productsFrame()))
	require.Nil(t, ByStore(empty, storesFrame()))
	require.Zero(t, DescribePrices(empty).Mean)
}