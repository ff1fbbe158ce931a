package analyze

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
)

// Summary holds the headline KPIs for a cleaned sales table.
type Summary struct {
	Rows          int
	Orders        int
	Units         int64
	TotalRevenue  float64
	AvgOrderValue float64
}

// MonthRevenue is one row of the monthly rollup, keyed by yyyy-mm.
type MonthRevenue struct {
	Month   string
	Revenue float64
	Units   int64
}

// ProductRevenue is one row of the per-product rollup.
type ProductRevenue struct {
	ProductID string
	Name      string
	Category  string
	Revenue   float64
	Units     int64
}

// CategoryRevenue is one row of the per-category rollup.
type CategoryRevenue struct {
	Category string
	Revenue  float64
	Share    float64
}

// StoreRevenue is one row of the per-store rollup.
type StoreRevenue struct {
	StoreID string
	Name    string
	Region  string
	Revenue float64
	Orders  int
}

// PriceStats describes the unit_price distribution.
type PriceStats struct {
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
}

// Summarize computes the headline KPIs. Orders are distinct order_id
// values; average order value is revenue over orders.
func Summarize(df dataframe.DataFrame) Summary {
	s := Summary{Rows: df.Nrow()}
	if s.Rows == 0 {
		return s
	}

	s.TotalRevenue = df.Col("line_total").Sum()
	s.Units = int64(df.Col("quantity").Sum())

	orders := map[string]bool{}
	for _, id := range df.Col("order_id").Records() {
		orders[id] = true
	}
	s.Orders = len(orders)
	if s.Orders > 0 {
		s.AvgOrderValue = s.TotalRevenue / float64(s.Orders)
	}

	return s
}

// ByMonth rolls revenue and units up into calendar-month buckets,
// sorted chronologically. Each month appears exactly once.
func ByMonth(df dataframe.DataFrame) []MonthRevenue {
	if df.Nrow() == 0 {
		return nil
	}

	agg := df.GroupBy("month").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_SUM},
		[]string{"line_total", "quantity"},
	)

	months := agg.Col("month").Records()
	revenues := agg.Col("line_total_SUM").Float()
	units := agg.Col("quantity_SUM").Float()

	out := make([]MonthRevenue, len(months))
	for i := range months {
		out[i] = MonthRevenue{Month: months[i], Revenue: revenues[i], Units: int64(units[i])}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopProducts joins the cleaned sales with the Products dimension and
// returns the n products with the highest revenue.
func TopProducts(df, products dataframe.DataFrame, n int) []ProductRevenue {
	if df.Nrow() == 0 {
		return nil
	}

	joined := df.InnerJoin(products, "product_id")
	agg := joined.GroupBy("product_id", "product_name", "category").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_SUM},
		[]string{"line_total", "quantity"},
	)

	ids := agg.Col("product_id").Records()
	names := agg.Col("product_name").Records()
	categories := agg.Col("category").Records()
	revenues := agg.Col("line_total_SUM").Float()
	units := agg.Col("quantity_SUM").Float()

	out := make([]ProductRevenue, len(ids))
	for i := range ids {
		out[i] = ProductRevenue{
			ProductID: ids[i],
			Name:      names[i],
			Category:  categories[i],
			Revenue:   revenues[i],
			Units:     int64(units[i]),
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ByCategory rolls revenue up per product category and computes each
// category's share of the total.
func ByCategory(df, products dataframe.DataFrame) []CategoryRevenue {
	if df.Nrow() == 0 {
		return nil
	}

	joined := df.InnerJoin(products, "product_id")
	agg := joined.GroupBy("category").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{"line_total"},
	)

	categories := agg.Col("category").Records()
	revenues := agg.Col("line_total_SUM").Float()

	var total float64
	for _, r := range revenues {
		total += r
	}

	out := make([]CategoryRevenue, len(categories))
	for i := range categories {
		out[i] = CategoryRevenue{Category: categories[i], Revenue: revenues[i]}
		if total > 0 {
			out[i].Share = revenues[i] / total
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

// ByStore joins with the Stores dimension and rolls revenue and
// distinct order counts up per store.
func ByStore(df, stores dataframe.DataFrame) []StoreRevenue {
	if df.Nrow() == 0 {
		return nil
	}

	joined := df.InnerJoin(stores, "store_id")

	storeIDs := joined.Col("store_id").Records()
	names := joined.Col("store_name").Records()
	regions := joined.Col("region").Records()
	totals := joined.Col("line_total").Float()
	orderIDs := joined.Col("order_id").Records()

	type acc struct {
		name, region string
		revenue      float64
		orders       map[string]bool
	}
	byStore := map[string]*acc{}
	order := []string{}
	for i, id := range storeIDs {
		a, ok := byStore[id]
		if !ok {
			a = &acc{name: names[i], region: regions[i], orders: map[string]bool{}}
			byStore[id] = a
			order = append(order, id)
		}
		a.revenue += totals[i]
		a.orders[orderIDs[i]] = true
	}

	out := make([]StoreRevenue, 0, len(order))
	for _, id := range order {
		a := byStore[id]
		out = append(out, StoreRevenue{
			StoreID: id,
			Name:    a.name,
			Region:  a.region,
			Revenue: a.revenue,
			Orders:  len(a.orders),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

// DescribePrices computes descriptive statistics over unit_price.
func DescribePrices(df dataframe.DataFrame) PriceStats {
	if df.Nrow() == 0 {
		return PriceStats{}
	}

	prices := df.Col("unit_price")
	return PriceStats{
		Mean:   prices.Mean(),
		Median: prices.Median(),
		Min:    prices.Min(),
		Max:    prices.Max(),
		StdDev: prices.StdDev(),
	}
}
