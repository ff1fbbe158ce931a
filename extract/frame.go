package extract

import (
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nkemjika/salesdash/models"
)

// Canonical column order for the raw sales extract. The transform stage
// depends on these names.
var SalesColumns = []string{
	"sale_id", "order_id", "product_id", "store_id",
	"order_date", "quantity", "unit_price",
}

// SalesFrame converts extracted sale rows into a dataframe. Missing
// strings become "", missing quantities 0 and missing prices NaN, which
// is what the cleaning step looks for.
func SalesFrame(sales []models.Sale) dataframe.DataFrame {
	n := len(sales)
	ids := make([]int, n)
	orders := make([]string, n)
	productIDs := make([]int, n)
	storeIDs := make([]int, n)
	dates := make([]string, n)
	quantities := make([]int, n)
	prices := make([]float64, n)

	for i, s := range sales {
		ids[i] = int(s.SaleID)
		orders[i] = s.OrderID.String
		productIDs[i] = int(s.ProductID.Int64)
		storeIDs[i] = int(s.StoreID.Int64)
		dates[i] = s.OrderDate.String
		quantities[i] = int(s.Quantity.Int64)
		if s.UnitPrice.Valid {
			prices[i] = s.UnitPrice.Float64
		} else {
			prices[i] = math.NaN()
		}
	}

	return dataframe.New(
		series.New(ids, series.Int, "sale_id"),
		series.New(orders, series.String, "order_id"),
		series.New(productIDs, series.Int, "product_id"),
		series.New(storeIDs, series.Int, "store_id"),
		series.New(dates, series.String, "order_date"),
		series.New(quantities, series.Int, "quantity"),
		series.New(prices, series.Float, "unit_price"),
	)
}

// ProductsFrame converts the Products dimension into a dataframe.
func ProductsFrame(products []models.Product) dataframe.DataFrame {
	n := len(products)
	ids := make([]int, n)
	names := make([]string, n)
	categories := make([]string, n)
	listPrices := make([]float64, n)

	for i, p := range products {
		ids[i] = int(p.ProductID)
		names[i] = p.Name.String
		if p.Category.Valid {
			categories[i] = p.Category.String
		} else {
			categories[i] = "Uncategorized"
		}
		if p.ListPrice.Valid {
			listPrices[i] = p.ListPrice.Float64
		} else {
			listPrices[i] = math.NaN()
		}
	}

	return dataframe.New(
		series.New(ids, series.Int, "product_id"),
		series.New(names, series.String, "product_name"),
		series.New(categories, series.String, "category"),
		series.New(listPrices, series.Float, "list_price"),
	)
}

// StoresFrame converts the Stores dimension into a dataframe.
func StoresFrame(stores []models.Store) dataframe.DataFrame {
	n := len(stores)
	ids := make([]int, n)
	names := make([]string, n)
	regions := make([]string, n)

	for i, s := range stores {
		ids[i] = int(s.StoreID)
		names[i] = s.Name.String
		regions[i] = s.Region.String
	}

	return dataframe.New(
		series.New(ids, series.Int, "store_id"),
		series.New(names, series.String, "store_name"),
		series.New(regions, series.String, "region"),
	)
}

// ReadSalesCSV loads a sales extract from CSV, for offline runs and
// tests. Column types are forced so an all-empty price column still
// parses as float.
func ReadSalesCSV(r io.Reader) dataframe.DataFrame {
	return dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(map[string]series.Type{
			"sale_id":    series.Int,
			"order_id":   series.String,
			"product_id": series.Int,
			"store_id":   series.Int,
			"order_date": series.String,
			"quantity":   series.Int,
			"unit_price": series.Float,
		}),
	)
}
