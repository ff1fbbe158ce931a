package models

import "database/sql"

// Sale represents a row of the externally owned Sales table, exactly as
// extracted. Nullable columns keep their sql.Null types until the
// cleaning stage decides how to handle them.
type Sale struct {
	SaleID    int64           `db:"sale_id" json:"sale_id"`
	OrderID   sql.NullString  `db:"order_id" json:"order_id,omitempty"`
	ProductID sql.NullInt64   `db:"product_id" json:"product_id,omitempty"`
	StoreID   sql.NullInt64   `db:"store_id" json:"store_id,omitempty"`
	OrderDate sql.NullString  `db:"order_date" json:"order_date,omitempty"`
	Quantity  sql.NullInt64   `db:"quantity" json:"quantity,omitempty"`
	UnitPrice sql.NullFloat64 `db:"unit_price" json:"unit_price,omitempty"`
}

// CleanedSale is a row of the cleaned table: dates normalized, prices
// non-null, derived columns populated. This is the shape written to
// Parquet and to the sales_clean write-back table.
type CleanedSale struct {
	SaleID    int64   `db:"sale_id" parquet:"sale_id"`
	OrderID   string  `db:"order_id" parquet:"order_id"`
	ProductID int64   `db:"product_id" parquet:"product_id"`
	StoreID   int64   `db:"store_id" parquet:"store_id"`
	OrderDate string  `db:"order_date" parquet:"order_date"`
	Month     string  `db:"month" parquet:"month"`
	Quantity  int64   `db:"quantity" parquet:"quantity"`
	UnitPrice float64 `db:"unit_price" parquet:"unit_price"`
	LineTotal float64 `db:"line_total" parquet:"line_total"`
}
