package models

import "database/sql"

// Product represents a row of the Products dimension table.
type Product struct {
	ProductID int64           `db:"product_id" json:"product_id"`
	Name      sql.NullString  `db:"product_name" json:"product_name,omitempty"`
	Category  sql.NullString  `db:"category" json:"category,omitempty"`
	ListPrice sql.NullFloat64 `db:"list_price" json:"list_price,omitempty"`
}
