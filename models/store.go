package models

import "database/sql"

// Store represents a row of the Stores dimension table.
type Store struct {
	StoreID int64          `db:"store_id" json:"store_id"`
	Name    sql.NullString `db:"store_name" json:"store_name,omitempty"`
	Region  sql.NullString `db:"region" json:"region,omitempty"`
}
