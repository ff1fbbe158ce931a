package migrations

import (
	"database/sql"
	"fmt"
)

// InitSchema verifies that the externally owned source tables exist.
// The repository owns no source schema; we only check that the tables
// the extractor reads from are present.
func InitSchema(db *sql.DB, driver string) error {
	tables := []string{"Sales", "Products", "Stores"}

	placeholder := "@p1"
	if driver == "postgres" {
		placeholder = "$1"
	}

	for _, table := range tables {
		var count int
		query := fmt.Sprintf(`
			SELECT COUNT(*)
			FROM information_schema.tables
			WHERE LOWER(table_name) = LOWER(%s)`, placeholder)

		err := db.QueryRow(query, table).Scan(&count)
		if err != nil {
			return err
		}

		if count == 0 {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}

	return nil
}

// EnsureExportTable creates the sales_clean write-back table if it does
// not exist yet. This is the only table the repository owns.
func EnsureExportTable(db *sql.DB, driver string) error {
	columns := `
		sale_id    BIGINT NOT NULL,
		order_id   VARCHAR(64) NOT NULL,
		product_id BIGINT NOT NULL,
		store_id   BIGINT NOT NULL,
		order_date DATE NOT NULL,
		month      VARCHAR(7) NOT NULL,
		quantity   BIGINT NOT NULL,
		unit_price FLOAT NOT NULL,
		line_total FLOAT NOT NULL`

	var stmt string
	if driver == "postgres" {
		stmt = fmt.Sprintf("CREATE TABLE IF NOT EXISTS sales_clean (%s)", columns)
	} else {
		stmt = fmt.Sprintf("IF OBJECT_ID('sales_clean', 'U') IS NULL CREATE TABLE sales_clean (%s)", columns)
	}

	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("creating sales_clean table: %w", err)
	}

	return nil
}
