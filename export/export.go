package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/parquet-go/parquet-go"

	"github.com/nkemjika/salesdash/models"
)

// DefaultBatchSize keeps a write-back batch comfortably under the SQL
// Server limit of 2100 bind parameters per statement (9 per row).
const DefaultBatchSize = 200

// WriteCSV persists any dataframe to a CSV file, creating the parent
// directory if needed.
func WriteCSV(df dataframe.DataFrame, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteParquet persists the cleaned sale rows as a Parquet file.
func WriteParquet(rows []models.CleanedSale, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[models.CleanedSale](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// ReadParquet loads cleaned sale rows back from a Parquet file.
func ReadParquet(path string) ([]models.CleanedSale, error) {
	return parquet.ReadFile[models.CleanedSale](path)
}

// WriteBack inserts the cleaned rows into the sales_clean table in
// batched multi-row statements inside a single transaction. Existing
// rows for the same run are replaced wholesale.
func WriteBack(ctx context.Context, db *sql.DB, driver string, rows []models.CleanedSale, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting write-back transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sales_clean"); err != nil {
		return fmt.Errorf("clearing sales_clean: %w", err)
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := insertBatch(ctx, tx, driver, rows[start:end]); err != nil {
			return fmt.Errorf("inserting batch at row %d: %w", start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing write-back: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, driver string, batch []models.CleanedSale) error {
	if len(batch) == 0 {
		return nil
	}

	const columnsPerRow = 9
	placeholders := make([]string, 0, len(batch))
	args := make([]interface{}, 0, len(batch)*columnsPerRow)

	for i, row := range batch {
		group := make([]string, columnsPerRow)
		for j := 0; j < columnsPerRow; j++ {
			n := i*columnsPerRow + j + 1
			if driver == "postgres" {
				group[j] = fmt.Sprintf("$%d", n)
			} else {
				group[j] = fmt.Sprintf("@p%d", n)
			}
		}
		placeholders = append(placeholders, "("+strings.Join(group, ", ")+")")
		args = append(args, row.SaleID, row.OrderID, row.ProductID, row.StoreID,
			row.OrderDate, row.Month, row.Quantity, row.UnitPrice, row.LineTotal)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO sales_clean
			(sale_id, order_id, product_id, store_id, order_date, month, quantity, unit_price, line_total)
		VALUES %s`, strings.Join(placeholders, ", "))

	_, err := tx.ExecContext(ctx, stmt, args...)
	return err
}
