package extract

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nkemjika/salesdash/models"
)

// Extractor pulls the Sales, Products and Stores tables into memory.
// Queries are parameterized and context-aware; each extraction runs
// once per pipeline pass, in order.
type Extractor struct {
	db     *sql.DB
	driver string
}

func NewExtractor(db *sql.DB, driver string) *Extractor {
	return &Extractor{db: db, driver: driver}
}

func (e *Extractor) placeholder(n int) string {
	if e.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return fmt.Sprintf("@p%d", n)
}

// Sales extracts sale rows whose order_date falls in [from, to).
func (e *Extractor) Sales(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	query := fmt.Sprintf(`
		SELECT sale_id, order_id, product_id, store_id, order_date, quantity, unit_price
		FROM Sales
		WHERE order_date >= %s AND order_date < %s
		ORDER BY sale_id`,
		e.placeholder(1), e.placeholder(2))

	rows, err := e.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("extracting sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var s models.Sale
		var orderDate sql.NullTime
		err := rows.Scan(&s.SaleID, &s.OrderID, &s.ProductID, &s.StoreID,
			&orderDate, &s.Quantity, &s.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("scanning sale row: %w", err)
		}
		if orderDate.Valid {
			s.OrderDate = sql.NullString{String: orderDate.Time.Format("2006-01-02"), Valid: true}
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}

// Products extracts the full Products dimension.
func (e *Extractor) Products(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT product_id, product_name, category, list_price
		FROM Products
		ORDER BY product_id`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("extracting products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.ListPrice); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Stores extracts the full Stores dimension.
func (e *Extractor) Stores(ctx context.Context) ([]models.Store, error) {
	query := `
		SELECT store_id, store_name, region
		FROM Stores
		ORDER BY store_id`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("extracting stores: %w", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.StoreID, &s.Name, &s.Region); err != nil {
			return nil, fmt.Errorf("scanning store row: %w", err)
		}
		stores = append(stores, s)
	}

	return stores, rows.Err()
}
