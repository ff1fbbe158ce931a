package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"

	"github.com/nkemjika/salesdash/models"
)

func sampleRows() []models.CleanedSale {
	return []models.CleanedSale{
		{
			SaleID: 1, OrderID: "A-1", ProductID: 7, StoreID: 2,
			OrderDate: "2024-04-01", Month: "2024-04",
			Quantity: 3, UnitPrice: 9.5, LineTotal: 28.5,
		},
		{
			SaleID: 2, OrderID: "A-2", ProductID: 8, StoreID: 2,
			OrderDate: "2024-04-02", Month: "2024-04",
			Quantity: 1, UnitPrice: 4, LineTotal: 4,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"2024-01", "2024-02"}, series.String, "month"),
		series.New([]float64{40, 90}, series.Float, "revenue"),
	)

	path := filepath.Join(t.TempDir(), "out", "monthly.csv")
	require.NoError(t, WriteCSV(df, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "month,revenue")
	require.Contains(t, string(data), "2024-01")
}

func TestParquetRoundTrip(t *testing.T) {
	rows := sampleRows()
	path := filepath.Join(t.TempDir(), "sales_clean.parquet")

	require.NoError(t, WriteParquet(rows, path))

	got, err := ReadParquet(path)
	require.NoError(t, err)
	require.Equal(t, rows, got)
}

func TestWriteParquetEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteParquet(nil, path))

	got, err := ReadParquet(path)
	require.NoError(t, err)
	require.Empty(t, got)
}
