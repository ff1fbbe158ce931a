package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/nkemjika/salesdash/analyze"
	"github.com/nkemjika/salesdash/config"
	"github.com/nkemjika/salesdash/migrations"
	"github.com/nkemjika/salesdash/nlquery"
	"github.com/nkemjika/salesdash/pipeline"
	"github.com/nkemjika/salesdash/transform"
)

func init() {
	// Load .env file; a missing file is fine when the environment is
	// set some other way.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := migrations.InitSchema(db, cfg.Driver); err != nil {
		log.Printf("Warning: schema check failed: %v", err)
	}

	runner := pipeline.NewRunner(cfg, db)
	ctx := context.Background()

	from, to := readDateRange()
	result, err := runner.Run(ctx, pipeline.Options{From: from, To: to})
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	for {
		displayMenu()
		choice := readChoice()

		switch choice {
		case "1":
			displaySummary(result)
		case "2":
			displayMonthlyRevenue(result.Months)
		case "3":
			displayTopProducts(result.Products)
		case "4":
			displayCategoryBreakdown(result.Categories)
		case "5":
			displayStorePerformance(result.Stores)
		case "6":
			displayPriceStats(result.Prices)
		case "7":
			displayCleaningStats(result.CleanStats)
		case "8":
			from, to = readDateRange()
			result, err = runner.Run(ctx, pipeline.Options{From: from, To: to})
			if err != nil {
				color.Red("Pipeline failed: %v", err)
				return
			}
			color.Green("Refreshed. Dashboard written to %s", result.DashboardHT)
		case "9":
			result, err = runner.Run(ctx, pipeline.Options{From: from, To: to, WriteBack: true})
			if err != nil {
				color.Red("Write-back failed: %v", err)
			} else {
				color.Green("Cleaned table written back to sales_clean")
			}
		case "10":
			result, err = runner.Run(ctx, pipeline.Options{From: from, To: to, PriceStrategy: transform.DropMissing})
			if err != nil {
				color.Red("Pipeline failed: %v", err)
			} else {
				color.Green("Re-ran with missing prices dropped instead of imputed")
			}
		case "11":
			handleAsk(ctx, db)
		case "12":
			color.Green("Thank you for using the Sales Analytics Dashboard!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func displayMenu() {
	color.Cyan("\n=== Sales Analytics Dashboard ===")
	fmt.Println("1. Revenue Summary")
	fmt.Println("2. Monthly Revenue")
	fmt.Println("3. Top Products")
	fmt.Println("4. Category Breakdown")
	fmt.Println("5. Store Performance")
	fmt.Println("6. Price Distribution")
	fmt.Println("7. Cleaning Report")
	fmt.Println("8. Change Date Range (re-extract)")
	fmt.Println("9. Write Cleaned Table Back to Database")
	fmt.Println("10. Re-run Dropping Missing Prices")
	fmt.Println("11. Ask a Question (natural language)")
	fmt.Println("12. Exit")
	fmt.Print("\nEnter your choice (1-12): ")
}

func displaySummary(result *pipeline.Result) {
	color.Yellow("\nRevenue Summary")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})

	table.Append([]string{"Rows", fmt.Sprintf("%d", result.Summary.Rows)})
	table.Append([]string{"Orders", fmt.Sprintf("%d", result.Summary.Orders)})
	table.Append([]string{"Units Sold", fmt.Sprintf("%d", result.Summary.Units)})
	table.Append([]string{"Total Revenue", fmt.Sprintf("%.2f", result.Summary.TotalRevenue)})
	table.Append([]string{"Avg Order Value", fmt.Sprintf("%.2f", result.Summary.AvgOrderValue)})

	table.Render()
	fmt.Printf("\nDashboard: %s\nExports:   %s, %s, %s\n",
		result.DashboardHT, result.CleanedCSV, result.CleanedPQ, result.MonthlyCSV)
}

func displayMonthlyRevenue(months []analyze.MonthRevenue) {
	color.Yellow("\nMonthly Revenue")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Month", "Revenue", "Units"})

	for _, m := range months {
		table.Append([]string{
			m.Month,
			fmt.Sprintf("%.2f", m.Revenue),
			fmt.Sprintf("%d", m.Units),
		})
	}

	table.Render()
}

func displayTopProducts(products []analyze.ProductRevenue) {
	color.Yellow("\nTop Products by Revenue")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Product", "Category", "Revenue", "Units"})

	for i, p := range products {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			p.Name,
			p.Category,
			fmt.Sprintf("%.2f", p.Revenue),
			fmt.Sprintf("%d", p.Units),
		})
	}

	table.Render()
}

func displayCategoryBreakdown(categories []analyze.CategoryRevenue) {
	color.Yellow("\nRevenue by Category")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Revenue", "Share"})

	for _, c := range categories {
		table.Append([]string{
			c.Category,
			fmt.Sprintf("%.2f", c.Revenue),
			fmt.Sprintf("%.1f%%", c.Share*100),
		})
	}

	table.Render()
}

func displayStorePerformance(stores []analyze.StoreRevenue) {
	color.Yellow("\nRevenue by Store")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Store", "Region", "Revenue", "Orders"})

	for _, s := range stores {
		table.Append([]string{
			s.Name,
			s.Region,
			fmt.Sprintf("%.2f", s.Revenue),
			fmt.Sprintf("%d", s.Orders),
		})
	}

	table.Render()
}

func displayPriceStats(stats analyze.PriceStats) {
	color.Yellow("\nUnit Price Distribution")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Mean", "Median", "Min", "Max", "Std Dev"})
	table.Append([]string{
		fmt.Sprintf("%.2f", stats.Mean),
		fmt.Sprintf("%.2f", stats.Median),
		fmt.Sprintf("%.2f", stats.Min),
		fmt.Sprintf("%.2f", stats.Max),
		fmt.Sprintf("%.2f", stats.StdDev),
	})
	table.Render()
}

func displayCleaningStats(stats transform.Stats) {
	color.Yellow("\nCleaning Report")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Step", "Rows"})

	table.Append([]string{"Extracted", fmt.Sprintf("%d", stats.InputRows)})
	table.Append([]string{"Dropped (bad date)", fmt.Sprintf("%d", stats.BadDates)})
	table.Append([]string{"Missing price", fmt.Sprintf("%d", stats.MissingPrices)})
	table.Append([]string{"Imputed", fmt.Sprintf("%d", stats.Imputed)})
	table.Append([]string{"Duplicates removed", fmt.Sprintf("%d", stats.Duplicates)})
	table.Append([]string{"Cleaned", fmt.Sprintf("%d", stats.OutputRows)})

	table.Render()
}

func handleAsk(ctx context.Context, db *sql.DB) {
	fmt.Print("Enter your question: ")
	question := readString()
	if question == "" {
		color.Red("No question entered.")
		return
	}

	engine, err := nlquery.NewEngine(ctx, db)
	if err != nil {
		color.Red("Could not start query engine: %v", err)
		return
	}
	defer engine.Close()

	if err := engine.ProcessQuery(ctx, question); err != nil {
		color.Red("%v", err)
	}
}

func readDateRange() (time.Time, time.Time) {
	now := time.Now()
	defaultFrom := now.AddDate(-1, 0, 0)

	fmt.Printf("Start date [%s]: ", defaultFrom.Format("2006-01-02"))
	from := parseDateOr(readString(), defaultFrom)

	fmt.Printf("End date [%s]: ", now.Format("2006-01-02"))
	to := parseDateOr(readString(), now)

	if !to.After(from) {
		color.Red("End date must be after start date, using defaults.")
		return defaultFrom, now
	}
	return from, to
}

func parseDateOr(input string, fallback time.Time) time.Time {
	if input == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02", input)
	if err != nil {
		color.Red("Invalid date %q, using %s", input, fallback.Format("2006-01-02"))
		return fallback
	}
	return t
}

func readChoice() string {
	var input string
	fmt.Scanln(&input)
	return strings.TrimSpace(input)
}

func readString() string {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}
