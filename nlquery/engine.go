package nlquery

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/api/option"

	"github.com/nkemjika/salesdash/nlquery/prompts"
)

// Engine translates a natural-language question into a read-only SQL
// query, validates it, runs it and renders the result.
type Engine struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	db      *sql.DB
	prompts *prompts.PromptBuilder
}

// NewEngine wires the Gemini client to an already open database handle.
func NewEngine(ctx context.Context, db *sql.DB) (*Engine, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("error initializing Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")

	// Lower temperature for more precise SQL
	temp := float32(0.2)
	model.Temperature = &temp

	return &Engine{
		client:  client,
		model:   model,
		db:      db,
		prompts: prompts.NewPromptBuilder(),
	}, nil
}

// ProcessQuery runs the full question → SQL → result cycle.
func (e *Engine) ProcessQuery(ctx context.Context, query string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	sqlQuery, err := e.generateSQL(queryCtx, query)
	if err != nil {
		if strings.Contains(err.Error(), "context deadline exceeded") {
			return fmt.Errorf("the query timed out; try a more specific question or add filters (e.g. a year, category or region)")
		}
		return err
	}

	if !isReadOnly(sqlQuery) {
		return fmt.Errorf("generated query is not read-only, refusing to run it")
	}

	if valid, reason := e.validateSQL(queryCtx, query, sqlQuery); !valid {
		return fmt.Errorf("invalid query: %s", reason)
	}

	fmt.Printf("\nExecuting SQL Query:\n%s\n\n", sqlQuery)
	results, err := e.executeQuery(queryCtx, sqlQuery)
	if err != nil {
		msg, _ := e.explainError(queryCtx, query, err)
		return fmt.Errorf("%s", msg)
	}

	e.displayResults(results)
	return nil
}

func (e *Engine) generateSQL(ctx context.Context, query string) (string, error) {
	var lastErr error

	backoff := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
	}

	for _, wait := range backoff {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			chat := e.model.StartChat()
			prompt := e.prompts.BuildQueryPrompt(query)

			resp, err := chat.SendMessage(ctx, genai.Text(prompt))
			if err != nil {
				lastErr = err
				time.Sleep(wait)
				continue
			}

			if len(resp.Candidates) == 0 {
				lastErr = fmt.Errorf("no response candidates")
				time.Sleep(wait)
				continue
			}

			sqlQuery, err := extractSQL(resp.Candidates[0].Content.Parts[0])
			if err != nil {
				lastErr = err
				time.Sleep(wait)
				continue
			}

			return sqlQuery, nil
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("all attempts failed, last error: %w", lastErr)
	}
	return "", fmt.Errorf("failed to generate SQL query after all attempts")
}

// extractSQL strips the code fences the model wraps its answer in.
func extractSQL(content genai.Part) (string, error) {
	text, ok := content.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type: %T", content)
	}

	sqlQuery := strings.TrimSpace(string(text))

	formats := []string{"```sql", "```SQL", "```tsql", "```"}
	for _, format := range formats {
		if strings.HasPrefix(sqlQuery, format) {
			sqlQuery = strings.TrimPrefix(sqlQuery, format)
			if idx := strings.LastIndex(sqlQuery, "```"); idx != -1 {
				sqlQuery = sqlQuery[:idx]
			}
			break
		}
	}

	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return "", fmt.Errorf("empty SQL query after extraction")
	}

	return sqlQuery, nil
}

func isReadOnly(sqlQuery string) bool {
	head := strings.ToUpper(strings.TrimSpace(sqlQuery))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH")
}

func (e *Engine) validateSQL(ctx context.Context, query, sqlQuery string) (bool, string) {
	chat := e.model.StartChat()
	prompt := e.prompts.BuildValidationPrompt(query, sqlQuery)

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 {
		return false, "validation failed due to API error"
	}

	text := resp.Candidates[0].Content.Parts[0]
	if textStr, ok := text.(genai.Text); ok {
		result := strings.TrimSpace(string(textStr))
		if strings.HasPrefix(result, "VALID") {
			return true, ""
		}
		if strings.HasPrefix(result, "INVALID: ") {
			return false, strings.TrimPrefix(result, "INVALID: ")
		}
		return false, fmt.Sprintf("validation failed: %s", result)
	}
	return false, "invalid response format from validation"
}

func (e *Engine) explainError(ctx context.Context, query string, cause error) (string, error) {
	chat := e.model.StartChat()
	prompt := e.prompts.BuildErrorPrompt(query, cause)

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 {
		return fmt.Sprintf("query failed: %v", cause), nil
	}

	text := resp.Candidates[0].Content.Parts[0]
	if textStr, ok := text.(genai.Text); ok {
		return strings.TrimSpace(string(textStr)), nil
	}
	return fmt.Sprintf("query failed: %v", cause), nil
}

func (e *Engine) executeQuery(ctx context.Context, query string) ([]map[string]interface{}, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := e.db.QueryContext(queryCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		result := make(map[string]interface{})
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		for i, column := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				result[column] = string(b)
			} else {
				result[column] = val
			}
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func (e *Engine) displayResults(results []map[string]interface{}) {
	if len(results) == 0 {
		fmt.Println("No results found")
		return
	}

	var columns []string
	for column := range results[0] {
		columns = append(columns, column)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, result := range results {
		var row []string
		for _, column := range columns {
			value := result[column]
			if value == nil {
				row = append(row, "NULL")
			} else {
				row = append(row, fmt.Sprintf("%v", value))
			}
		}
		table.Append(row)
	}

	table.Render()
}

// Close releases the Gemini client. The database handle belongs to the
// caller and is left open.
func (e *Engine) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
