package prompts

import "fmt"

// SchemaContext describes the sales schema for the model. The tables
// are externally owned; only the columns the extractor reads are
// documented here.
const SchemaContext = `Database Schema:

1. Tables and Their Relationships:
   - Sales (fact table)
     * Primary Key: sale_id (bigint)
     * Columns:
       - order_id: Order identifier, shared by lines of one order (varchar(64))
       - product_id: FK -> Products.product_id (bigint)
       - store_id: FK -> Stores.store_id (bigint)
       - order_date: Date of the order (date)
       - quantity: Units sold on this line (bigint)
       - unit_price: Price per unit, may be NULL (float)

   - Products (dimension)
     * Primary Key: product_id (bigint)
     * Columns:
       - product_name: Display name (varchar(120))
       - category: Product category (varchar(60))
       - list_price: Catalog price (float)

   - Stores (dimension)
     * Primary Key: store_id (bigint)
     * Columns:
       - store_name: Display name (varchar(120))
       - region: Sales region (varchar(60))

2. Conventions:
   - Revenue for a line is quantity * unit_price
   - An order spans all Sales rows sharing order_id
   - Month buckets use the first 7 characters of the ISO date`

// PromptBuilder constructs the prompts sent to the model.
type PromptBuilder struct {
	baseContext string
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{baseContext: SchemaContext}
}

// BuildQueryPrompt creates a prompt for SQL query generation.
func (pb *PromptBuilder) BuildQueryPrompt(query string) string {
	return fmt.Sprintf(`You are a SQL query generator for a retail sales database. Follow these rules strictly:

%s

Query Rules:
1. Generate read-only queries: SELECT (optionally with WITH) only. Never
   INSERT, UPDATE, DELETE, DROP or ALTER.
2. Use table aliases: Sales AS s, Products AS p, Stores AS st
3. Compute revenue as SUM(s.quantity * s.unit_price)
4. Skip NULL prices: add "s.unit_price IS NOT NULL" when aggregating revenue
5. Use COUNT(DISTINCT s.order_id) for counting orders
6. Use LOWER() for string matching: LOWER(p.category) = LOWER('category_name')

Example Queries:
1. "total revenue per category in 2024"
   SELECT p.category, SUM(s.quantity * s.unit_price) AS revenue
   FROM Sales s
   JOIN Products p ON s.product_id = p.product_id
   WHERE s.unit_price IS NOT NULL
   AND s.order_date >= '2024-01-01' AND s.order_date < '2025-01-01'
   GROUP BY p.category
   ORDER BY revenue DESC;

2. "how many orders did the northern region place"
   SELECT COUNT(DISTINCT s.order_id)
   FROM Sales s
   JOIN Stores st ON s.store_id = st.store_id
   WHERE LOWER(st.region) = LOWER('north');

Now generate a SQL query for this question: %s`, pb.baseContext, query)
}

// BuildValidationPrompt creates a prompt for validating generated SQL.
func (pb *PromptBuilder) BuildValidationPrompt(query, sql string) string {
	return fmt.Sprintf(`You are a SQL query validator. Your task is to validate if the generated SQL query correctly answers the user's question.
Rules:
1. The query must be read-only (SELECT or WITH)
2. Revenue aggregations must multiply quantity by unit_price
3. Check table relationships and joins
4. Verify WHERE clause conditions match the question

User Question: %s
Generated SQL: %s

Respond with:
- "VALID" if the query is correct
- "INVALID: <reason>" if the query is incorrect, explaining why
`, query, sql)
}

// BuildErrorPrompt creates a prompt for generating user-friendly error messages.
func (pb *PromptBuilder) BuildErrorPrompt(query string, err error) string {
	return fmt.Sprintf(`Generate a user-friendly error message for this failed query:

Question: "%s"

Error: %v

Requirements:
1. Explain the issue in simple terms
2. Suggest how to rephrase the question
3. Keep the message concise and helpful

Error Message:`, query, err)
}
