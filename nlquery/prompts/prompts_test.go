package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildQueryPrompt(t *testing.T) {
	pb := NewPromptBuilder()
	prompt := pb.BuildQueryPrompt("total revenue per region last year")

	require.Contains(t, prompt, "Sales")
	require.Contains(t, prompt, "Products")
	require.Contains(t, prompt, "Stores")
	require.Contains(t, prompt, "quantity * unit_price")
	require.Contains(t, prompt, "total revenue per region last year")
	require.Contains(t, prompt, "read-only")
}

func TestBuildValidationPrompt(t *testing.T) {
	pb := NewPromptBuilder()
	prompt := pb.BuildValidationPrompt("how many orders", "SELECT COUNT(DISTINCT order_id) FROM Sales")

	require.Contains(t, prompt, "how many orders")
	require.Contains(t, prompt, "SELECT COUNT(DISTINCT order_id) FROM Sales")
	require.Contains(t, prompt, `"VALID"`)
	require.Contains(t, prompt, `"INVALID: <reason>"`)
}

func TestBuildErrorPrompt(t *testing.T) {
	pb := NewPromptBuilder()
	prompt := pb.BuildErrorPrompt("revenue by store", errors.New("invalid column name 'revnue'"))

	require.Contains(t, prompt, "revenue by store")
	require.Contains(t, prompt, "invalid column name 'revnue'")
}
