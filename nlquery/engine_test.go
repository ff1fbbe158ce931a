package nlquery

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/require"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "fenced sql block",
			in:   "```sql\nSELECT 1;\n```",
			want: "SELECT 1;",
			ok:   true,
		},
		{
			name: "bare statement",
			in:   "SELECT p.category FROM Products p;",
			want: "SELECT p.category FROM Products p;",
			ok:   true,
		},
		{
			name: "generic fence",
			in:   "```\nSELECT 2;\n```",
			want: "SELECT 2;",
			ok:   true,
		},
		{
			name: "empty",
			in:   "   ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractSQL(genai.Text(tt.in))
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIsReadOnly(t *testing.T) {
	require.True(t, isReadOnly("SELECT * FROM Sales"))
	require.True(t, isReadOnly("  with t as (select 1) select * from t"))
	require.False(t, isReadOnly("DELETE FROM Sales"))
	require.False(t, isReadOnly("DROP TABLE Sales"))
	require.False(t, isReadOnly("UPDATE Sales SET quantity = 0"))
}
