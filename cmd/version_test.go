package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fund-report-compiler/internal/config"
	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
)

// rows returns the whitespace-split fields of every output line that starts
// with txType.
func rows(out, txType string) [][]string {
	var found [][]string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 4 && fields[0] == txType {
			found = append(found, fields)
		}
	}
	return found
}

func TestWriteVersion_Defaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeVersion(&buf, config.Default()))
	out := buf.String()

	assert.Contains(t, out, "Version:    "+Version)
	assert.Contains(t, out, "Forms:      23 (flag length 51)")
	assert.Contains(t, out, "unsupported=error, replacement=〓")

	assert.Len(t, rows(out, "expense"), len(policy.RoutineCategories())+len(policy.PoliticalCategories()))
	assert.Contains(t, rows(out, "expense"), []string{"expense", "utilities", "required", "100000"})
	assert.Contains(t, rows(out, "expense"), []string{"expense", "election", "required", "50000"})
	assert.Contains(t, rows(out, "income"), []string{"income", "loan_income", "required", "all"})
	assert.Contains(t, rows(out, "income"), []string{"income", "other_income", "none", "100000"})
}

func TestWriteVersion_Overrides(t *testing.T) {
	cfg, err := config.ParseMainConfig([]byte(`
encoding:
  unsupported: replace
  replacement: "?"
thresholds:
  - {transaction_type: expense, category: utilities, detail: required, threshold: 200000}
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeVersion(&buf, cfg))
	out := buf.String()

	assert.Contains(t, out, "unsupported=replace, replacement=?")
	assert.Equal(t, [][]string{{"expense", "utilities", "required", "200000"}}, rows(out, "expense"))
	assert.Empty(t, rows(out, "income"))
}
