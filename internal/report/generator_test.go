package report

import (
	"encoding/json"
	"testing"

	"github.com/nikcich/ExpenseTrackerV2/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReportGenerator_GenerateReport_JSON(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())
	summary := Build(fixture(), Filter{})

	out, err := generator.GenerateReport(summary, "json")
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, summary, decoded)
	assert.Contains(t, string(out), `"total_expenses": "1620.30"`)
}

func TestReportGenerator_GenerateReport_YAML(t *testing.T) {
	generator := NewReportGenerator(nil)
	summary := Build(fixture(), Filter{})

	for _, format := range []string{"yaml", "YML"} {
		out, err := generator.GenerateReport(summary, format)
		require.NoError(t, err)

		var decoded Summary
		require.NoError(t, yaml.Unmarshal(out, &decoded))
		assert.Equal(t, summary, decoded)
		assert.Contains(t, string(out), "average_monthly_spending:")
	}
}

func TestReportGenerator_UnsupportedFormat(t *testing.T) {
	generator := NewReportGenerator(nil)

	_, err := generator.GenerateReport(Summary{}, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format: xml")
}
