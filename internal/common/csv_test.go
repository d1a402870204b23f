package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"
	"github.com/nikcich/ExpenseTrackerV2/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	input := "Date,Description,Amount\n" +
		"01/15/2024,\"GROCERY, STORE\",12.50\n" +
		"\n" +
		"01/16/2024,SHORT\n"

	rows, err := ReadRows(strings.NewReader(input), ',', "test.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.Row{"Date", "Description", "Amount"}, rows[0])
	assert.Equal(t, models.Row{"01/15/2024", "GROCERY, STORE", "12.50"}, rows[1])
	assert.Equal(t, models.Row{"01/16/2024", "SHORT"}, rows[2])
}

func TestReadRows_Delimiter(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("a;b;c\n1;2;3\n"), ';', "semi.csv")
	require.NoError(t, err)
	assert.Equal(t, []models.Row{{"a", "b", "c"}, {"1", "2", "3"}}, rows)
}

func TestReadRows_StripsByteOrderMark(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("\ufeffDate,Amount\n"), ',', "bom.csv")
	require.NoError(t, err)
	assert.Equal(t, "Date", rows[0][0])
}

func TestReadRows_Empty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""), ',', "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRows_MalformedIsFormatError(t *testing.T) {
	input := "a,b\n1,\"unterminated\n"

	_, err := ReadRows(strings.NewReader(input), ',', "broken.csv")
	require.Error(t, err)

	var fe *parsererror.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "broken.csv", fe.Source)
	assert.Positive(t, fe.Line)
	assert.Contains(t, err.Error(), "broken.csv")
}

func TestRowReader_LogsAndDefaults(t *testing.T) {
	logger := logging.NewMockLogger()
	rr := NewRowReader(0, logger)
	assert.Equal(t, ',', rr.Delimiter)

	rows, err := rr.ReadRows(strings.NewReader("x,y\n"), "in.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.True(t, logger.HasEntry("DEBUG", "Read rows"))

	_, err = rr.ReadRows(strings.NewReader("\"open\n"), "bad.csv")
	assert.Error(t, err)
	assert.True(t, logger.HasEntry("ERROR", "Failed to read delimited text"))
}

func sampleExpenses() []models.Expense {
	return []models.Expense{
		{
			ID:          "id-1",
			Description: "Coffee, large",
			Amount:      4.5,
			Tags:        []string{"drinks", "food"},
			Date:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "id-2",
			Description: "Paycheck",
			Amount:      -1200,
			Date:        time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteExpenses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExpenses(&buf, sampleExpenses(), ";"))

	rows, err := ReadRows(&buf, ',', "export")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.Row{"ID", "Date", "Description", "Amount", "Tags"}, rows[0])
	assert.Equal(t, models.Row{"id-1", "2024-01-15", "Coffee, large", "4.50", "drinks;food"}, rows[1])
	assert.Equal(t, models.Row{"id-2", "2024-01-31", "Paycheck", "-1200.00", ""}, rows[2])
}

func TestWriteExpenses_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteExpenses(&buf, nil, ";"))
}

func TestWriteExpensesToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	require.NoError(t, WriteExpensesToCSV(sampleExpenses(), path, "|"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id-1,2024-01-15,\"Coffee, large\",4.50,drinks|food")
}
