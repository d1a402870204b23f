package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nikcich/ExpenseTrackerV2/internal/common"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"
	"github.com/nikcich/ExpenseTrackerV2/internal/parsererror"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"
	"github.com/nikcich/ExpenseTrackerV2/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wellsFargoRows(n int) []models.Row {
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{
			fmt.Sprintf("01/%02d/2024", i%28+1),
			fmt.Sprintf("-%d.25", i),
			"*",
			"",
			fmt.Sprintf("SHOP %d", i),
		}
	}
	return rows
}

func ambiguousRows() []models.Row {
	return []models.Row{
		{"Date", "Posted", "Description", "Col3", "Col4", "Col5"},
		{"01/15/2024", "x", "SHOP", "12.00", "Food", "-12.00"},
	}
}

func newTestEngine(workers, chunk int) (*Engine, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewEngine(logger, workers, chunk), logger
}

func TestFindDefinitions(t *testing.T) {
	engine, _ := newTestEngine(3, 2)

	matches, err := engine.FindDefinitions(context.Background(), wellsFargoRows(5))
	require.NoError(t, err)
	assert.Equal(t, []registry.Key{registry.WellsFargo}, matches)
}

func TestFindDefinitions_DefaultPoolRunsConcurrently(t *testing.T) {
	engine, logger := newTestEngine(DefaultWorkers, DefaultChunkSize)

	matches, err := engine.FindDefinitions(context.Background(), wellsFargoRows(500))
	require.NoError(t, err)
	assert.Equal(t, []registry.Key{registry.WellsFargo}, matches)
	assert.True(t, logger.HasEntry("DEBUG", "Concurrent processing completed"))
}

func TestFindDefinitions_AllMatchesInRegistryOrder(t *testing.T) {
	for _, workers := range []int{1, 2, 7} {
		engine, _ := newTestEngine(workers, 1)

		matches, err := engine.FindDefinitions(context.Background(), ambiguousRows())
		require.NoError(t, err)
		assert.Equal(t, []registry.Key{registry.Chase, registry.Discover}, matches, "workers=%d", workers)
	}
}

func TestFindDefinitions_VacuousInput(t *testing.T) {
	engine, _ := newTestEngine(4, 2)

	matches, err := engine.FindDefinitions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// A lone header leaves header definitions with no data rows.
	matches, err = engine.FindDefinitions(context.Background(), ambiguousRows()[:1])
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindDefinitions_OneBadRowRejects(t *testing.T) {
	engine, _ := newTestEngine(4, 2)
	rows := wellsFargoRows(10)
	rows[7][1] = "not a number"

	matches, err := engine.FindDefinitions(context.Background(), rows)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindDefinitions_Cancelled(t *testing.T) {
	engine, _ := newTestEngine(4, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.FindDefinitions(ctx, wellsFargoRows(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAll_PreservesOrder(t *testing.T) {
	rows := wellsFargoRows(301)

	sequential, _ := newTestEngine(1, 1000)
	want, err := sequential.ParseAll(context.Background(), rows, registry.WellsFargo)
	require.NoError(t, err)
	require.Len(t, want, 301)

	for _, chunk := range []int{1, 7, 64} {
		engine, _ := newTestEngine(4, chunk)
		got, err := engine.ParseAll(context.Background(), rows, registry.WellsFargo)
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk=%d", chunk)
	}

	assert.Equal(t, "SHOP 0", want[0].Description)
	assert.Equal(t, 0.25, want[0].Amount)
	assert.Equal(t, "SHOP 300", want[300].Description)
	assert.Equal(t, 300.25, want[300].Amount)
}

func TestParseAll_ReportsLowestFailingRow(t *testing.T) {
	rows := wellsFargoRows(200)
	rows[150][0] = ""
	rows[40][1] = "oops"
	rows[180][4] = ""

	for _, workers := range []int{1, 4} {
		engine, _ := newTestEngine(workers, 8)
		got, err := engine.ParseAll(context.Background(), rows, registry.WellsFargo)
		require.Error(t, err)
		assert.Nil(t, got)

		var rowErr *parsererror.RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 40, rowErr.Row)
		assert.Equal(t, string(registry.WellsFargo), rowErr.Definition)

		var castErr *parsererror.CastError
		assert.ErrorAs(t, err, &castErr)
	}
}

func TestParseAll_RowIndexCountsHeader(t *testing.T) {
	engine, _ := newTestEngine(2, 1)
	rows := []models.Row{
		{"Trans. Date", "Post Date", "Description", "Amount", "Category"},
		{"01/15/2024", "01/16/2024", "TARGET", "32.10", "Merchandise"},
		{"", "01/16/2024", "TARGET", "1.00", ""},
	}

	_, err := engine.ParseAll(context.Background(), rows, registry.Discover)
	var rowErr *parsererror.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)

	var reqErr *parsererror.RequiredFieldError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Date", reqErr.Role)
}

func TestParseAll_UnknownDefinition(t *testing.T) {
	engine, _ := newTestEngine(2, 2)
	_, err := engine.ParseAll(context.Background(), wellsFargoRows(1), "nope")

	var unknown *parsererror.UnknownDefinitionError
	assert.ErrorAs(t, err, &unknown)
}

func TestParseAll_LogsSummary(t *testing.T) {
	engine, logger := newTestEngine(2, 2)
	_, err := engine.ParseAll(context.Background(), wellsFargoRows(5), registry.WellsFargo)
	require.NoError(t, err)
	assert.True(t, logger.HasEntry("INFO", "Parsed rows"))
}

const wellsFargoCSV = `"01/15/2024","-45.67","*","","GROCERY STORE"
"01/16/2024","-12.00","*","","COFFEE"
"01/15/2024","-45.67","*","","GROCERY STORE"
`

func TestImport_StoresAndCountsDuplicates(t *testing.T) {
	engine, _ := newTestEngine(2, 1)
	sink := &store.MockExpenseStore{}
	src := common.NewRowReader(',', logging.NewMockLogger())

	res, err := engine.Import(context.Background(), strings.NewReader(wellsFargoCSV), "wf.csv", src, sink, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, registry.WellsFargo, res.Definition)
	assert.Equal(t, []registry.Key{registry.WellsFargo}, res.Matches)
	assert.Equal(t, 2, res.Stored)
	assert.Equal(t, 1, res.Duplicates)
	assert.Len(t, sink.Expenses, 2)
	assert.Equal(t, 45.67, sink.Expenses[0].Amount)
}

func TestImport_DryRun(t *testing.T) {
	engine, _ := newTestEngine(2, 1)
	sink := &store.MockExpenseStore{}
	src := common.NewRowReader(',', nil)

	res, err := engine.Import(context.Background(), strings.NewReader(wellsFargoCSV), "wf.csv", src, sink, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, res.Expenses, 3)
	assert.Empty(t, sink.Expenses)
}

func TestImport_Ambiguous(t *testing.T) {
	engine, _ := newTestEngine(2, 1)
	input := "Date,Posted,Description,Col3,Col4,Col5\n01/15/2024,x,SHOP,12.00,Food,-12.00\n"
	src := common.NewRowReader(',', nil)

	_, err := engine.Import(context.Background(), strings.NewReader(input), "both.csv", src, &store.MockExpenseStore{}, ImportOptions{})
	var amb *AmbiguousMatchError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []registry.Key{registry.Chase, registry.Discover}, amb.Candidates)

	res, err := engine.Import(context.Background(), strings.NewReader(input), "both.csv", src, &store.MockExpenseStore{},
		ImportOptions{Definition: registry.Discover})
	require.NoError(t, err)
	assert.Equal(t, 12.0, res.Expenses[0].Amount)
}

func TestImport_NoMatch(t *testing.T) {
	engine, _ := newTestEngine(2, 1)
	src := common.NewRowReader(',', nil)

	_, err := engine.Import(context.Background(), strings.NewReader("hello,world\n"), "x.csv", src, nil, ImportOptions{})
	assert.ErrorIs(t, err, ErrNoMatchingDefinition)
}

func TestImport_FormatError(t *testing.T) {
	engine, _ := newTestEngine(2, 1)
	src := common.NewRowReader(',', nil)

	_, err := engine.Import(context.Background(), strings.NewReader("a,\"b\n"), "bad.csv", src, nil, ImportOptions{})
	var fe *parsererror.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestImport_SinkError(t *testing.T) {
	engine, _ := newTestEngine(2, 1)
	boom := errors.New("disk full")
	sink := &store.MockExpenseStore{AddError: boom}
	src := common.NewRowReader(',', nil)

	_, err := engine.Import(context.Background(), strings.NewReader(wellsFargoCSV), "wf.csv", src, sink, ImportOptions{})
	assert.ErrorIs(t, err, boom)
}
