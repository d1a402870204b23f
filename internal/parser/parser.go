package parser

import (
	"io"

	"github.com/nikcich/ExpenseTrackerV2/internal/models"
	"github.com/nikcich/ExpenseTrackerV2/internal/store"
)

// RowSource tokenizes delimited text into rows. Malformed input must be
// reported as a *parsererror.FormatError.
type RowSource interface {
	ReadRows(r io.Reader, source string) ([]models.Row, error)
}

// Sink receives finished expenses. It assigns identities and reports, per
// expense and in order, whether it was stored or already known.
type Sink interface {
	AddExpenses(expenses []models.Expense) ([]store.AddResult, error)
}
