package store

import (
	"sync"

	"github.com/nikcich/ExpenseTrackerV2/internal/models"
)

// MockExpenseStore is an in-memory sink for tests.
type MockExpenseStore struct {
	mu       sync.Mutex
	Expenses []models.Expense
	seen     map[string]bool

	// AddError, when set, is returned by AddExpenses.
	AddError error
}

// AddExpenses records expenses, reporting repeats as duplicates.
func (m *MockExpenseStore) AddExpenses(expenses []models.Expense) ([]AddResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AddError != nil {
		return nil, m.AddError
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}

	results := make([]AddResult, len(expenses))
	for i, e := range expenses {
		e.ID = ExpenseID(e)
		if m.seen[e.ID] {
			results[i] = AddResult{ID: e.ID, Status: StatusDuplicate}
			continue
		}
		m.seen[e.ID] = true
		m.Expenses = append(m.Expenses, e)
		results[i] = AddResult{ID: e.ID, Status: StatusStored}
	}
	return results, nil
}
