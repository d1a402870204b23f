// Package store persists expenses in a YAML file and acts as the sink of
// the import pipeline.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/nikcich/ExpenseTrackerV2/internal/currencyutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/dateutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Status is the outcome of adding one expense.
type Status string

const (
	StatusStored    Status = "stored"
	StatusDuplicate Status = "duplicate"
)

// AddResult reports what happened to one expense handed to AddExpenses.
type AddResult struct {
	ID     string
	Status Status
}

// ErrNotFound is returned for an unknown expense ID.
var ErrNotFound = errors.New("expense not found")

// expenseNamespace scopes the name-based expense IDs.
var expenseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/nikcich/ExpenseTrackerV2/expense"))

// ExpenseID derives the identity of an expense from its description, date
// and amount. Two imports of the same statement line yield the same ID.
func ExpenseID(e models.Expense) string {
	name := fmt.Sprintf("%s:%s:%s", e.Description, dateutils.ToISODate(e.Date), currencyutils.FormatFloat(e.Amount))
	return uuid.NewSHA1(expenseNamespace, []byte(name)).String()
}

type fileFormat struct {
	Expenses []models.Expense `yaml:"expenses"`
}

// ExpenseStore is a YAML file of expenses keyed by ID. Every mutation
// rewrites the file.
type ExpenseStore struct {
	path   string
	logger logging.Logger

	mu       sync.RWMutex
	loaded   bool
	expenses map[string]models.Expense
}

// NewExpenseStore creates a store backed by path. The file is read lazily
// and need not exist.
func NewExpenseStore(path string, logger logging.Logger) *ExpenseStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ExpenseStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file.
func (s *ExpenseStore) Path() string {
	return s.path
}

func (s *ExpenseStore) load() error {
	if s.loaded {
		return nil
	}
	s.expenses = make(map[string]models.Expense)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Expense store not found, starting empty",
				logging.Field{Key: logging.FieldFile, Value: s.path})
			s.loaded = true
			return nil
		}
		return fmt.Errorf("error reading expense store: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("error parsing expense store %s: %w", s.path, err)
	}
	for _, e := range f.Expenses {
		if e.ID == "" {
			e.ID = ExpenseID(e)
		}
		s.expenses[e.ID] = e
	}
	s.loaded = true

	s.logger.Debug("Loaded expense store",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(s.expenses)})
	return nil
}

func (s *ExpenseStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(fileFormat{Expenses: s.sorted()})
	if err != nil {
		return fmt.Errorf("error marshaling expenses: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("error writing expense store: %w", err)
	}
	return nil
}

func (s *ExpenseStore) sorted() []models.Expense {
	out := make([]models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := dateutils.CompareDates(out[i].Date, out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AddExpenses assigns IDs and stores the expenses not already present.
// Results follow the input order; an expense repeated within the batch is
// a duplicate of its first occurrence. The file is written once.
func (s *ExpenseStore) AddExpenses(expenses []models.Expense) ([]AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	results := make([]AddResult, len(expenses))
	var added []string
	for i, e := range expenses {
		e.ID = ExpenseID(e)
		if _, ok := s.expenses[e.ID]; ok {
			results[i] = AddResult{ID: e.ID, Status: StatusDuplicate}
			continue
		}
		s.expenses[e.ID] = e
		added = append(added, e.ID)
		results[i] = AddResult{ID: e.ID, Status: StatusStored}
	}

	if len(added) > 0 {
		if err := s.save(); err != nil {
			for _, id := range added {
				delete(s.expenses, id)
			}
			return nil, err
		}
	}

	s.logger.Info("Stored expenses",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldStored, Value: len(added)},
		logging.Field{Key: logging.FieldDuplicates, Value: len(expenses) - len(added)})

	return results, nil
}

// AddExpense stores one expense and reports whether it was new.
func (s *ExpenseStore) AddExpense(e models.Expense) (bool, error) {
	res, err := s.AddExpenses([]models.Expense{e})
	if err != nil {
		return false, err
	}
	return res[0].Status == StatusStored, nil
}

// GetExpense returns the expense with id.
func (s *ExpenseStore) GetExpense(id string) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return models.Expense{}, err
	}
	e, ok := s.expenses[id]
	if !ok {
		return models.Expense{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Exists reports whether id is stored.
func (s *ExpenseStore) Exists(id string) (bool, error) {
	_, err := s.GetExpense(id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// RemoveExpense deletes the expense with id.
func (s *ExpenseStore) RemoveExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	old, ok := s.expenses[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.expenses, id)
	if err := s.save(); err != nil {
		s.expenses[id] = old
		return err
	}
	return nil
}

// UpdateExpense replaces the expense stored under id. e.ID must be empty
// or equal to id; the ID is kept even if the edited fields would derive a
// different one.
func (s *ExpenseStore) UpdateExpense(id string, e models.Expense) error {
	if e.ID != "" && e.ID != id {
		return fmt.Errorf("expense ID %s does not match %s", e.ID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	old, ok := s.expenses[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.ID = id
	s.expenses[id] = e
	if err := s.save(); err != nil {
		s.expenses[id] = old
		return err
	}
	return nil
}

// All returns every stored expense ordered by date, then ID.
func (s *ExpenseStore) All() ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	return s.sorted(), nil
}

// Overwrite replaces the whole store with expenses. Missing IDs are
// derived; later entries win over earlier ones with the same ID.
func (s *ExpenseStore) Overwrite(expenses []models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]models.Expense, len(expenses))
	for _, e := range expenses {
		if e.ID == "" {
			e.ID = ExpenseID(e)
		}
		next[e.ID] = e
	}

	prev, prevLoaded := s.expenses, s.loaded
	s.expenses, s.loaded = next, true
	if err := s.save(); err != nil {
		s.expenses, s.loaded = prev, prevLoaded
		return err
	}
	return nil
}
