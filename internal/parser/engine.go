package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"
	"github.com/nikcich/ExpenseTrackerV2/internal/parsererror"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"
	"github.com/nikcich/ExpenseTrackerV2/internal/store"
)

// Engine matches files against the registered definitions and transforms
// their rows. It holds no per-file state and is safe for concurrent use.
type Engine struct {
	BaseParser
	processor *ConcurrentProcessor
	entries   []registry.Entry
}

// NewEngine creates an Engine over every registered definition.
func NewEngine(logger logging.Logger, workers, chunkSize int) *Engine {
	base := NewBaseParser(logger)
	return &Engine{
		BaseParser: base,
		processor:  NewConcurrentProcessor(base.logger, workers, chunkSize),
		entries:    registry.All(),
	}
}

// FindDefinitions returns, in registry order, the key of every definition
// whose layout each data row satisfies. Header rows are skipped for the
// definitions that declare one. An empty result means the file is not
// recognized; it is not an error.
func (e *Engine) FindDefinitions(ctx context.Context, rows []models.Row) ([]registry.Key, error) {
	start := time.Now()
	local := make([][]registry.Key, len(e.processor.partition(len(e.entries))))

	err := e.processor.RunPartitioned(ctx, len(e.entries), func(ctx context.Context, chunk int, s span) error {
		for _, entry := range e.entries[s.lo:s.hi] {
			if err := ctx.Err(); err != nil {
				return err
			}
			def := entry.Definition
			if def.ValidateAll(def.DataRows(rows)) {
				local[chunk] = append(local[chunk], entry.Key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var matches []registry.Key
	for _, keys := range local {
		matches = append(matches, keys...)
	}

	e.logger.Debug("Definition matching completed",
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldMatches, Value: matches},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start)})

	return matches, nil
}

// ParseAll transforms every data row of rows with the definition under
// key. Expenses come back in row order. When rows fail, the error of the
// lowest failing row is returned, wrapped in a *parsererror.RowError, and
// no expenses are returned.
func (e *Engine) ParseAll(ctx context.Context, rows []models.Row, key registry.Key) ([]models.Expense, error) {
	def, err := registry.Get(key)
	if err != nil {
		return nil, err
	}

	data := def.DataRows(rows)
	offset := def.FirstDataRow()
	out := make([]models.Expense, len(data))
	spans := e.processor.chunks(len(data))
	failures := make([]error, len(spans))

	// Lowest failing row seen so far; chunks starting after it are skipped.
	var lowest atomic.Int64
	lowest.Store(math.MaxInt64)

	err = e.processor.Run(ctx, len(data), func(ctx context.Context, chunk int, s span) error {
		if int64(s.lo) > lowest.Load() {
			return nil
		}
		for i := s.lo; i < s.hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			exp, err := def.Parse(data[i])
			if err != nil {
				failures[chunk] = &parsererror.RowError{Definition: string(key), Row: i + offset, Err: err}
				lowerTo(&lowest, int64(i))
				return nil
			}
			out[i] = exp
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, f := range failures {
		if f != nil {
			e.logger.WithError(f).Error("Failed to parse row",
				logging.Field{Key: logging.FieldDefinition, Value: string(key)})
			return nil, f
		}
	}

	e.logger.Info("Parsed rows",
		logging.Field{Key: logging.FieldDefinition, Value: string(key)},
		logging.Field{Key: logging.FieldCount, Value: len(out)},
		logging.Field{Key: logging.FieldChunks, Value: len(spans)})

	return out, nil
}

func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// ImportResult summarizes one import.
type ImportResult struct {
	Source     string
	Definition registry.Key
	Matches    []registry.Key
	Expenses   []models.Expense
	Results    []store.AddResult
	Stored     int
	Duplicates int
}

// AmbiguousMatchError is returned by Import when several definitions fit
// the file and none was chosen.
type AmbiguousMatchError struct {
	Source     string
	Candidates []registry.Key
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s matches %d definitions %v; choose one explicitly", e.Source, len(e.Candidates), e.Candidates)
}

// ErrNoMatchingDefinition is returned by Import when no definition fits.
var ErrNoMatchingDefinition = errors.New("no matching definition found")

// ImportOptions tune Import. A zero Definition means "detect it".
type ImportOptions struct {
	Definition registry.Key
	DryRun     bool
}

// Import reads r through src, resolves the definition, parses every row and
// hands the expenses to sink. With DryRun the sink is not called and every
// expense is reported as parsed only.
func (e *Engine) Import(ctx context.Context, r io.Reader, source string, src RowSource, sink Sink, opts ImportOptions) (*ImportResult, error) {
	rows, err := src.ReadRows(r, source)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Source: source, Definition: opts.Definition}
	if res.Definition == "" {
		matches, err := e.FindDefinitions(ctx, rows)
		if err != nil {
			return nil, err
		}
		res.Matches = matches
		switch len(matches) {
		case 0:
			return res, fmt.Errorf("%s: %w", source, ErrNoMatchingDefinition)
		case 1:
			res.Definition = matches[0]
		default:
			return res, &AmbiguousMatchError{Source: source, Candidates: matches}
		}
	}

	log := e.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldDefinition, Value: string(res.Definition)})

	expenses, err := e.ParseAll(ctx, rows, res.Definition)
	if err != nil {
		return res, err
	}
	res.Expenses = expenses

	if opts.DryRun || sink == nil {
		log.Info("Dry run, nothing stored", logging.Field{Key: logging.FieldCount, Value: len(expenses)})
		return res, nil
	}

	results, err := sink.AddExpenses(expenses)
	if err != nil {
		return res, fmt.Errorf("failed to store expenses: %w", err)
	}
	res.Results = results
	for _, r := range results {
		if r.Status == store.StatusDuplicate {
			res.Duplicates++
		} else {
			res.Stored++
		}
	}

	log.Info("Import completed",
		logging.Field{Key: logging.FieldStored, Value: res.Stored},
		logging.Field{Key: logging.FieldDuplicates, Value: res.Duplicates})

	return res, nil
}
