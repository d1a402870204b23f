// Package parser runs statement definitions over whole files: it finds the
// definitions a file satisfies and transforms its rows into expenses,
// spreading the work over a bounded pool of workers.
package parser

import (
	"github.com/nikcich/ExpenseTrackerV2/internal/common"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"
)

// BaseParser carries the logger shared by the engine and its helpers.
//
// Types embed it to inherit the logger accessors:
//
//	type Engine struct {
//		BaseParser
//		// engine-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a BaseParser. A nil logger is replaced by the
// package default.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return BaseParser{logger: logger}
}

// SetLogger replaces the logger. nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// WriteToCSV writes expenses with the common CSV writer so that every
// command produces the same export layout.
func (b *BaseParser) WriteToCSV(expenses []models.Expense, csvFile, tagSeparator string) error {
	b.logger.Info("Writing expenses to CSV using common writer",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(expenses)})

	return common.WriteExpensesToCSV(expenses, csvFile, tagSeparator)
}
