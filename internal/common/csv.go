// Package common provides the delimited-text reading and writing shared by
// the engine and the commands.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikcich/ExpenseTrackerV2/internal/currencyutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/dateutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"
	"github.com/nikcich/ExpenseTrackerV2/internal/parsererror"

	"github.com/gocarina/gocsv"
)

const utf8BOM = "\ufeff"

// ReadRows tokenizes r into rows. Quoting follows RFC 4180; rows may have
// different lengths and blank lines are skipped. Malformed input is a
// *parsererror.FormatError naming source and the offending line.
func ReadRows(r io.Reader, delimiter rune, source string) ([]models.Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		fe := &parsererror.FormatError{Source: source, Err: err}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			fe.Line = pe.Line
			fe.Err = pe.Err
		}
		return nil, fe
	}

	rows := make([]models.Row, len(records))
	for i, rec := range records {
		rows[i] = models.Row(rec)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

// RowReader reads rows with a fixed delimiter.
type RowReader struct {
	Delimiter rune
	logger    logging.Logger
}

// NewRowReader returns a RowReader. A zero delimiter means ','.
func NewRowReader(delimiter rune, logger logging.Logger) *RowReader {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RowReader{Delimiter: delimiter, logger: logger}
}

// ReadRows tokenizes r, see ReadRows.
func (rr *RowReader) ReadRows(r io.Reader, source string) ([]models.Row, error) {
	rows, err := ReadRows(r, rr.Delimiter, source)
	if err != nil {
		rr.logger.WithError(err).Error("Failed to read delimited text",
			logging.Field{Key: logging.FieldFile, Value: source})
		return nil, err
	}
	rr.logger.Debug("Read rows",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(rr.Delimiter)})
	return rows, nil
}

// expenseRow is the CSV export layout. Its column order is what the
// migration export definition reads back.
type expenseRow struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Tags        string `csv:"Tags"`
}

func toExpenseRows(expenses []models.Expense, tagSeparator string) []*expenseRow {
	rows := make([]*expenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, &expenseRow{
			ID:          e.ID,
			Date:        dateutils.ToISODate(e.Date),
			Description: e.Description,
			Amount:      currencyutils.FormatFloat(e.Amount),
			Tags:        strings.Join(e.Tags, tagSeparator),
		})
	}
	return rows
}

// WriteExpenses writes expenses as CSV with the header
// ID,Date,Description,Amount,Tags.
func WriteExpenses(w io.Writer, expenses []models.Expense, tagSeparator string) error {
	if expenses == nil {
		return fmt.Errorf("cannot write nil expenses to CSV")
	}
	csvWriter := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if err := gocsv.MarshalCSV(toExpenseRows(expenses, tagSeparator), csvWriter); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteExpensesToCSV writes expenses to csvFile, creating its directory
// when needed.
func WriteExpensesToCSV(expenses []models.Expense, csvFile, tagSeparator string) error {
	log := logging.GetLogger()
	log.Info("Writing expenses to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(expenses)})

	if expenses == nil {
		return fmt.Errorf("cannot write nil expenses to CSV")
	}

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- path chosen by the user
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteExpenses(file, expenses, tagSeparator); err != nil {
		log.WithError(err).Error("Failed to marshal expenses to CSV")
		return err
	}

	log.Info("Successfully wrote expenses to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(expenses)})
	return nil
}
