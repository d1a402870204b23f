package definition

import "github.com/nikcich/ExpenseTrackerV2/internal/models"

// Validate reports whether row satisfies every primary column and every
// required auxiliary column. Values are parsed and discarded; Parse casts
// them again. A false result is the expected outcome for a row that
// belongs to another format, so it is never an error.
func (d Definition) Validate(row models.Row) bool {
	for _, col := range d.Primary {
		if !columnValid(row, col) {
			return false
		}
	}
	for _, col := range d.Auxiliary {
		if col.Required && !columnValid(row, col) {
			return false
		}
	}
	return true
}

// ValidateAll reports whether every row validates. An empty slice is not
// valid: a file with no data rows cannot identify a format.
func (d Definition) ValidateAll(rows []models.Row) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if !d.Validate(row) {
			return false
		}
	}
	return true
}

func columnValid(row models.Row, col Column) bool {
	cell, present := col.cell(row)
	if !present {
		return !col.Required
	}
	if cell == "" {
		return !col.Required
	}
	_, err := Cast(cell, col.Type, col.Required)
	return err == nil
}
