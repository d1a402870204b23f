// Package definition holds the declarative column model of a bank
// statement format and the two passes run over its rows: validation,
// which only answers whether a row fits, and transformation, which turns
// a row into a models.Expense.
//
// A Definition is policy data. Supporting a new institution means writing
// a new Definition value; the caster, validator and transformer never
// change for it.
package definition

import "github.com/nikcich/ExpenseTrackerV2/internal/models"

// Definition describes one statement layout.
//
// Primary columns are ordered; their values flow into the output record.
// Auxiliary columns are side inputs consulted while resolving another
// role (credit amount, credit/debit indicator, currency-specific amount)
// and are never emitted on their own.
type Definition struct {
	Name      string
	HasHeader bool
	Primary   []Column
	Auxiliary []Column
}

// New builds a Definition. The column slices are copied.
func New(name string, hasHeader bool, primary []Column, auxiliary ...Column) Definition {
	return Definition{
		Name:      name,
		HasHeader: hasHeader,
		Primary:   append([]Column(nil), primary...),
		Auxiliary: append([]Column(nil), auxiliary...),
	}
}

// PrimaryColumn returns the first primary column with role.
func (d Definition) PrimaryColumn(role Role) (Column, bool) {
	return findColumn(d.Primary, role)
}

// AuxiliaryColumn returns the first auxiliary column with role.
func (d Definition) AuxiliaryColumn(role Role) (Column, bool) {
	return findColumn(d.Auxiliary, role)
}

// DataRows strips the header row when the definition declares one.
func (d Definition) DataRows(rows []models.Row) []models.Row {
	if d.HasHeader {
		if len(rows) == 0 {
			return nil
		}
		return rows[1:]
	}
	return rows
}

// FirstDataRow is the file index of the first row after the header.
func (d Definition) FirstDataRow() int {
	if d.HasHeader {
		return 1
	}
	return 0
}

func findColumn(cols []Column, role Role) (Column, bool) {
	for _, c := range cols {
		if c.Role == role {
			return c, true
		}
	}
	return Column{}, false
}
