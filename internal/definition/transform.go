package definition

import (
	"fmt"
	"math"

	"github.com/nikcich/ExpenseTrackerV2/internal/currencyutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"
	"github.com/nikcich/ExpenseTrackerV2/internal/parsererror"
	"github.com/nikcich/ExpenseTrackerV2/internal/textutils"
)

// Parse transforms row into an Expense. Errors on required columns abort
// the record and no partial Expense is returned; failures on optional
// columns drop that role silently.
//
// The amount is resolved after the primary pass, in this order, each step
// replacing the result of the previous one:
//
//  1. credit amount: with an optional primary Amount, a castable auxiliary
//     CreditAmount cell replaces the amount;
//  2. credit/debit flip: with a required primary Amount, an auxiliary
//     CreditDebitIndicator equal to its query literal negates the amount;
//  3. currency override: a Currency cell equal to its marker takes the
//     auxiliary Amount cell, or rescales the amount by the conversion
//     divisor when that cell is empty.
//
// An amount that is still NaN afterwards means the definition's wiring is
// incomplete and is reported as an InternalInvariantError.
func (d Definition) Parse(row models.Row) (models.Expense, error) {
	var (
		exp         models.Expense
		amount      = math.NaN()
		currency    string
		hasCurrency bool
	)

	for _, col := range d.Primary {
		v, ok, err := d.read(row, col)
		if err != nil {
			return models.Expense{}, err
		}
		if !ok {
			continue
		}

		switch col.Role {
		case RoleDate:
			exp.Date = v.Date
		case RoleDescription:
			exp.Description = v.Str
		case RoleAmount:
			amount = v.Num
		case RoleTag:
			sep, _ := col.Arg(ArgSeparator)
			for _, tag := range textutils.SplitNonEmpty(v.Str, sep) {
				exp.AddTag(tag)
			}
		case RoleCurrency:
			currency = v.Str
			hasCurrency = true
		}
	}

	amount, err := d.resolveAmount(row, amount, currency, hasCurrency)
	if err != nil {
		return models.Expense{}, err
	}
	exp.Amount = amount

	return exp, nil
}

func (d Definition) resolveAmount(row models.Row, amount float64, currency string, hasCurrency bool) (float64, error) {
	amountCol, hasAmount := d.PrimaryColumn(RoleAmount)

	if credit, ok := d.AuxiliaryColumn(RoleCreditAmount); ok && hasAmount && !amountCol.Required {
		v, present, err := d.read(row, credit)
		if err != nil {
			return 0, err
		}
		if present && !v.IsEmpty() {
			amount = v.Num
		}
	}

	if indicator, ok := d.AuxiliaryColumn(RoleCreditDebitIndicator); ok && hasAmount && amountCol.Required {
		query, ok := indicator.Arg(ArgQuery)
		if !ok {
			return 0, d.invariant(RoleCreditDebitIndicator, "no query literal is configured")
		}
		v, present, err := d.read(row, indicator)
		if err != nil {
			return 0, err
		}
		if present && v.Str == query {
			amount = -amount
		}
	}

	if hasCurrency {
		currencyCol, _ := d.PrimaryColumn(RoleCurrency)
		marker, ok := currencyCol.Arg(ArgQuery)
		if !ok {
			marker = DefaultCurrencyMarker
		}
		if currency == marker {
			var err error
			amount, err = d.overrideCurrency(row, currencyCol, amount)
			if err != nil {
				return 0, err
			}
		}
	}

	if math.IsNaN(amount) {
		return 0, d.invariant(RoleAmount, "amount resolved to NaN: optional Amount column with no value and no fallback")
	}
	return amount, nil
}

func (d Definition) overrideCurrency(row models.Row, currencyCol Column, amount float64) (float64, error) {
	alt, ok := d.AuxiliaryColumn(RoleAmount)
	if !ok {
		return 0, d.invariant(RoleCurrency, "currency marker matched but no auxiliary Amount column is configured")
	}

	v, present, err := d.read(row, alt)
	if err != nil {
		return 0, err
	}
	if present && !v.IsEmpty() {
		return v.Num, nil
	}

	divisor, ok := currencyCol.Arg(ArgConversionDivisor)
	if !ok {
		return 0, d.invariant(RoleCurrency, "auxiliary Amount is empty and no conversion divisor is configured")
	}
	if math.IsNaN(amount) {
		return amount, nil
	}
	rescaled, err := currencyutils.Rescale(amount, divisor)
	if err != nil {
		return 0, d.invariant(RoleCurrency, fmt.Sprintf("cannot rescale amount: %v", err))
	}
	return rescaled, nil
}

// read returns the cast value of col in row. ok is false when an optional
// column is absent, empty or not castable; err is set only for required
// columns.
func (d Definition) read(row models.Row, col Column) (Value, bool, error) {
	cell, present := col.cell(row)
	if !present || cell == "" {
		if col.Required {
			return Value{}, false, &parsererror.RequiredFieldError{
				Definition: d.Name,
				Role:       col.Role.String(),
				Column:     col.Position,
				Missing:    !present,
			}
		}
		return Value{}, false, nil
	}

	v, err := Cast(cell, col.Type, col.Required)
	if err != nil {
		if col.Required {
			return Value{}, false, &parsererror.CastError{
				Definition: d.Name,
				Role:       col.Role.String(),
				Column:     col.Position,
				Value:      cell,
				DataType:   col.Type.String(),
				Err:        err,
			}
		}
		return Value{}, false, nil
	}
	return v, true, nil
}

func (d Definition) invariant(role Role, reason string) error {
	return &parsererror.InternalInvariantError{
		Definition: d.Name,
		Role:       role.String(),
		Reason:     reason,
	}
}
