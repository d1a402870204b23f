// Package models provides the data structures shared by the statement
// engine, the expense store and the exporters.
package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one record of a delimited-text file: raw cells, zero-indexed,
// without type information.
type Row []string

// Expense is a normalized statement record. Positive amounts are money
// spent, negative amounts are income. Date is always midnight UTC.
// ID is assigned by the store, never by the parser.
type Expense struct {
	ID          string    `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Amount      float64   `json:"amount" yaml:"amount"`
	Tags        []string  `json:"tags" yaml:"tags,omitempty"`
	Date        time.Time `json:"date" yaml:"date"`
}

// AddTag inserts tag keeping Tags sorted and free of duplicates. Empty
// tags are ignored.
func (e *Expense) AddTag(tag string) {
	if tag == "" {
		return
	}
	i := sort.SearchStrings(e.Tags, tag)
	if i < len(e.Tags) && e.Tags[i] == tag {
		return
	}
	e.Tags = append(e.Tags, "")
	copy(e.Tags[i+1:], e.Tags[i:])
	e.Tags[i] = tag
}

// HasTag reports whether tag is present.
func (e Expense) HasTag(tag string) bool {
	i := sort.SearchStrings(e.Tags, tag)
	return i < len(e.Tags) && e.Tags[i] == tag
}

// AmountDecimal returns the amount as a decimal for exact summing.
func (e Expense) AmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(e.Amount)
}

// IsIncome reports whether the record is money received.
func (e Expense) IsIncome() bool {
	return e.Amount < 0
}
