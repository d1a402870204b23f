// Package dateutils provides the date layouts and calendar helpers used by
// statement definitions, the store and the spending report.
package dateutils

import (
	"fmt"
	"time"

	"github.com/nikcich/ExpenseTrackerV2/internal/textutils"
)

// Layouts found in the supported statement exports.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutDayFirst = "02-01-2006"
	DateLayoutMonth    = "2006-01"
)

// StartOfDay returns midnight UTC of t's calendar date. Expense dates carry
// no time of day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses s with layout and truncates the result to midnight UTC.
// time.Parse already rejects impossible dates such as February 30.
func ParseDay(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, textutils.NormalizeWhitespace(s))
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t), nil
}

// ParseISODate parses a YYYY-MM-DD string, as accepted on the command line.
// An empty string yields the zero time.
func ParseISODate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := ParseDay(DateLayoutISO, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(DateLayoutMonth)
}

// InRange reports whether t falls between from and to, both inclusive.
// A zero bound is open.
func InRange(t, from, to time.Time) bool {
	day := StartOfDay(t)
	if !from.IsZero() && day.Before(StartOfDay(from)) {
		return false
	}
	if !to.IsZero() && day.After(StartOfDay(to)) {
		return false
	}
	return true
}

// CompareDates compares the calendar dates of date1 and date2 and returns
// -1, 0 or 1.
func CompareDates(date1, date2 time.Time) int {
	d1, d2 := StartOfDay(date1), StartOfDay(date2)
	switch {
	case d1.Before(d2):
		return -1
	case d1.After(d2):
		return 1
	default:
		return 0
	}
}
