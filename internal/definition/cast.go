package definition

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nikcich/ExpenseTrackerV2/internal/dateutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/textutils"
)

// ErrNotFinite is returned when a Float cell parses to an infinity or NaN,
// which only malformed or overflowing input can produce.
var ErrNotFinite = errors.New("value is not a finite number")

// Value is the typed result of casting a cell. Only the field matching
// Kind is set.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Date time.Time
}

// IsEmpty reports whether v carries no usable value: an empty string or a
// NaN float.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindFloat:
		return math.IsNaN(v.Num)
	case KindDate:
		return v.Date.IsZero()
	default:
		return v.Str == ""
	}
}

// Normalize collapses whitespace runs and trims the cell. Every cell goes
// through it before it is checked or cast.
func Normalize(raw string) string {
	return textutils.NormalizeWhitespace(raw)
}

// Cast converts a raw cell under dt. It has no side effects. An empty cell
// in an optional Float column yields NaN, which callers must treat as
// "no value".
func Cast(raw string, dt DataType, required bool) (Value, error) {
	cell := Normalize(raw)

	switch dt.Kind {
	case KindString:
		return Value{Kind: KindString, Str: cell}, nil

	case KindFloat:
		if cell == "" && !required {
			return Value{Kind: KindFloat, Num: math.NaN()}, nil
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
				return Value{}, fmt.Errorf("%w: %q overflows float64", ErrNotFinite, cell)
			}
			return Value{}, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{}, ErrNotFinite
		}
		if dt.Sign == Inverted {
			f = -f
		}
		return Value{Kind: KindFloat, Num: f}, nil

	case KindDate:
		d, err := dateutils.ParseDay(dt.Layout, cell)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDate, Date: d}, nil

	default:
		return Value{}, fmt.Errorf("unsupported data type kind %d", dt.Kind)
	}
}
