// Package registry is the catalog of supported statement layouts. It is
// built once on first use and never mutated afterwards.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nikcich/ExpenseTrackerV2/internal/dateutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/definition"
	"github.com/nikcich/ExpenseTrackerV2/internal/parsererror"
)

// Key identifies a registered definition. The set is closed.
type Key string

const (
	MigrationExport Key = "migration_export"
	WellsFargo      Key = "wells_fargo"
	CapitalOne      Key = "capital_one"
	Chase           Key = "chase"
	Discover        Key = "discover"
	NavyFederal     Key = "navy_federal"
	MaxCard         Key = "max_card"
)

// TagSeparator splits the Tags column of the migration export.
const TagSeparator = ";"

var order = []Key{
	MigrationExport,
	WellsFargo,
	CapitalOne,
	Chase,
	Discover,
	NavyFederal,
	MaxCard,
}

var (
	once        sync.Once
	definitions map[Key]definition.Definition
)

func build() map[Key]definition.Definition {
	iso := definition.Date(dateutils.DateLayoutISO)
	us := definition.Date(dateutils.DateLayoutUS)
	text := definition.String()

	return map[Key]definition.Definition{
		// Our own CSV export (ID,Date,Description,Amount,Tags), so that an
		// export can be imported again. The ID column is not read.
		MigrationExport: definition.New("Migration Export", true, []definition.Column{
			definition.Required(definition.RoleDate, 1, iso),
			definition.Required(definition.RoleDescription, 2, text),
			definition.Required(definition.RoleAmount, 3, definition.Float(definition.Standard)),
			definition.Optional(definition.RoleTag, 4, text).WithArg(definition.ArgSeparator, TagSeparator),
		}),

		// "01/15/2024","-45.67","*","","GROCERY STORE"
		WellsFargo: definition.New("Wells Fargo", false, []definition.Column{
			definition.Required(definition.RoleDate, 0, us),
			definition.Required(definition.RoleAmount, 1, definition.Float(definition.Inverted)),
			definition.Required(definition.RoleDescription, 4, text),
		}),

		// Transaction Date,Posted Date,Card No.,Description,Category,Debit,Credit
		CapitalOne: definition.New("Capital One", true,
			[]definition.Column{
				definition.Required(definition.RoleDate, 0, iso),
				definition.Required(definition.RoleDescription, 3, text),
				definition.Optional(definition.RoleTag, 4, text),
				definition.Optional(definition.RoleAmount, 5, definition.Float(definition.Standard)),
			},
			definition.Optional(definition.RoleCreditAmount, 6, definition.Float(definition.Inverted)),
		),

		// Transaction Date,Post Date,Description,Category,Type,Amount,Memo
		Chase: definition.New("Chase", true, []definition.Column{
			definition.Required(definition.RoleDate, 0, us),
			definition.Required(definition.RoleDescription, 2, text),
			definition.Optional(definition.RoleTag, 3, text),
			definition.Required(definition.RoleAmount, 5, definition.Float(definition.Inverted)),
		}),

		// Trans. Date,Post Date,Description,Amount,Category
		Discover: definition.New("Discover", true, []definition.Column{
			definition.Required(definition.RoleDate, 0, us),
			definition.Required(definition.RoleDescription, 2, text),
			definition.Required(definition.RoleAmount, 3, definition.Float(definition.Standard)),
			definition.Optional(definition.RoleTag, 4, text),
		}),

		// Posting Date,Transaction Date,Amount,Credit Debit Indicator,type,
		// Type Group,Reference,Instructed Currency,Currency Exchange Rate,
		// Instructed Amount,Description,Category,Check Serial Number,Card Ending
		NavyFederal: definition.New("Navy Federal", true,
			[]definition.Column{
				definition.Required(definition.RoleDate, 1, us),
				definition.Required(definition.RoleAmount, 2, definition.Float(definition.Standard)),
				definition.Required(definition.RoleDescription, 10, text),
				definition.Optional(definition.RoleTag, 11, text),
			},
			definition.Required(definition.RoleCreditDebitIndicator, 3, text).
				WithArg(definition.ArgQuery, "Credit"),
		),

		// Max exports charges in shekels; rows billed in dollars carry the
		// dollar amount in the last column, when the bank fills it in.
		MaxCard: definition.New("Max", true,
			[]definition.Column{
				definition.Required(definition.RoleDate, 0, definition.Date(dateutils.DateLayoutDayFirst)),
				definition.Required(definition.RoleDescription, 1, text),
				definition.Optional(definition.RoleTag, 2, text),
				definition.Required(definition.RoleAmount, 5, definition.Float(definition.Standard)),
				definition.Required(definition.RoleCurrency, 6, text).
					WithArg(definition.ArgQuery, definition.DefaultCurrencyMarker).
					WithArg(definition.ArgConversionDivisor, "3.7"),
			},
			definition.Optional(definition.RoleAmount, 7, definition.Float(definition.Standard)),
		),
	}
}

func catalog() map[Key]definition.Definition {
	once.Do(func() {
		definitions = build()
	})
	return definitions
}

// Keys returns every registered key in registry order.
func Keys() []Key {
	return append([]Key(nil), order...)
}

// Get returns the definition registered under key.
func Get(key Key) (definition.Definition, error) {
	def, ok := catalog()[key]
	if !ok {
		return definition.Definition{}, &parsererror.UnknownDefinitionError{Key: string(key)}
	}
	return def, nil
}

// Entry pairs a key with its definition.
type Entry struct {
	Key        Key
	Definition definition.Definition
}

// All returns every registered definition in registry order.
func All() []Entry {
	defs := catalog()
	out := make([]Entry, 0, len(order))
	for _, k := range order {
		out = append(out, Entry{Key: k, Definition: defs[k]})
	}
	return out
}

// ParseKey resolves a key given on the command line. Matching ignores
// case and accepts '-' in place of '_'.
func ParseKey(s string) (Key, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, k := range order {
		if string(k) == norm {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w (known: %s)", &parsererror.UnknownDefinitionError{Key: s}, joinKeys(order))
}

func joinKeys(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func (k Key) String() string {
	return string(k)
}
