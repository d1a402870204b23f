package definition

import "github.com/nikcich/ExpenseTrackerV2/internal/models"

// ArgKind names an auxiliary argument of a column.
type ArgKind int

const (
	// ArgQuery is a literal a cell is compared against: the credit/debit
	// indicator value that flips the sign, or the currency marker that
	// redirects the amount to the auxiliary Amount column.
	ArgQuery ArgKind = iota
	// ArgConversionDivisor is the decimal the amount is divided by when a
	// currency override finds its auxiliary Amount cell empty.
	ArgConversionDivisor
	// ArgSeparator splits a Tag cell into several tags.
	ArgSeparator
)

func (k ArgKind) String() string {
	switch k {
	case ArgQuery:
		return "query"
	case ArgConversionDivisor:
		return "conversion_divisor"
	case ArgSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// DefaultCurrencyMarker is the Currency cell value that means "the real
// amount lives in the auxiliary Amount column" when a Currency column does
// not set ArgQuery.
const DefaultCurrencyMarker = "$"

// Column describes one column of a definition. Columns are values; the
// argument map is copied on every WithArg so a registered column can never
// be changed through another one.
type Column struct {
	Role     Role
	Position int
	Type     DataType
	Required bool
	args     map[ArgKind]string
}

// Required returns a required column.
func Required(role Role, position int, dt DataType) Column {
	return Column{Role: role, Position: position, Type: dt, Required: true}
}

// Optional returns an optional column.
func Optional(role Role, position int, dt DataType) Column {
	return Column{Role: role, Position: position, Type: dt}
}

// WithArg returns a copy of c carrying the argument.
func (c Column) WithArg(kind ArgKind, value string) Column {
	args := make(map[ArgKind]string, len(c.args)+1)
	for k, v := range c.args {
		args[k] = v
	}
	args[kind] = value
	c.args = args
	return c
}

// Arg returns the argument of the given kind.
func (c Column) Arg(kind ArgKind) (string, bool) {
	v, ok := c.args[kind]
	return v, ok
}

// Args returns a copy of every argument set on the column.
func (c Column) Args() map[ArgKind]string {
	out := make(map[ArgKind]string, len(c.args))
	for k, v := range c.args {
		out[k] = v
	}
	return out
}

// cell returns the normalized cell for c and whether the row is long
// enough to contain it.
func (c Column) cell(row models.Row) (string, bool) {
	if c.Position < 0 || c.Position >= len(row) {
		return "", false
	}
	return Normalize(row[c.Position]), true
}
