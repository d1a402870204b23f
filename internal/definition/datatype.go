package definition

import "fmt"

// Kind selects the variant of a DataType.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindDate
)

// Sign is the sign convention of a Float column. Inverted columns are
// negated after parsing so that every definition produces expense-positive
// amounts.
type Sign int

const (
	Standard Sign = iota
	Inverted
)

func (s Sign) String() string {
	if s == Inverted {
		return "Inverted"
	}
	return "Standard"
}

// DataType is a closed tagged variant: String, Float{Sign} or Date{Layout}.
// Only the field belonging to Kind is meaningful.
type DataType struct {
	Kind   Kind
	Sign   Sign
	Layout string // Go reference-time layout, e.g. "01/02/2006"
}

// String returns the String data type.
func String() DataType {
	return DataType{Kind: KindString}
}

// Float returns a Float data type with the given sign convention.
func Float(sign Sign) DataType {
	return DataType{Kind: KindFloat, Sign: sign}
}

// Date returns a Date data type parsed with layout.
func Date(layout string) DataType {
	return DataType{Kind: KindDate, Layout: layout}
}

func (dt DataType) String() string {
	switch dt.Kind {
	case KindFloat:
		return fmt.Sprintf("Float(%s)", dt.Sign)
	case KindDate:
		return fmt.Sprintf("Date(%s)", dt.Layout)
	default:
		return "String"
	}
}

// MarshalText renders the data type in YAML and JSON output.
func (dt DataType) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}
