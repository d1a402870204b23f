package definition

// Role is the semantic purpose of a column, independent of where the
// column sits in a particular file. The set is closed: the transformer's
// logic is keyed on these values.
type Role int

const (
	RoleDate Role = iota
	RoleDescription
	RoleAmount
	RoleTag
	RoleCurrency
	RoleCreditAmount
	RoleCreditDebitIndicator
)

var roleNames = [...]string{
	RoleDate:                 "Date",
	RoleDescription:          "Description",
	RoleAmount:               "Amount",
	RoleTag:                  "Tag",
	RoleCurrency:             "Currency",
	RoleCreditAmount:         "CreditAmount",
	RoleCreditDebitIndicator: "CreditDebitIndicator",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "Unknown"
	}
	return roleNames[r]
}

// MarshalText renders the role by name in YAML and JSON output.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
