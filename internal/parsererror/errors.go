// Package parsererror holds the typed errors returned while reading,
// validating and transforming statement files. Callers inspect them with
// errors.As; a definition simply not matching a row is never an error.
package parsererror

import "fmt"

// FormatError reports that the underlying bytes are not well-formed
// delimited text. It is fatal for the whole matching or parsing operation.
type FormatError struct {
	Source string
	Line   int
	Err    error
}

func (e *FormatError) Error() string {
	source := e.Source
	if source == "" {
		source = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("malformed delimited text in %s at line %d: %v", source, e.Line, e.Err)
	}
	return fmt.Sprintf("malformed delimited text in %s: %v", source, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// RequiredFieldError reports a required role whose cell is missing or
// empty. It usually means the chosen definition does not fit the file.
type RequiredFieldError struct {
	Definition string
	Role       string
	Column     int
	Missing    bool // the row is shorter than Column
}

func (e *RequiredFieldError) Error() string {
	var msg string
	if e.Missing {
		msg = fmt.Sprintf("column %d is missing for required role %s", e.Column, e.Role)
	} else {
		msg = fmt.Sprintf("column value is an empty string for required role %s", e.Role)
	}
	if e.Definition != "" {
		return e.Definition + ": " + msg
	}
	return msg
}

// CastError reports a present value that cannot be converted to the
// column's declared data type.
type CastError struct {
	Definition string
	Role       string
	Column     int
	Value      string
	DataType   string
	Err        error
}

func (e *CastError) Error() string {
	msg := fmt.Sprintf("failed to cast %s='%s' (column %d) as %s: %v",
		e.Role, e.Value, e.Column, e.DataType, e.Err)
	if e.Definition != "" {
		return e.Definition + ": " + msg
	}
	return msg
}

func (e *CastError) Unwrap() error {
	return e.Err
}

// InternalInvariantError signals a misconfigured definition rather than a
// bad input file, e.g. an amount that never resolved to a number.
type InternalInvariantError struct {
	Definition string
	Role       string
	Reason     string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("definition %q violates an internal invariant on role %s: %s",
		e.Definition, e.Role, e.Reason)
}

// RowError locates a record-level failure inside a file.
type RowError struct {
	Definition string
	Row        int // zero-based index in the file, header included
	Err        error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("definition %s, row %d: %v", e.Definition, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// UnknownDefinitionError is returned when a caller names a definition key
// that is not registered.
type UnknownDefinitionError struct {
	Key string
}

func (e *UnknownDefinitionError) Error() string {
	return fmt.Sprintf("unknown definition: %s", e.Key)
}

// InvalidFormatError represents an input file rejected before any row is
// read, for example because of its extension.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
