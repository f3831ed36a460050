package filter

import "strings"

// ParseError indicates a filter string does not match the
// "column:expression" grammar.
type ParseError struct {
	// Raw is the filter string as given on the command line.
	Raw string
	// Reason describes what is wrong with it.
	Reason string
}

func (e *ParseError) Error() string {
	return "\"" + e.Raw + "\" is not a valid column filter: " + e.Reason
}

// TypeMismatchError indicates a range operator was given a non-numeric
// operand. Greater-than and less-than comparisons only support numbers.
type TypeMismatchError struct {
	// Raw is the filter string as given on the command line.
	Raw string
	// Op is the operator that rejected the operand.
	Op Operator
	// Token is the operand that failed numeric coercion.
	Token string
}

func (e *TypeMismatchError) Error() string {
	op := ">"
	if e.Op == OpLessThan {
		op = "<"
	}
	return "\"" + e.Raw + "\": operator " + op + " requires a numeric value, got \"" + e.Token + "\""
}

// ColumnNotFoundError indicates a predicate references a column the
// input table does not have.
type ColumnNotFoundError struct {
	// Column is the missing column name.
	Column string
	// Available lists the columns the table actually has.
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return "\"" + e.Column + "\" is not a valid column (use one of: " +
		strings.Join(e.Available, ", ") + ")"
}
