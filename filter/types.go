package filter

import (
	"strconv"
	"strings"
)

// Operator identifies the comparison a predicate applies.
type Operator string

const (
	OpEqual       Operator = "EQ"
	OpNotEqual    Operator = "NEQ"
	OpGreaterThan Operator = "GT"
	OpLessThan    Operator = "LT"
	OpIn          Operator = "IN"
	OpNotIn       Operator = "NOT_IN"
)

// Negated reports whether the operator keeps rows that do NOT match its
// operand. Null cells satisfy negated operators and fail all others.
func (op Operator) Negated() bool {
	return op == OpNotEqual || op == OpNotIn
}

// Numeric reports whether the operator requires a numeric operand.
func (op Operator) Numeric() bool {
	return op == OpGreaterThan || op == OpLessThan
}

// Kind identifies the coerced type of a filter operand.
type Kind string

const (
	KindInt    Kind = "INT"
	KindFloat  Kind = "FLOAT"
	KindString Kind = "STRING"
)

// Value is a single filter operand with its coerced form.
// The raw token is kept alongside the coerced value so evaluation can
// compare it against string cells unchanged.
type Value struct {
	// Kind is the coerced type of the operand.
	Kind Kind

	// Int holds the value when Kind is KindInt.
	Int int64

	// Float holds the value when Kind is KindFloat.
	Float float64

	// Raw is the original token as written on the command line.
	Raw string
}

// Coerce converts a raw token into a typed Value. Integer parsing is
// attempted first, then float, otherwise the token stays a string.
// Numeric parsing ignores surrounding whitespace; the raw token does not.
func Coerce(token string) Value {
	trimmed := strings.TrimSpace(token)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: i, Raw: token}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{Kind: KindFloat, Float: f, Raw: token}
	}
	return Value{Kind: KindString, Raw: token}
}

// Num returns the operand as a float64. The second return is false for
// string operands.
func (v Value) Num() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

// String returns the original token.
func (v Value) String() string { return v.Raw }

// Predicate is a single column filter: one column, one operator, and the
// operand value(s) it compares against.
type Predicate struct {
	// Column is the CSV column the predicate applies to.
	Column string

	// Op is the comparison operator.
	Op Operator

	// Value is the operand for EQ, NEQ, GT and LT predicates.
	Value Value

	// Values holds the membership list for IN and NOT_IN predicates.
	Values []Value
}

// Operands returns the operand values regardless of operator arity.
func (p Predicate) Operands() []Value {
	if len(p.Values) > 0 {
		return p.Values
	}
	return []Value{p.Value}
}

// String renders the predicate in a readable infix form, e.g.
// "YEAR > 1957" or "COLOR in [red blue]".
func (p Predicate) String() string {
	switch p.Op {
	case OpEqual:
		return p.Column + " = " + p.Value.Raw
	case OpNotEqual:
		return p.Column + " != " + p.Value.Raw
	case OpGreaterThan:
		return p.Column + " > " + p.Value.Raw
	case OpLessThan:
		return p.Column + " < " + p.Value.Raw
	case OpIn:
		return p.Column + " in " + formatList(p.Values)
	case OpNotIn:
		return p.Column + " not in " + formatList(p.Values)
	default:
		return p.Column + " " + string(p.Op)
	}
}

func formatList(values []Value) string {
	tokens := make([]string, len(values))
	for i, v := range values {
		tokens[i] = v.Raw
	}
	return "[" + strings.Join(tokens, " ") + "]"
}

// Set is an ordered conjunction of predicates. A row is kept only when
// every predicate in the set matches it.
type Set []Predicate

// Columns returns the distinct columns referenced by the set, in
// first-use order. Columns referenced by several predicates appear once.
func (s Set) Columns() []string {
	seen := make(map[string]struct{}, len(s))
	columns := make([]string, 0, len(s))
	for _, p := range s {
		if _, ok := seen[p.Column]; ok {
			continue
		}
		seen[p.Column] = struct{}{}
		columns = append(columns, p.Column)
	}
	return columns
}

// Bind verifies that every column referenced by the set exists in the
// given column list. Returns a *ColumnNotFoundError for the first
// unknown column.
func (s Set) Bind(columns []string) error {
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}
	for _, p := range s {
		if _, ok := known[p.Column]; !ok {
			return &ColumnNotFoundError{Column: p.Column, Available: columns}
		}
	}
	return nil
}
