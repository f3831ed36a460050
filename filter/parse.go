package filter

import "strings"

// Parse parses a single "column:expression" filter string into a Predicate.
//
// The expression decides the operator:
//
//	val          equals
//	~val         not equals
//	>val         greater than (numeric operand only)
//	<val         less than (numeric operand only)
//	v1|v2|...    in list
//	~v1|v2|...   not in list
//
// The column is everything before the first ':'; the expression is
// everything after it, so values may contain further colons. Membership
// forms are detected before the prefix operators, which is why
// "~a|b" reads as NOT IN (a, b) rather than NOT EQUAL "a|b".
//
// Error conditions:
//   - missing ':' separator, empty column, or empty operand (*ParseError)
//   - '>' or '<' with a non-numeric operand (*TypeMismatchError)
func Parse(raw string) (Predicate, error) {
	column, expr, ok := strings.Cut(raw, ":")
	if !ok {
		return Predicate{}, &ParseError{Raw: raw, Reason: "missing ':' separator"}
	}
	if column == "" {
		return Predicate{}, &ParseError{Raw: raw, Reason: "empty column name"}
	}
	if expr == "" {
		return Predicate{}, &ParseError{Raw: raw, Reason: "empty filter expression"}
	}

	if strings.Contains(expr, "|") {
		op := OpIn
		if rest, negated := strings.CutPrefix(expr, "~"); negated {
			op = OpNotIn
			expr = rest
		}
		values, err := parseList(raw, expr)
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{Column: column, Op: op, Values: values}, nil
	}

	switch {
	case strings.HasPrefix(expr, "~"):
		token := expr[1:]
		if token == "" {
			return Predicate{}, &ParseError{Raw: raw, Reason: "missing value after '~'"}
		}
		return Predicate{Column: column, Op: OpNotEqual, Value: Coerce(token)}, nil

	case strings.HasPrefix(expr, ">"):
		value, err := parseNumeric(raw, OpGreaterThan, expr[1:])
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{Column: column, Op: OpGreaterThan, Value: value}, nil

	case strings.HasPrefix(expr, "<"):
		value, err := parseNumeric(raw, OpLessThan, expr[1:])
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{Column: column, Op: OpLessThan, Value: value}, nil

	default:
		return Predicate{Column: column, Op: OpEqual, Value: Coerce(expr)}, nil
	}
}

// ParseSet parses every filter string into a Set. Parsing stops at the
// first invalid filter and returns its error.
func ParseSet(raw []string) (Set, error) {
	set := make(Set, 0, len(raw))
	for _, r := range raw {
		p, err := Parse(r)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

// parseList splits a membership expression on '|' and coerces each
// member independently, so lists may mix numbers and strings.
func parseList(raw, expr string) ([]Value, error) {
	tokens := strings.Split(expr, "|")
	values := make([]Value, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			return nil, &ParseError{Raw: raw, Reason: "empty value in list"}
		}
		values = append(values, Coerce(token))
	}
	return values, nil
}

// parseNumeric coerces a range operand and rejects non-numeric tokens.
func parseNumeric(raw string, op Operator, token string) (Value, error) {
	if token == "" {
		return Value{}, &ParseError{Raw: raw, Reason: "missing value after comparison operator"}
	}
	value := Coerce(token)
	if _, ok := value.Num(); !ok {
		return Value{}, &TypeMismatchError{Raw: raw, Op: op, Token: token}
	}
	return value, nil
}
