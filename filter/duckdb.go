package filter

import (
	"strconv"
	"strings"
)

// DuckDBEncoder encodes predicates to DuckDB SQL syntax.
//
// Null handling follows the in-process evaluator: negated predicates
// keep null cells, so NEQ encodes as IS DISTINCT FROM and NOT IN adds
// an IS NULL alternative. Plain <>/NOT IN would drop null rows.
type DuckDBEncoder struct {
	opts *EncoderOptions
}

// NewDuckDBEncoder creates a new DuckDB SQL encoder.
// If opts is nil, default options are used.
func NewDuckDBEncoder(opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{opts: opts}
}

// EncodeSet converts all predicates to a WHERE clause body.
// Returns the condition portion without the "WHERE" keyword.
// Returns empty string for an empty set.
func (e *DuckDBEncoder) EncodeSet(s Set) string {
	if len(s) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s))
	for _, p := range s {
		encoded := e.Encode(p)
		if encoded != "" {
			parts = append(parts, encoded)
		}
	}

	if len(parts) == 0 {
		return ""
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return "(" + strings.Join(parts, ") AND (") + ")"
}

// Encode converts a single predicate to a SQL condition.
// Returns empty string for an unknown operator.
func (e *DuckDBEncoder) Encode(p Predicate) string {
	col := e.encodeColumn(p.Column)

	switch p.Op {
	case OpEqual:
		return col + " = " + e.formatValue(p.Value)
	case OpNotEqual:
		return col + " IS DISTINCT FROM " + e.formatValue(p.Value)
	case OpGreaterThan:
		return col + " > " + e.formatValue(p.Value)
	case OpLessThan:
		return col + " < " + e.formatValue(p.Value)
	case OpIn:
		return col + " IN (" + e.formatValues(p.Values) + ")"
	case OpNotIn:
		return "(" + col + " NOT IN (" + e.formatValues(p.Values) + ") OR " + col + " IS NULL)"
	default:
		return ""
	}
}

// encodeColumn resolves the SQL form of a column reference.
func (e *DuckDBEncoder) encodeColumn(name string) string {
	// Check for expression mapping first (takes precedence)
	if e.opts.ColumnExpressions != nil {
		if expr, ok := e.opts.ColumnExpressions[name]; ok {
			return expr
		}
	}

	// Check for name mapping
	if e.opts.ColumnMapping != nil {
		if mapped, ok := e.opts.ColumnMapping[name]; ok {
			name = mapped
		}
	}

	return QuoteIdentifier(name)
}

// formatValue formats an operand as a SQL literal.
func (e *DuckDBEncoder) formatValue(v Value) string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return QuoteLiteral(v.Raw)
	}
}

// formatValues formats a membership list as comma-separated literals.
func (e *DuckDBEncoder) formatValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = e.formatValue(v)
	}
	return strings.Join(parts, ", ")
}
