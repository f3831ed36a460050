package sift

import (
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/sift-go/filter"
	"github.com/hugr-lab/sift-go/table"
)

// Mask evaluates the predicate set against every row of the table and
// returns one bool per row: true when all predicates match. Null cells
// fail positive predicates and satisfy negated ones.
func Mask(t *table.Table, set filter.Set) ([]bool, error) {
	mask := make([]bool, t.NumRows())
	for i := range mask {
		mask[i] = true
	}

	for _, p := range set {
		idx := t.ColumnIndex(p.Column)
		if idx < 0 {
			return nil, &filter.ColumnNotFoundError{Column: p.Column, Available: t.ColumnNames()}
		}
		col := t.Column(idx)
		for row := range mask {
			if mask[row] {
				mask[row] = matches(col, row, p)
			}
		}
	}
	return mask, nil
}

// Apply returns a new table holding the rows that match the set.
func Apply(t *table.Table, set filter.Set) (*table.Table, error) {
	mask, err := Mask(t, set)
	if err != nil {
		return nil, err
	}
	return t.Select(mask)
}

// matches reports whether one cell satisfies one predicate.
func matches(col arrow.Array, row int, p filter.Predicate) bool {
	if col.IsNull(row) {
		return p.Op.Negated()
	}

	switch p.Op {
	case filter.OpEqual:
		return cellEquals(col, row, p.Value)
	case filter.OpNotEqual:
		return !cellEquals(col, row, p.Value)
	case filter.OpGreaterThan:
		n, ok := cellNumber(col, row)
		if !ok {
			return false
		}
		want, _ := p.Value.Num()
		return n > want
	case filter.OpLessThan:
		n, ok := cellNumber(col, row)
		if !ok {
			return false
		}
		want, _ := p.Value.Num()
		return n < want
	case filter.OpIn:
		return cellIn(col, row, p.Values)
	case filter.OpNotIn:
		return !cellIn(col, row, p.Values)
	}
	return false
}

func cellIn(col arrow.Array, row int, values []filter.Value) bool {
	for _, v := range values {
		if cellEquals(col, row, v) {
			return true
		}
	}
	return false
}

// cellEquals compares one cell against one operand. Comparison is
// symmetric across types: a numeric operand matches a string cell whose
// text parses to the same number, and numeric operands match numeric
// cells by value, so 5 and 5.0 are equal.
func cellEquals(col arrow.Array, row int, v filter.Value) bool {
	switch src := col.(type) {
	case *array.Int64:
		switch v.Kind {
		case filter.KindInt:
			return src.Value(row) == v.Int
		case filter.KindFloat:
			return float64(src.Value(row)) == v.Float
		}
		return false
	case *array.Float64:
		if n, ok := v.Num(); ok {
			return src.Value(row) == n
		}
		return false
	case *array.String:
		if n, ok := v.Num(); ok {
			cell, ok := parseNumber(src.Value(row))
			return ok && cell == n
		}
		return src.Value(row) == v.Raw
	case *array.Boolean:
		return v.Kind == filter.KindString && v.Raw == strconv.FormatBool(src.Value(row))
	default:
		// Timestamps and other inferred types compare through their
		// formatted value, with the same numeric coercion as strings.
		if n, ok := v.Num(); ok {
			cell, ok := parseNumber(col.ValueStr(row))
			return ok && cell == n
		}
		return col.ValueStr(row) == v.Raw
	}
}

// cellNumber extracts the numeric value of a cell for ordered
// comparisons. String cells count when their text parses as a number;
// anything else is not comparable.
func cellNumber(col arrow.Array, row int) (float64, bool) {
	switch src := col.(type) {
	case *array.Int64:
		return float64(src.Value(row)), true
	case *array.Float64:
		return src.Value(row), true
	case *array.String:
		return parseNumber(src.Value(row))
	default:
		return parseNumber(col.ValueStr(row))
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
