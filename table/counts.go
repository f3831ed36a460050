package table

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ValueCount is one distinct value of a column and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// Counts holds the distinct-value histogram of a single column. Null
// cells are not counted and Total is the number of non-null cells, so
// proportions are Count / Total.
type Counts struct {
	Column string
	Total  int
	Values []ValueCount
}

// ValueCounts computes the distinct-value histogram of the named
// column, most frequent first. Values with equal counts are ordered by
// value so the output is deterministic.
func (t *Table) ValueCounts(column string) (*Counts, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}

	col := t.Column(idx)
	counts := make(map[string]int)
	total := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		counts[cellString(col, i)]++
		total++
	}

	values := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		values = append(values, ValueCount{Value: v, Count: n})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})

	return &Counts{Column: column, Total: total, Values: values}, nil
}

// cellString renders one cell as the string used for counting and
// display. Numeric cells use their canonical form, so 5 and 5.0 in an
// int64 column both count as "5".
func cellString(col arrow.Array, i int) string {
	switch arr := col.(type) {
	case *array.Int64:
		return strconv.FormatInt(arr.Value(i), 10)
	case *array.Float64:
		return strconv.FormatFloat(arr.Value(i), 'g', -1, 64)
	case *array.String:
		return arr.Value(i)
	case *array.Boolean:
		return strconv.FormatBool(arr.Value(i))
	default:
		return col.ValueStr(i)
	}
}
