package table

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Select returns a new table holding the rows where mask is true, in
// their original order. The mask must have exactly one entry per row.
func (t *Table) Select(mask []bool) (*Table, error) {
	if len(mask) != t.NumRows() {
		return nil, fmt.Errorf("mask length %d does not match row count %d", len(mask), t.NumRows())
	}

	indices := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return t.take(indices)
}

// Sample returns a new table holding n rows drawn uniformly without
// replacement, in their original order. When n meets or exceeds the row
// count the whole table is returned.
func (t *Table) Sample(n int, rng *rand.Rand) (*Table, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample size must not be negative, got %d", n)
	}
	if rng == nil {
		return nil, fmt.Errorf("sample requires a random source")
	}
	if n >= t.NumRows() {
		return New(t.rec), nil
	}

	indices := rng.Perm(t.NumRows())[:n]
	sort.Ints(indices)
	return t.take(indices)
}

// take builds a new table from the given row indices by appending each
// selected row into fresh column builders.
func (t *Table) take(indices []int) (*Table, error) {
	b := array.NewRecordBuilder(memory.DefaultAllocator, t.Schema())
	defer b.Release()

	for col := 0; col < t.NumCols(); col++ {
		if err := appendRows(b.Field(col), t.Column(col), indices); err != nil {
			return nil, fmt.Errorf("column %q: %w", t.Schema().Field(col).Name, err)
		}
	}

	rec := b.NewRecordBatch()
	defer rec.Release()
	return New(rec), nil
}

// appendRows copies the indexed rows of src into the builder. Common
// column types get a direct copy; anything else goes through the string
// representation.
func appendRows(b array.Builder, src arrow.Array, indices []int) error {
	switch src := src.(type) {
	case *array.Int64:
		dst := b.(*array.Int64Builder)
		for _, i := range indices {
			if src.IsNull(i) {
				dst.AppendNull()
				continue
			}
			dst.Append(src.Value(i))
		}
	case *array.Float64:
		dst := b.(*array.Float64Builder)
		for _, i := range indices {
			if src.IsNull(i) {
				dst.AppendNull()
				continue
			}
			dst.Append(src.Value(i))
		}
	case *array.String:
		dst := b.(*array.StringBuilder)
		for _, i := range indices {
			if src.IsNull(i) {
				dst.AppendNull()
				continue
			}
			dst.Append(src.Value(i))
		}
	case *array.Boolean:
		dst := b.(*array.BooleanBuilder)
		for _, i := range indices {
			if src.IsNull(i) {
				dst.AppendNull()
				continue
			}
			dst.Append(src.Value(i))
		}
	default:
		for _, i := range indices {
			if src.IsNull(i) {
				b.AppendNull()
				continue
			}
			if err := b.AppendValueFromString(src.ValueStr(i)); err != nil {
				return err
			}
		}
	}
	return nil
}
