package sift

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hugr-lab/sift-go/filter"
	"github.com/hugr-lab/sift-go/table"
)

const carsCSV = `NAME,COLOR,YEAR,PRICE
vega,red,1957,9.5
altair,blue,1960,12.0
rigel,red,1957,7.25
deneb,green,1975,30.0
sirius,blue,1960,12.0
`

func readTable(t *testing.T, text string) *table.Table {
	t.Helper()

	tb, err := table.Read(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	t.Cleanup(tb.Release)
	return tb
}

func maskOf(t *testing.T, tb *table.Table, filters ...string) []bool {
	t.Helper()

	set, err := filter.ParseSet(filters)
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}
	mask, err := Mask(tb, set)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	return mask
}

func assertMask(t *testing.T, got, want []bool) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("mask length %d, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mask mismatch at row %d: got %v, expected %v", i, got, want)
		}
	}
}

func TestMaskEqualString(t *testing.T) {
	tb := readTable(t, carsCSV)
	assertMask(t, maskOf(t, tb, "COLOR:red"), []bool{true, false, true, false, false})
}

func TestMaskEqualInt(t *testing.T) {
	tb := readTable(t, carsCSV)
	assertMask(t, maskOf(t, tb, "YEAR:1957"), []bool{true, false, true, false, false})
}

func TestMaskEqualFloat(t *testing.T) {
	tb := readTable(t, carsCSV)

	assertMask(t, maskOf(t, tb, "PRICE:12.0"), []bool{false, true, false, false, true})
	// An integer operand matches a float column by value.
	assertMask(t, maskOf(t, tb, "PRICE:12"), []bool{false, true, false, false, true})
}

func TestMaskNotEqual(t *testing.T) {
	tb := readTable(t, carsCSV)
	assertMask(t, maskOf(t, tb, "COLOR:~red"), []bool{false, true, false, true, true})
}

func TestMaskGreaterThan(t *testing.T) {
	tb := readTable(t, carsCSV)

	assertMask(t, maskOf(t, tb, "YEAR:>1957"), []bool{false, true, false, true, true})
	assertMask(t, maskOf(t, tb, "PRICE:>10"), []bool{false, true, false, true, true})
}

func TestMaskLessThan(t *testing.T) {
	tb := readTable(t, carsCSV)
	assertMask(t, maskOf(t, tb, "YEAR:<1960"), []bool{true, false, true, false, false})
}

func TestMaskIn(t *testing.T) {
	tb := readTable(t, carsCSV)
	assertMask(t, maskOf(t, tb, "COLOR:red|blue"), []bool{true, true, true, false, true})
}

func TestMaskNotIn(t *testing.T) {
	tb := readTable(t, carsCSV)
	assertMask(t, maskOf(t, tb, "COLOR:~red|blue"), []bool{false, false, false, true, false})
}

func TestMaskComplement(t *testing.T) {
	tb := readTable(t, carsCSV)

	// Without nulls, a membership filter and its negation partition the rows.
	in := maskOf(t, tb, "COLOR:red|blue")
	notIn := maskOf(t, tb, "COLOR:~red|blue")
	for i := range in {
		if in[i] == notIn[i] {
			t.Fatalf("row %d in both partitions", i)
		}
	}
}

func TestMaskConjunction(t *testing.T) {
	tb := readTable(t, carsCSV)

	assertMask(t, maskOf(t, tb, "COLOR:red", "YEAR:1957"), []bool{true, false, true, false, false})
	assertMask(t, maskOf(t, tb, "COLOR:red", "YEAR:>1957"), []bool{false, false, false, false, false})
}

func TestMaskEmptySet(t *testing.T) {
	tb := readTable(t, carsCSV)

	// An empty set keeps every row.
	assertMask(t, maskOf(t, tb), []bool{true, true, true, true, true})
}

func TestMaskStringCellNumericOperand(t *testing.T) {
	tb := readTable(t, "CODE,N\n5,1\nred,2\n2.5,3\n05,4\n")

	// CODE mixes digits and words, so it reads as a text column. A
	// numeric operand still matches cells whose text parses to the
	// same number.
	assertMask(t, maskOf(t, tb, "CODE:5"), []bool{true, false, false, true})
	assertMask(t, maskOf(t, tb, "CODE:2.5"), []bool{false, false, true, false})
}

func TestMaskNumericCellStringOperand(t *testing.T) {
	tb := readTable(t, carsCSV)

	// A word operand never matches a numeric column.
	assertMask(t, maskOf(t, tb, "YEAR:vega"), []bool{false, false, false, false, false})
}

func TestMaskOrderedSkipsNonNumericCells(t *testing.T) {
	tb := readTable(t, "AGE,N\n35,1\nabc,2\n28,3\n")

	assertMask(t, maskOf(t, tb, "AGE:>30"), []bool{true, false, false})
}

func TestMaskNulls(t *testing.T) {
	tb := readTable(t, "COLOR,N\nred,1\nNA,2\nblue,3\n")

	// Null cells fail positive filters and satisfy negated ones.
	assertMask(t, maskOf(t, tb, "COLOR:red"), []bool{true, false, false})
	assertMask(t, maskOf(t, tb, "COLOR:~red"), []bool{false, true, true})
	assertMask(t, maskOf(t, tb, "COLOR:red|blue"), []bool{true, false, true})
	assertMask(t, maskOf(t, tb, "COLOR:~red|blue"), []bool{false, true, false})
}

func TestMaskNullNumericColumn(t *testing.T) {
	tb := readTable(t, "YEAR,N\n1957,1\nNA,2\n1960,3\n")

	assertMask(t, maskOf(t, tb, "YEAR:>1950"), []bool{true, false, true})
	assertMask(t, maskOf(t, tb, "YEAR:~1957"), []bool{false, true, true})
}

func TestMaskBooleanColumn(t *testing.T) {
	tb := readTable(t, "ACTIVE,N\ntrue,1\nfalse,2\n")

	assertMask(t, maskOf(t, tb, "ACTIVE:true"), []bool{true, false})
	assertMask(t, maskOf(t, tb, "ACTIVE:~true"), []bool{false, true})
}

func TestMaskUnknownColumn(t *testing.T) {
	tb := readTable(t, carsCSV)

	set, err := filter.ParseSet([]string{"SHAPE:round"})
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}

	_, err = Mask(tb, set)
	var notFound *filter.ColumnNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
	if notFound.Column != "SHAPE" {
		t.Fatalf("unexpected column in error: %q", notFound.Column)
	}
}

func TestApply(t *testing.T) {
	tb := readTable(t, carsCSV)

	set, err := filter.ParseSet([]string{"COLOR:blue"})
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}

	out, err := Apply(tb, set)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	defer out.Release()

	if out.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", out.NumRows())
	}
}

func TestApplyIdempotent(t *testing.T) {
	tb := readTable(t, carsCSV)

	set, err := filter.ParseSet([]string{"COLOR:red|blue", "YEAR:<1975"})
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}

	once, err := Apply(tb, set)
	if err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	defer once.Release()

	twice, err := Apply(once, set)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	defer twice.Release()

	var a, b bytes.Buffer
	if err := once.Write(&a); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := twice.Write(&b); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("filtering is not idempotent:\nonce:\n%s\ntwice:\n%s", a.String(), b.String())
	}
}
