// Package table provides an in-memory CSV table backed by an Apache
// Arrow record batch.
//
// Tables are immutable: filtering and sampling return new tables and the
// source is left untouched. Column types are inferred from the data when
// reading, so numeric columns come back as int64 or float64 rather than
// text. Arrow uses manual reference counting; callers MUST call Release()
// on every table they obtain.
package table

import (
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// NullValues are the tokens treated as null cells when reading CSV
// input. Null cells fail positive predicates, satisfy negated ones, and
// are written back as empty strings.
var NullValues = []string{"", "NULL", "null", "NA", "N/A", "NaN", "nan"}

// ErrEmptyInput indicates the input file has no content, not even a
// header row. A file with only a header is a valid zero-row table.
var ErrEmptyInput = errors.New("empty input file")

// Table wraps a single Arrow record batch holding the whole CSV file.
type Table struct {
	rec arrow.RecordBatch
}

// New wraps a record batch in a Table, retaining it. The caller keeps
// its own reference and releases it independently.
func New(rec arrow.RecordBatch) *Table {
	rec.Retain()
	return &Table{rec: rec}
}

// Read parses CSV data into a table. The first row is the header,
// column types are inferred from the data, and the tokens in NullValues
// become null cells.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	rd := csv.NewInferringReader(bytes.NewReader(data),
		csv.WithAllocator(memory.DefaultAllocator),
		csv.WithChunk(-1),
		csv.WithHeader(true),
		csv.WithNullReader(true, NullValues...),
	)
	defer rd.Release()

	if rd.Next() {
		return New(rd.RecordBatch()), nil
	}
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	// Header-only file: there is no data row to infer types from, so
	// build an empty all-string table from the header.
	return readHeaderOnly(data)
}

// ReadCSV reads a CSV file into a table. Paths ending in .gz or .zst
// are decompressed transparently.
func ReadCSV(path string) (*Table, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// readHeaderOnly builds a zero-row table from the CSV header row.
func readHeaderOnly(data []byte) (*Table, error) {
	header, err := stdcsv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("parse csv header: %w", err)
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	rec := b.NewRecordBatch()
	defer rec.Release()

	return New(rec), nil
}

// Write serializes the table as CSV: header row first, null cells as
// empty strings.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w, t.Schema(),
		csv.WithHeader(true),
		csv.WithNullWriter(""),
	)
	if err := cw.Write(t.rec); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return cw.Flush()
}

// WriteCSV writes the table to a CSV file, creating or truncating it.
// Paths ending in .gz or .zst are compressed transparently.
func (t *Table) WriteCSV(path string) error {
	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Schema returns the Arrow schema of the table.
func (t *Table) Schema() *arrow.Schema { return t.rec.Schema() }

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return int(t.rec.NumRows()) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return int(t.rec.NumCols()) }

// Column returns the i-th column array. The array stays owned by the
// table; do not release it.
func (t *Table) Column(i int) arrow.Array { return t.rec.Column(i) }

// ColumnIndex returns the index of the named column, or -1 when the
// table has no such column.
func (t *Table) ColumnIndex(name string) int {
	indices := t.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return -1
	}
	return indices[0]
}

// ColumnNames returns the column names in schema order.
func (t *Table) ColumnNames() []string {
	fields := t.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Record exposes the underlying record batch for advanced use.
// The batch stays owned by the table; Retain it to keep it past Release.
func (t *Table) Record() arrow.RecordBatch { return t.rec }

// Release frees the underlying record batch. The table must not be
// used afterwards.
func (t *Table) Release() { t.rec.Release() }
