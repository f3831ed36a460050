// Package duckdb runs a filtering pass as SQL over DuckDB's read_csv
// instead of loading the input into memory, which keeps large files
// out of the process heap.
//
// The predicate set is rendered to a WHERE clause by filter.DuckDBEncoder,
// sampling uses reservoir sampling, and value counts are GROUP BY
// queries. Semantics match the in-process evaluator on columns whose
// sniffed type agrees with the operand. Numeric operands against text
// columns follow SQL casting rules instead: ordered comparisons compare
// as text, and equality may raise a conversion error on rows that do
// not parse, where the in-process evaluator coerces cell by cell.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/sift-go/filter"
	"github.com/hugr-lab/sift-go/table"
)

// Params describes one engine run. The engine only moves and counts
// rows; rendering the results is left to the caller.
type Params struct {
	// Input and Output are CSV paths. Compressed extensions (.gz, .zst)
	// are handled by DuckDB itself.
	Input  string
	Output string

	// Set is the parsed predicate set. Columns are validated against
	// the input before anything is written.
	Set filter.Set

	// Counts requests pre-filter value counts per filtered column.
	Counts bool

	// Verbose requests value counts of the written output per filtered
	// column.
	Verbose bool

	// Sample caps the output at *Sample reservoir-sampled rows.
	Sample *int

	// Seed makes sampling repeatable. 0 uses the current time.
	Seed int64

	// Logger for internal logging. Uses slog.Default() if nil.
	Logger *slog.Logger
}

// Result carries the row counts and histograms of a finished run.
type Result struct {
	// Read is the input row count, Written the rows in the output.
	Read    int
	Written int

	// Original and Filtered hold one histogram per filtered column, in
	// Set.Columns() order, when the corresponding flag was set.
	Original []*table.Counts
	Filtered []*table.Counts
}

// Run filters Input into Output through an in-memory DuckDB instance.
func Run(ctx context.Context, p Params) (*Result, error) {
	if len(p.Set) == 0 {
		return nil, fmt.Errorf("empty predicate set")
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	if p.Sample != nil {
		// Reservoir sampling is only repeatable on a single thread.
		if _, err := db.ExecContext(ctx, "SET threads = 1"); err != nil {
			return nil, fmt.Errorf("pin threads for sampling: %w", err)
		}
	}

	input := readCSV(p.Input)

	columns, err := describeColumns(ctx, db, input)
	if err != nil {
		return nil, err
	}
	if err := p.Set.Bind(columns); err != nil {
		return nil, err
	}

	var res Result
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM "+input).Scan(&res.Read); err != nil {
		return nil, fmt.Errorf("count input rows: %w", err)
	}

	cols := p.Set.Columns()
	if p.Counts {
		for _, col := range cols {
			c, err := valueCounts(ctx, db, input, col)
			if err != nil {
				return nil, err
			}
			res.Original = append(res.Original, c)
		}
	}

	copySQL := buildCopy(input, filter.NewDuckDBEncoder(nil).EncodeSet(p.Set), p)
	logger.Debug("running copy", "sql", copySQL)
	if err := db.QueryRowContext(ctx, copySQL).Scan(&res.Written); err != nil {
		return nil, fmt.Errorf("copy to %s: %w", p.Output, err)
	}

	if p.Verbose {
		output := readCSV(p.Output)
		for _, col := range cols {
			c, err := valueCounts(ctx, db, output, col)
			if err != nil {
				return nil, err
			}
			res.Filtered = append(res.Filtered, c)
		}
	}

	return &res, nil
}

// readCSV renders the read_csv table function for path, pinning the
// null tokens to the same set the in-process reader uses.
func readCSV(path string) string {
	quoted := make([]string, len(table.NullValues))
	for i, v := range table.NullValues {
		quoted[i] = filter.QuoteLiteral(v)
	}
	return fmt.Sprintf("read_csv(%s, header = true, nullstr = [%s])",
		filter.QuoteLiteral(path), strings.Join(quoted, ", "))
}

// describeColumns returns the column names DuckDB sniffs from the input.
func describeColumns(ctx context.Context, db *sql.DB, rel string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT column_name FROM (DESCRIBE SELECT * FROM "+rel+")")
	if err != nil {
		return nil, fmt.Errorf("describe input: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// buildCopy renders the COPY statement that writes the filtered (and
// optionally sampled) rows to the output path.
func buildCopy(input, clause string, p Params) string {
	var q strings.Builder
	fmt.Fprintf(&q, "COPY (SELECT * FROM %s WHERE %s", input, clause)

	if p.Sample != nil {
		seed := p.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		if seed < 0 {
			// REPEATABLE takes a bare integer literal.
			seed = -seed
		}
		fmt.Fprintf(&q, " USING SAMPLE reservoir(%d ROWS) REPEATABLE (%d)", *p.Sample, seed)
	}

	fmt.Fprintf(&q, ") TO %s (FORMAT CSV, HEADER", filter.QuoteLiteral(p.Output))
	switch filepath.Ext(p.Output) {
	case ".gz":
		q.WriteString(", COMPRESSION gzip")
	case ".zst":
		q.WriteString(", COMPRESSION zstd")
	}
	q.WriteString(")")
	return q.String()
}

// valueCounts runs the histogram query for one column, casting values
// to text so numeric and text columns report the same way.
func valueCounts(ctx context.Context, db *sql.DB, rel, column string) (*table.Counts, error) {
	ident := filter.QuoteIdentifier(column)
	q := fmt.Sprintf(
		"SELECT CAST(%s AS VARCHAR) AS value, count(*) AS n FROM %s WHERE %s IS NOT NULL GROUP BY value ORDER BY n DESC, value ASC",
		ident, rel, ident)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("value counts for %s: %w", column, err)
	}
	defer rows.Close()

	c := &table.Counts{Column: column}
	for rows.Next() {
		var v table.ValueCount
		if err := rows.Scan(&v.Value, &v.Count); err != nil {
			return nil, err
		}
		c.Values = append(c.Values, v)
		c.Total += v.Count
	}
	return c, rows.Err()
}
