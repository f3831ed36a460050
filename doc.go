// Package sift filters CSV files by column values.
//
// The sift package reads a CSV file, keeps the rows matching a set of
// column filters, and writes the result to a new CSV file. It
// simplifies CSV slicing by:
//   - Parsing compact "COLUMN:expression" filter strings
//   - Inferring column types, so numbers compare as numbers
//   - Reporting value counts of the filtered columns
//   - Sampling the filtered rows reproducibly
//   - Reading and writing gzip and zstandard compressed files
//
// # Quick Start
//
// Filter a CSV file in a few lines:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/hugr-lab/sift-go"
//	)
//
//	func main() {
//	    err := sift.Run(context.Background(), sift.Config{
//	        Input:   "airports.csv",
//	        Output:  "selected.csv",
//	        Filters: []string{"COUNTRY:US", "ELEVATION:>500"},
//	        Verbose: true,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// The same pipeline is available on the command line via cmd/sift:
//
//	sift airports.csv selected.csv -f COUNTRY:US -f "ELEVATION:>500" -v
//
// # Filter Grammar
//
// Each filter is one "COLUMN:expression" string. The expression decides
// the operator:
//
//	COLOR:red        keep rows where COLOR equals red
//	COLOR:~red       keep rows where COLOR does not equal red
//	YEAR:>1957       keep rows where YEAR is greater than 1957
//	YEAR:<1957       keep rows where YEAR is less than 1957
//	COLOR:red|blue   keep rows where COLOR is red or blue
//	COLOR:~red|blue  keep rows where COLOR is neither red nor blue
//
// Multiple filters are combined with AND. The full grammar, including
// value coercion, lives in the filter package.
//
// # Architecture
//
// The module splits into small packages:
//
//   - filter: filter string parsing, the predicate model, SQL encoding
//   - table: Arrow-backed CSV tables, selection, sampling, histograms
//   - duckdb: the SQL execution backend
//   - sift (this package): the evaluator and the Run pipeline
//
// Run dispatches to one of two engines. EngineNative loads the input
// into an Arrow table and evaluates predicates in-process. EngineDuckDB
// rewrites the run as SQL over DuckDB's read_csv, keeping large files
// out of the process heap.
//
// # Logging
//
// The package uses log/slog for all internal logging and defaults to
// slog.Default(). Pass Config.Logger for a custom logger, or
// Config.LogLevel to get a stderr logger at a chosen level.
//
// # Memory Management
//
// Arrow uses manual reference counting. Callers working with the table
// package directly MUST call Release() on every Table they obtain.
// Run handles this internally.
package sift
