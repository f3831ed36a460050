package sift

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Engine selects the execution backend for Run.
type Engine string

const (
	// EngineNative evaluates filters in-process over Arrow record batches.
	EngineNative Engine = "native"

	// EngineDuckDB pushes filtering, sampling, and counting down into
	// DuckDB SQL over read_csv.
	EngineDuckDB Engine = "duckdb"
)

// Config describes one filtering run.
type Config struct {
	// Input is the path of the CSV file to read.
	// Files ending in .gz or .zst are decompressed transparently.
	// REQUIRED: MUST NOT be empty.
	Input string

	// Output is the path the filtered CSV is written to.
	// Files ending in .gz or .zst are compressed transparently.
	// REQUIRED: MUST NOT be empty.
	Output string

	// Filters holds the raw "COLUMN:expression" filter strings.
	// A row is kept only when every filter matches.
	// REQUIRED: MUST NOT be empty.
	Filters []string

	// Verbose prints value counts of the filtered columns, computed on
	// the rows that were written.
	// OPTIONAL: default off.
	Verbose bool

	// Counts prints value counts of the filtered columns, computed on
	// the input before filtering.
	// OPTIONAL: default off.
	Counts bool

	// Normalize reports proportions instead of absolute counts.
	// OPTIONAL: default off.
	Normalize bool

	// Sample keeps only *Sample rows of the filtered result, drawn
	// uniformly without replacement and written in input order.
	// OPTIONAL: If nil, all filtered rows are written.
	// Capped at the filtered row count.
	Sample *int

	// Seed seeds the sampling source, making samples reproducible.
	// OPTIONAL: If 0, the current time is used.
	Seed int64

	// Engine selects the execution backend.
	// OPTIONAL: If empty, EngineNative.
	Engine Engine

	// Explain prints the parsed filters and the SQL WHERE clause they
	// translate to, then returns without touching input or output.
	// OPTIONAL: default off.
	Explain bool

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// Valid values: slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// ReportTo receives the human-readable report: value-count tables
	// and the sampling notice.
	// OPTIONAL: Uses os.Stdout if nil.
	ReportTo io.Writer
}

// Standard errors returned by the sift package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoFilters indicates Run was called without any filter.
	ErrNoFilters = errors.New("no filters given")
)

// validateConfig checks that required Config fields are valid.
func validateConfig(config Config) error {
	if config.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if config.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if config.Sample != nil && *config.Sample < 0 {
		return fmt.Errorf("sample size must not be negative, got %d", *config.Sample)
	}
	switch config.Engine {
	case "", EngineNative, EngineDuckDB:
	default:
		return fmt.Errorf("unknown engine %q (use %q or %q)", config.Engine, EngineNative, EngineDuckDB)
	}
	return nil
}
