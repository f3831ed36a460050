package sift

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/hugr-lab/sift-go/duckdb"
	"github.com/hugr-lab/sift-go/filter"
	"github.com/hugr-lab/sift-go/table"
)

// Run executes one filtering run described by config.
// This is the main entry point for the sift package.
//
// The function:
//  1. Validates the Config
//  2. Parses the filter strings into a predicate set
//  3. Reads the input, keeps the rows every predicate matches, and
//     writes them to the output
//
// Filter strings follow the "COLUMN:expression" grammar documented in
// the filter package. On a parse or unknown-column error the run stops
// before the output file is created.
//
// Basic example:
//
//	err := sift.Run(ctx, sift.Config{
//	    Input:   "airports.csv",
//	    Output:  "selected.csv",
//	    Filters: []string{"COUNTRY:US", "ELEVATION:>500"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
func Run(ctx context.Context, config Config) error {
	// Validate configuration
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(config.Filters) == 0 {
		return ErrNoFilters
	}

	// Use defaults for optional fields
	logger := config.Logger
	if logger == nil {
		if config.LogLevel != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *config.LogLevel}))
		} else {
			logger = slog.Default()
		}
	}

	reportTo := config.ReportTo
	if reportTo == nil {
		reportTo = os.Stdout
	}
	report := NewReporter(reportTo, config.Normalize)

	set, err := filter.ParseSet(config.Filters)
	if err != nil {
		return err
	}

	if config.Explain {
		Explain(reportTo, set)
		return nil
	}

	engine := config.Engine
	if engine == "" {
		engine = EngineNative
	}

	logger.Debug("starting run",
		"input", config.Input,
		"output", config.Output,
		"filters", len(set),
		"engine", string(engine),
	)

	if engine == EngineDuckDB {
		return runDuckDB(ctx, config, set, logger, report)
	}
	return runNative(ctx, config, set, logger, report)
}

// runNative filters in-process: the whole input is loaded into an
// Arrow table and rows are matched by the evaluator in eval.go.
func runNative(ctx context.Context, config Config, set filter.Set, logger *slog.Logger, report *Reporter) error {
	start := time.Now()

	src, err := table.ReadCSV(config.Input)
	if err != nil {
		return err
	}
	defer src.Release()

	logger.Debug("input loaded", "rows", src.NumRows(), "columns", src.NumCols())

	if err := set.Bind(src.ColumnNames()); err != nil {
		return err
	}

	filtered, err := Apply(src, set)
	if err != nil {
		return err
	}
	defer filtered.Release()

	out := filtered
	if config.Sample != nil {
		seed := config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		sampled, err := filtered.Sample(*config.Sample, rand.New(rand.NewSource(seed)))
		if err != nil {
			return err
		}
		defer sampled.Release()

		out = sampled
		report.Sampled(out.NumRows())
	}

	for _, col := range set.Columns() {
		if config.Counts {
			c, err := src.ValueCounts(col)
			if err != nil {
				return err
			}
			if err := report.Counts("Original Counts", c); err != nil {
				return err
			}
		}
		if config.Verbose {
			c, err := out.ValueCounts(col)
			if err != nil {
				return err
			}
			if err := report.Counts("Filtered Counts", c); err != nil {
				return err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := out.WriteCSV(config.Output); err != nil {
		return err
	}

	logger.Info("filtered output written",
		"path", config.Output,
		"rows", out.NumRows(),
		"read", src.NumRows(),
		"elapsed", time.Since(start),
	)
	return nil
}

// runDuckDB delegates filtering to the duckdb engine and renders its
// results in the same report shape as the native path.
func runDuckDB(ctx context.Context, config Config, set filter.Set, logger *slog.Logger, report *Reporter) error {
	start := time.Now()

	res, err := duckdb.Run(ctx, duckdb.Params{
		Input:   config.Input,
		Output:  config.Output,
		Set:     set,
		Counts:  config.Counts,
		Verbose: config.Verbose,
		Sample:  config.Sample,
		Seed:    config.Seed,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if config.Sample != nil {
		report.Sampled(res.Written)
	}
	for i := range set.Columns() {
		if config.Counts {
			if err := report.Counts("Original Counts", res.Original[i]); err != nil {
				return err
			}
		}
		if config.Verbose {
			if err := report.Counts("Filtered Counts", res.Filtered[i]); err != nil {
				return err
			}
		}
	}

	logger.Info("filtered output written",
		"path", config.Output,
		"rows", res.Written,
		"read", res.Read,
		"elapsed", time.Since(start),
	)
	return nil
}
