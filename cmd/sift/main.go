// Command sift filters CSV rows by column values.
//
//	sift input.csv output.csv -f COLOR:red -f "YEAR:>1957" -v
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hugr-lab/sift-go"
)

// version is set at build time via -ldflags.
var version = "dev"

const filterHelp = `Each filter is one "COLUMN:expression" string:

  FILTER                 DESCRIPTION                      SUPPORTED TYPES
  "col:val"              col equals val                   [number, string]
  "col:~val"             col does not equal val           [number, string]
  "col:>val"             col is greater than val          [number]
  "col:<val"             col is less than val             [number]
  "col:val1|val2"        col is one of val1, val2         [number, string]
  "col:~val1|val2"       col is none of val1, val2        [number, string]

Rows must match every filter to be kept. Paths ending in .gz or .zst
are read and written compressed.`

type runFunc func(ctx context.Context, config sift.Config) error

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(sift.Run).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(run runFunc) *cobra.Command {
	var (
		filters   []string
		verbose   bool
		counts    bool
		normalize bool
		sample    string
		seed      int64
		engine    string
		explain   bool
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "sift input output",
		Short: "Filter CSV rows by column values",
		Long:  "Read a CSV file, keep the rows matching the given column filters,\nand write them to a new CSV file.\n\n" + filterHelp,
		Example: `  sift cars.csv red.csv -f COLOR:red
  sift cars.csv old.csv -f "YEAR:<1960" -f "COLOR:red|blue" -v
  sift big.csv.gz sample.csv -f COUNTRY:US -s=100 --seed 7`,
		Args:          cobra.ExactArgs(2),
		Version:       version,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags parsed fine; errors past this point are runtime
			// errors, not usage errors.
			cmd.SilenceUsage = true

			config := sift.Config{
				Input:     args[0],
				Output:    args[1],
				Filters:   filters,
				Verbose:   verbose,
				Counts:    counts,
				Normalize: normalize,
				Seed:      seed,
				Engine:    sift.Engine(engine),
				Explain:   explain,
				Logger:    newLogger(debug),
			}

			if cmd.Flags().Changed("sample") {
				n, err := strconv.Atoi(sample)
				if err != nil {
					return fmt.Errorf("invalid sample size %q", sample)
				}
				config.Sample = &n
			}

			return run(cmd.Context(), config)
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, `column filter "COLUMN:expression" (repeatable)`)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "display value counts for filtered columns")
	cmd.Flags().BoolVarP(&counts, "counts", "c", false, "display original value counts for filtered columns")
	cmd.Flags().BoolVarP(&normalize, "normalize", "n", false, "whether to normalize value counts")
	cmd.Flags().StringVarP(&sample, "sample", "s", "", "sample n rows from filtered CSV (10 when no value given)")
	cmd.Flags().Lookup("sample").NoOptDefVal = "10"
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for sampling (0 uses the current time)")
	cmd.Flags().StringVar(&engine, "engine", "native", "execution engine: native or duckdb")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the parsed filters and exit without filtering")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.MarkFlagRequired("filter")

	return cmd
}

// newLogger builds a stderr logger, quiet unless debug is set.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
