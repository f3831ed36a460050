// Package sift provides integration tests that run the full pipeline
// through both execution engines and check they agree.
package sift_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hugr-lab/sift-go"
	"github.com/hugr-lab/sift-go/filter"
	"github.com/hugr-lab/sift-go/table"
)

const carsCSV = `NAME,COLOR,YEAR
vega,red,1957
altair,blue,1960
rigel,red,1957
deneb,green,1975
sirius,blue,1960
polaris,NA,1962
`

var engines = []sift.Engine{sift.EngineNative, sift.EngineDuckDB}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runOnFile executes one run and returns the report text.
func runOnFile(t *testing.T, engine sift.Engine, input, output string, mutate func(*sift.Config)) string {
	t.Helper()

	var report bytes.Buffer
	config := sift.Config{
		Input:    input,
		Output:   output,
		Engine:   engine,
		Logger:   quietLogger(),
		ReportTo: &report,
	}
	if mutate != nil {
		mutate(&config)
	}

	if err := sift.Run(context.Background(), config); err != nil {
		t.Fatalf("Run with %s engine failed: %v", engine, err)
	}
	return report.String()
}

// runEngine writes inputText into a fresh directory, runs the engine,
// and returns the output path and the report text.
func runEngine(t *testing.T, engine sift.Engine, inputText, outName string, mutate func(*sift.Config)) (string, string) {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(input, []byte(inputText), 0o644); err != nil {
		t.Fatalf("write input failed: %v", err)
	}
	output := filepath.Join(dir, outName)

	report := runOnFile(t, engine, input, output, mutate)
	return output, report
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s failed: %v", path, err)
	}
	return string(data)
}

func TestEnginesAgree(t *testing.T) {
	cases := []struct {
		name    string
		filters []string
	}{
		{"equal", []string{"COLOR:red"}},
		{"not_equal", []string{"COLOR:~red"}},
		{"greater", []string{"YEAR:>1957"}},
		{"less", []string{"YEAR:<1960"}},
		{"membership", []string{"COLOR:red|blue"}},
		{"negated_membership", []string{"COLOR:~red|blue"}},
		{"numeric_membership", []string{"YEAR:1957|1960"}},
		{"conjunction", []string{"COLOR:blue", "YEAR:>1957"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withFilters := func(c *sift.Config) { c.Filters = tc.filters }

			nativeOut, _ := runEngine(t, sift.EngineNative, carsCSV, "out.csv", withFilters)
			duckOut, _ := runEngine(t, sift.EngineDuckDB, carsCSV, "out.csv", withFilters)

			if native, duck := readFile(t, nativeOut), readFile(t, duckOut); native != duck {
				t.Fatalf("engines disagree:\nnative:\n%s\nduckdb:\n%s", native, duck)
			}
		})
	}
}

func TestNegatedFiltersKeepNullRows(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			out, _ := runEngine(t, engine, carsCSV, "out.csv", func(c *sift.Config) {
				c.Filters = []string{"COLOR:~red"}
			})

			// polaris has a null COLOR and must survive the negated filter.
			if got := readFile(t, out); !strings.Contains(got, "polaris,,1962") {
				t.Fatalf("null row dropped by %s engine:\n%s", engine, got)
			}
		})
	}
}

func TestReportsAgree(t *testing.T) {
	withReports := func(c *sift.Config) {
		c.Filters = []string{"COLOR:red|blue", "YEAR:<1975"}
		c.Counts = true
		c.Verbose = true
	}

	_, nativeReport := runEngine(t, sift.EngineNative, carsCSV, "out.csv", withReports)
	_, duckReport := runEngine(t, sift.EngineDuckDB, carsCSV, "out.csv", withReports)

	if nativeReport != duckReport {
		t.Fatalf("reports disagree:\nnative:\n%s\nduckdb:\n%s", nativeReport, duckReport)
	}
	for _, want := range []string{
		"Original Counts: COLOR",
		"Filtered Counts: COLOR",
		"Original Counts: YEAR",
		"Filtered Counts: YEAR",
	} {
		if !strings.Contains(nativeReport, want) {
			t.Fatalf("report missing %q:\n%s", want, nativeReport)
		}
	}
}

func TestNormalizedReportsAgree(t *testing.T) {
	withNormalize := func(c *sift.Config) {
		c.Filters = []string{"COLOR:red|blue"}
		c.Verbose = true
		c.Normalize = true
	}

	_, nativeReport := runEngine(t, sift.EngineNative, carsCSV, "out.csv", withNormalize)
	_, duckReport := runEngine(t, sift.EngineDuckDB, carsCSV, "out.csv", withNormalize)

	if nativeReport != duckReport {
		t.Fatalf("normalized reports disagree:\nnative:\n%s\nduckdb:\n%s", nativeReport, duckReport)
	}
	if !strings.Contains(nativeReport, "0.500000") {
		t.Fatalf("expected proportions in report:\n%s", nativeReport)
	}
}

func TestCompressedOutput(t *testing.T) {
	for _, engine := range engines {
		for _, ext := range []string{".gz", ".zst"} {
			t.Run(string(engine)+ext, func(t *testing.T) {
				out, _ := runEngine(t, engine, carsCSV, "out.csv"+ext, func(c *sift.Config) {
					c.Filters = []string{"COLOR:red"}
				})

				tb, err := table.ReadCSV(out)
				if err != nil {
					t.Fatalf("ReadCSV failed: %v", err)
				}
				defer tb.Release()

				if tb.NumRows() != 2 {
					t.Fatalf("expected 2 rows, got %d", tb.NumRows())
				}
			})
		}
	}
}

func TestCompressedInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv.gz")

	src, err := table.Read(strings.NewReader(carsCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	defer src.Release()
	if err := src.WriteCSV(input); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "out.csv")
			runOnFile(t, engine, input, output, func(c *sift.Config) {
				c.Filters = []string{"YEAR:>1957"}
			})

			if got := strings.Count(readFile(t, output), "\n"); got != 5 {
				t.Fatalf("expected header and 4 rows, got:\n%s", readFile(t, output))
			}
		})
	}
}

func TestSampleRepeatable(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			n := 3
			withSample := func(c *sift.Config) {
				c.Filters = []string{"YEAR:>1900"}
				c.Sample = &n
				c.Seed = 7
			}

			first, report := runEngine(t, engine, carsCSV, "out.csv", withSample)
			second, _ := runEngine(t, engine, carsCSV, "out.csv", withSample)

			if readFile(t, first) != readFile(t, second) {
				t.Fatalf("%s engine: same seed produced different samples", engine)
			}
			if got := strings.Count(readFile(t, first), "\n"); got != 4 {
				t.Fatalf("expected header and 3 rows, got:\n%s", readFile(t, first))
			}
			if !strings.Contains(report, "sampled: 3 rows") {
				t.Fatalf("missing sample notice:\n%s", report)
			}
		})
	}
}

func TestUnknownColumn(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "in.csv")
			if err := os.WriteFile(input, []byte(carsCSV), 0o644); err != nil {
				t.Fatalf("write input failed: %v", err)
			}
			output := filepath.Join(dir, "out.csv")

			err := sift.Run(context.Background(), sift.Config{
				Input:   input,
				Output:  output,
				Filters: []string{"SHAPE:round"},
				Engine:  engine,
				Logger:  quietLogger(),
			})

			var notFound *filter.ColumnNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected ColumnNotFoundError, got %v", err)
			}
			if !strings.Contains(err.Error(), "use one of: NAME, COLOR, YEAR") {
				t.Fatalf("error should list available columns: %v", err)
			}
			if _, err := os.Stat(output); !os.IsNotExist(err) {
				t.Fatalf("%s engine created output despite unknown column", engine)
			}
		})
	}
}

func TestHeaderOnlyInput(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			out, _ := runEngine(t, engine, "NAME,COLOR\n", "out.csv", func(c *sift.Config) {
				c.Filters = []string{"COLOR:red"}
			})

			if got := readFile(t, out); got != "NAME,COLOR\n" {
				t.Fatalf("expected header only, got %q", got)
			}
		})
	}
}
