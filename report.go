package sift

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/hugr-lab/sift-go/filter"
	"github.com/hugr-lab/sift-go/table"
)

// Reporter renders the human-readable run report: the sampling notice
// and value-count tables for the filtered columns.
type Reporter struct {
	w         io.Writer
	normalize bool

	header *color.Color
}

// NewReporter creates a reporter writing to w. With normalize set,
// count tables show proportions instead of absolute counts.
func NewReporter(w io.Writer, normalize bool) *Reporter {
	return &Reporter{
		w:         w,
		normalize: normalize,
		header:    color.New(color.Bold),
	}
}

// Sampled prints the sampling notice with the number of rows kept.
func (r *Reporter) Sampled(n int) {
	fmt.Fprintf(r.w, "\nsampled: %d rows\n", n)
}

// Counts renders one value-count table under the given title, most
// frequent value first.
func (r *Reporter) Counts(title string, c *table.Counts) error {
	r.header.Fprintf(r.w, "\n%s: %s\n\n", title, c.Column)

	tw := tabwriter.NewWriter(r.w, 2, 4, 2, ' ', 0)
	for _, v := range c.Values {
		if r.normalize {
			fmt.Fprintf(tw, "%s\t%.6f\n", v.Value, float64(v.Count)/float64(c.Total))
		} else {
			fmt.Fprintf(tw, "%s\t%d\n", v.Value, v.Count)
		}
	}
	return tw.Flush()
}

// Explain writes the parsed predicate set in readable form, one
// predicate per line, followed by the SQL WHERE clause the duckdb
// engine would run.
func Explain(w io.Writer, set filter.Set) {
	for _, p := range set {
		fmt.Fprintln(w, p.String())
	}

	enc := filter.NewDuckDBEncoder(nil)
	if clause := enc.EncodeSet(set); clause != "" {
		fmt.Fprintf(w, "WHERE %s\n", clause)
	}
}
