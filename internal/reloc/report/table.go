// Package report renders evaluation results: the aggregate text table, the
// online running-accuracy CSV files, and optional HTML/PNG charts.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/relocperf/internal/reloc"
)

// Fixed column widths, matching the layout earlier experiment tooling parses.
const (
	nameWidth = 15
	colWidth  = 8
)

// WriteTable renders the aggregate accuracy table: one row per discovered
// sequence followed by the unweighted and pose-count-weighted average rows.
// Sequences with no entry in results are shown with a "not evaluated" marker
// and contribute nothing to the averages.
func WriteTable(w io.Writer, names []string, results map[string]*reloc.SequenceResult, agg reloc.AggregateReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%-*s%*s%*s%*s%*s\n",
		nameWidth, "Sequence", colWidth, "Poses", colWidth, "Reloc", colWidth, "ICP", colWidth, "Final")

	for _, name := range names {
		res, ok := results[name]
		if !ok {
			fmt.Fprintf(&b, "%-*s   not evaluated\n", nameWidth, name)
			continue
		}
		fmt.Fprintf(&b, "%-*s%*d%*.2f%*.2f%*.2f\n",
			nameWidth, name,
			colWidth, res.PoseCount,
			colWidth, percentage(res.ValidReloc, res.PoseCount),
			colWidth, percentage(res.ValidICP, res.PoseCount),
			colWidth, percentage(res.ValidFinal, res.PoseCount))
	}

	fmt.Fprintf(&b, "\n%-*s%*d%*.2f%*.2f%*.2f\n",
		nameWidth, "Average",
		colWidth, agg.SequenceCount,
		colWidth, agg.Reloc.Unweighted,
		colWidth, agg.ICP.Unweighted,
		colWidth, agg.Final.Unweighted)
	fmt.Fprintf(&b, "%-*s%*d%*.2f%*.2f%*.2f\n",
		nameWidth, "Average (W)",
		colWidth, agg.PoseCount,
		colWidth, agg.Reloc.Weighted,
		colWidth, agg.ICP.Weighted,
		colWidth, agg.Final.Weighted)

	_, err := io.WriteString(w, b.String())
	return err
}

// percentage guards the degenerate zero-frame case instead of printing NaN.
func percentage(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total) * 100
}
