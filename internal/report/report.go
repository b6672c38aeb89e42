// Package report renders snapshots, run summaries, and golden-vs-live
// comparisons as text blocks, tables, and CSV. It holds no state of its own;
// everything here formats data produced elsewhere.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/harness"
)

// #region snapshot-block
// SnapshotBlock renders one per-tick snapshot as an aligned key/value block.
func SnapshotBlock(s capacity.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Worker %s — tick %d\n", s.WorkerID, s.Tick)
	fmt.Fprintf(&b, "  capacity:              %.6f\n", s.Capacity)
	fmt.Fprintf(&b, "  fatigue:               %.6f\n", s.Fatigue)
	fmt.Fprintf(&b, "  performance:           %.6f\n", s.Performance)
	fmt.Fprintf(&b, "  state:                 %s\n", s.State)
	fmt.Fprintf(&b, "  activity:              %s (session %d, %.0f min)\n", activityName(s.IsWorking), s.Session, s.SessionTime)
	fmt.Fprintf(&b, "  safe / critical:       %v / %v\n", s.IsSafe, s.IsCritical)
	fmt.Fprintf(&b, "  work / rest time:      %.0f / %.0f min\n", s.TotalWorkTime, s.TotalRestTime)
	fmt.Fprintf(&b, "  time in critical zone: %.0f\n", s.TimeInCriticalZone)
	fmt.Fprintf(&b, "  emergency shutdowns:   %d (floor violated: %v)\n", s.EmergencyShutdowns, s.ViolatedMinCapacity)
	return b.String()
}

// #endregion snapshot-block

// #region summary-block
// SummaryBlock renders a run summary as an aligned key/value block.
func SummaryBlock(s capacity.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary over %d ticks\n", s.Ticks)
	fmt.Fprintf(&b, "  mean capacity:         %.6f\n", s.MeanCapacity)
	fmt.Fprintf(&b, "  mean performance:      %.6f\n", s.MeanPerformance)
	fmt.Fprintf(&b, "  min capacity observed: %.6f\n", s.MinObservedCapacity)
	fmt.Fprintf(&b, "  max fatigue observed:  %.6f\n", s.MaxObservedFatigue)
	fmt.Fprintf(&b, "  final capacity:        %.6f\n", s.FinalCapacity)
	fmt.Fprintf(&b, "  sessions:              %d\n", s.Sessions)
	fmt.Fprintf(&b, "  work / rest time:      %.0f / %.0f min\n", s.TotalWorkTime, s.TotalRestTime)
	fmt.Fprintf(&b, "  time in critical zone: %.0f\n", s.TimeInCriticalZone)
	fmt.Fprintf(&b, "  emergency shutdowns:   %d (floor violated: %v)\n", s.EmergencyShutdowns, s.ViolatedMinCapacity)
	return b.String()
}

func activityName(working bool) string {
	if working {
		return "work"
	}
	return "rest"
}

// #endregion summary-block

// #region comparison
// divergenceTol is the per-row OK/DIFF boundary of the comparison table. It
// matches the oracle-agreement property: anything at or above it marks a
// logic defect, not floating-point noise.
const divergenceTol = 1e-9

// WriteComparison renders a per-tick golden-vs-live table. Rows whose
// absolute error is at or above the divergence tolerance are marked DIFF;
// maxRows > 0 limits the table to the first maxRows rows (the summary line
// still covers every compared point). Returns the number of diverged rows.
func WriteComparison(w io.Writer, golden, live []float64, maxRows int) int {
	fmt.Fprintf(w, "%-6s| %-12s| %-12s| %-12s| %s\n", "Tick", "Golden", "Live", "AbsError", "Match")
	fmt.Fprintf(w, "%s+%s+%s+%s+%s\n",
		strings.Repeat("-", 6), strings.Repeat("-", 13), strings.Repeat("-", 13),
		strings.Repeat("-", 13), strings.Repeat("-", 6))

	n := len(golden)
	if len(live) < n {
		n = len(live)
	}

	diverged := 0
	shown := 0
	for i := 0; i < n; i++ {
		e := golden[i] - live[i]
		if e < 0 {
			e = -e
		}
		match := "OK"
		if e >= divergenceTol {
			match = "DIFF"
			diverged++
		}
		if maxRows <= 0 || shown < maxRows {
			fmt.Fprintf(w, "%-6d| %-12.8f| %-12.8f| %-12.3e| %s\n", i+1, golden[i], live[i], e, match)
			shown++
		}
	}
	if shown < n {
		fmt.Fprintf(w, "... %d more rows\n", n-shown)
	}
	fmt.Fprintf(w, "\nSummary: %d compared, %d ok, %d diverged\n", n, n-diverged, diverged)
	return diverged
}

// #endregion comparison

// #region validation-block
// ValidationBlock renders one validation report: the metric rows, the
// magnitude histogram, and the verdict.
func ValidationBlock(rep harness.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario %s (run %s)\n", rep.Scenario, rep.RunID)
	fmt.Fprintf(&b, "  data points: %d, max error at tick index %d\n", rep.Stats.DataPoints, rep.Stats.MaxErrorIndex)
	for _, m := range rep.Metrics {
		gate := "advisory"
		if m.Threshold > 0 {
			gate = fmt.Sprintf("< %g", m.Threshold)
		}
		fmt.Fprintf(&b, "  %-10s %-14.6e (%s) %s\n", m.Name, m.Value, gate, passLabel(m.Pass))
	}
	for _, bin := range rep.Stats.Bins {
		fmt.Fprintf(&b, "  errors %-9s %d\n", bin.Label, bin.Count)
	}
	fmt.Fprintf(&b, "  verdict: %s — %s\n", passLabel(rep.Passed), rep.Reason)
	return b.String()
}

func passLabel(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}

// #endregion validation-block
