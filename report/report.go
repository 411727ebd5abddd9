package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	diffdrive "github.com/milosgajdos/go-diffdrive"
	"github.com/milosgajdos/go-diffdrive/consistency"
)

// Entry pairs an estimator name with its consistency summary.
type Entry struct {
	Name    string
	Summary consistency.Summary
}

// Render writes the run summary to w: the scenario parameters as the table
// title and one row per estimator with its ANEES, chi-square interval, RMSE,
// exclusion count and verdict.
func Render(w io.Writer, c diffdrive.Config, entries []Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%d steps | seeds %d/%d | %d landmarks",
		c.TimeSteps, c.MotionSeed, c.SensorSeed, len(c.Landmarks)))

	t.AppendHeader(table.Row{"Estimator", "ANEES", "95% CI", "RMSE", "Excluded", "Verdict"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Name,
			fmt.Sprintf("%.3f", e.Summary.ANEES),
			fmt.Sprintf("[%.2f, %.2f]", e.Summary.Lower, e.Summary.Upper),
			fmt.Sprintf("%.3f", e.Summary.RMSE),
			e.Summary.Excluded,
			e.Summary.Verdict,
		})
	}

	t.Render()
}
