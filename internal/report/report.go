// Package report renders run summaries for the terminal.
package report

import (
	"fmt"
	"io"

	"polysynth/domain/run"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderRun writes one row per variant of the manifest followed by a totals line
func RenderRun(w io.Writer, manifest *run.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("report: nil manifest")
	}

	_, _ = fmt.Fprintf(w, "Run %s (execution %s)\n", manifest.RunID, manifest.ExecutionID)
	_, _ = fmt.Fprintf(w, "Polynomial: %d variables, %d terms, hash %s\n",
		manifest.NumVars, manifest.NumTerms, manifest.PolynomialHash.Short())

	if len(manifest.Variants) == 0 {
		_, _ = fmt.Fprintln(w, "(0 variants)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Dataset", "Target", "Profile", "Cardinality", "Categorical", "Numeric", "Status"})

	for i, v := range manifest.Variants {
		status := string(v.Status)
		if v.Error != "" {
			status = fmt.Sprintf("%s: %s", v.Status, v.Error)
		}
		t.AppendRow(table.Row{
			i + 1,
			v.Name,
			v.TargetPolicy,
			v.CategoricalProfile,
			v.Cardinality,
			len(v.CategoricalColumns),
			len(v.NumericColumns),
			status,
		})
	}

	failed := len(manifest.Failed())
	t.AppendFooter(table.Row{"", "", "", "", "", "", "written", len(manifest.Variants) - failed})
	t.Render()

	if failed > 0 {
		_, _ = fmt.Fprintf(w, "%d of %d variants failed\n", failed, len(manifest.Variants))
	}
	return nil
}
