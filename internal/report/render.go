package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/repoaudit/repoaudit/internal/types"
)

// RenderTable prints the findings table and the summary line to w. Output
// order follows the report's total ordering.
func RenderTable(w io.Writer, r *types.Report) {
	if r.IsPartial {
		fmt.Fprintln(w, "NOTE: this report is PARTIAL; the LLM analysis step did not complete.")
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Health score: %d/10\n", r.ExecutiveSummary.HealthScore)
	if len(r.ExecutiveSummary.TopPriorities) > 0 {
		fmt.Fprintln(w, "Top priorities:")
		for i, p := range r.ExecutiveSummary.TopPriorities {
			fmt.Fprintf(w, "  %d. %s\n", i+1, p)
		}
	}
	fmt.Fprintln(w)

	table := tablewriter.NewTable(w)
	table.Header("Severity", "Category", "Title", "Location", "Origin")
	for _, cat := range types.Categories() {
		for _, f := range r.Categorized[cat] {
			loc := f.Evidence.File
			if f.Evidence.Line > 0 {
				loc = fmt.Sprintf("%s:%d", f.Evidence.File, f.Evidence.Line)
			}
			_ = table.Append(string(f.Severity), string(f.Category), f.Title, loc, string(f.Origin))
		}
	}
	_ = table.Render()

	for _, b := range r.ExecutiveSummary.Blockers {
		fmt.Fprintf(w, "blocker: %s (%s)\n", b.Description, b.Reason)
	}
}
