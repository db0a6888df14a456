package report

import (
	"fmt"
	"strings"

	"github.com/repoaudit/repoaudit/internal/types"
)

// RenderMarkdown produces the report.md artifact.
func RenderMarkdown(r *types.Report) string {
	var b strings.Builder

	b.WriteString("# Repository Audit Report\n\n")
	if r.IsPartial {
		b.WriteString("> **Partial report.** The LLM analysis step was skipped or did not complete; findings below may be incomplete.\n\n")
	}
	fmt.Fprintf(&b, "Run: `%s`\n\n", r.RunID)

	b.WriteString("## Executive summary\n\n")
	fmt.Fprintf(&b, "**Health score: %d/10**\n\n", r.ExecutiveSummary.HealthScore)

	if len(r.ExecutiveSummary.TopPriorities) > 0 {
		b.WriteString("Top priorities:\n\n")
		for i, p := range r.ExecutiveSummary.TopPriorities {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
		b.WriteString("\n")
	}
	if len(r.ExecutiveSummary.CriticalFindings) > 0 {
		b.WriteString("Critical findings:\n\n")
		for _, c := range r.ExecutiveSummary.CriticalFindings {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	if len(r.ExecutiveSummary.Blockers) > 0 {
		b.WriteString("Blockers:\n\n")
		for _, bl := range r.ExecutiveSummary.Blockers {
			fmt.Fprintf(&b, "- %s: %s\n", bl.Description, bl.Reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Project map\n\n")
	if len(r.ProjectMap.TechStack.Detected) > 0 {
		b.WriteString("Detected technologies: ")
		var names []string
		for _, d := range r.ProjectMap.TechStack.Detected {
			names = append(names, d.Name)
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n\n")
	}
	if r.ProjectMap.DirectoryTree != "" {
		b.WriteString("```\n")
		b.WriteString(r.ProjectMap.DirectoryTree)
		b.WriteString("```\n\n")
	}

	b.WriteString("## Findings by category\n\n")
	for _, cat := range types.Categories() {
		fs := r.Categorized[cat]
		if len(fs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", cat)
		for _, f := range fs {
			loc := f.Evidence.File
			if f.Evidence.Line > 0 {
				loc = fmt.Sprintf("%s:%d", f.Evidence.File, f.Evidence.Line)
			}
			fmt.Fprintf(&b, "- **[%s]** %s (`%s`, %s, %s)\n", f.Severity, f.Title, loc, f.Origin, f.Confidence)
			if f.Remedy != "" {
				fmt.Fprintf(&b, "  - Recommendation: %s\n", f.Remedy)
			}
		}
		b.WriteString("\n")
	}

	if len(r.MasterTodoBacklog) > 0 {
		b.WriteString("## Todo backlog\n\n")
		for _, td := range r.MasterTodoBacklog {
			fmt.Fprintf(&b, "- [%s] %s", td.Severity, td.Title)
			if td.FixApproach != "" {
				fmt.Fprintf(&b, " (fix: %s)", td.FixApproach)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Session log\n\n")
	for _, c := range r.SessionLog.Completed {
		fmt.Fprintf(&b, "- done: %s\n", c)
	}
	for _, n := range r.SessionLog.NextSession {
		fmt.Fprintf(&b, "- next: %s\n", n)
	}
	return b.String()
}
