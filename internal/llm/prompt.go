package llm

import (
	"fmt"
	"strings"

	"github.com/repoaudit/repoaudit/internal/bundle"
)

const systemPrompt = `You are a senior software auditor reviewing a repository.
You receive a directory summary, selected redacted file snippets, and findings
from a local heuristic pass. Report only issues supported by the provided
evidence; never invent files, lines, or behavior you cannot see.

Respond with a single JSON object and nothing else, using exactly this shape:
{
  "findings": [{"severity": "critical|high|medium|low|info",
                "category": "Security|Bug|Performance|Reliability|Documentation|Dependencies|TechnicalDebt",
                "title": "...",
                "evidence": {"type": "file_line", "file": "...", "line": 1, "snippet": "..."},
                "impact": "...", "recommendation": "...",
                "confidence": "fact|inference|hypothesis"}],
  "todos": [{"severity": "...", "category": "...", "title": "...",
             "root_cause": "...", "evidence": {...}, "fix_approach": "...", "verify": "..."}],
  "blockers": [{"description": "...", "reason": "...", "how_to_obtain": "..."}],
  "is_partial": false
}`

// BuildPrompt renders the user message from an evidence bundle. The bundle
// is already redacted and budget-bounded; this function adds no content of
// its own beyond structure.
func BuildPrompt(b *bundle.EvidenceBundle) string {
	var sb strings.Builder

	sb.WriteString("## Directory summary\n\n")
	sb.WriteString(b.TreeSummary)
	sb.WriteString("\n## Local heuristic findings\n\n")
	if len(b.LocalFindings) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, lf := range b.LocalFindings {
		if lf.LineNumber > 0 {
			fmt.Fprintf(&sb, "- [%s] %s at %s:%d\n", lf.FindingType, lf.Description, lf.FilePath, lf.LineNumber)
		} else {
			fmt.Fprintf(&sb, "- [%s] %s (%s)\n", lf.FindingType, lf.Description, lf.FilePath)
		}
	}

	sb.WriteString("\n## Selected files (redacted)\n")
	for _, f := range b.Selected {
		fmt.Fprintf(&sb, "\n### %s", f.RelPath)
		if f.Truncated {
			sb.WriteString(" (truncated)")
		}
		sb.WriteString("\n\n```\n")
		sb.WriteString(f.Snippet)
		sb.WriteString("\n```\n")
	}

	if b.Truncated {
		sb.WriteString("\nNote: the evidence set was truncated to fit transmission limits.\n")
	}
	return sb.String()
}
