// Package bundle assembles the bounded evidence set that may be
// transmitted to an LLM provider. File contents reach it already redacted
// by the pipeline's redaction phase.
package bundle

import (
	"sort"

	"github.com/repoaudit/repoaudit/internal/ingest"
	"github.com/repoaudit/repoaudit/internal/redact"
	"github.com/repoaudit/repoaudit/internal/types"
)

// SelectedFile is one redacted snippet chosen for transmission.
type SelectedFile struct {
	RelPath   string `json:"rel_path"`
	Snippet   string `json:"snippet"`
	Truncated bool   `json:"truncated"`
}

// EvidenceBundle is built once per run and read-only afterward.
// Invariants: len(Selected) <= limits.MaxFilesSent and
// len(TreeSummary) + sum(len(snippet)) <= limits.MaxTotalCharsSent.
type EvidenceBundle struct {
	TreeSummary   string               `json:"tree_summary"`
	Selected      []SelectedFile       `json:"selected_files"`
	LocalFindings []types.LocalFinding `json:"local_findings"`
	Truncated     bool                 `json:"truncated"`
}

// Build ranks eligible files and packs snippets under the character and
// file budgets. Only files without a skip reason are eligible. Truncated
// is set on the bundle whenever any candidate content was cut, whether by
// the snippet cap, the character budget, or the file cap.
func Build(snap *ingest.Snapshot, findings []types.LocalFinding, limits types.ScanLimits) *EvidenceBundle {
	b := &EvidenceBundle{
		TreeSummary:   snap.TreeSummary,
		LocalFindings: findings,
	}

	budget := limits.MaxTotalCharsSent - len(b.TreeSummary)
	if budget < 0 {
		b.TreeSummary = b.TreeSummary[:limits.MaxTotalCharsSent]
		budget = 0
		b.Truncated = true
	}

	for _, f := range rankFiles(snap, findings) {
		if len(b.Selected) >= limits.MaxFilesSent {
			b.Truncated = true
			break
		}
		if budget == 0 {
			b.Truncated = true
			break
		}

		snippet := f.Content
		cut := false
		if len(snippet) > limits.SnippetChars {
			snippet = snippet[:limits.SnippetChars]
			cut = true
		}
		if len(snippet) > budget {
			snippet = snippet[:budget]
			cut = true
		}
		if cut {
			b.Truncated = true
		}
		budget -= len(snippet)

		b.Selected = append(b.Selected, SelectedFile{
			RelPath:   f.RelPath,
			Snippet:   snippet,
			Truncated: cut,
		})
	}
	return b
}

// rankFiles orders bundle candidates: entrypoints and manifests first,
// then files carrying local findings, then the remainder by path.
func rankFiles(snap *ingest.Snapshot, findings []types.LocalFinding) []ingest.ScannedFile {
	entry := map[string]bool{}
	for _, e := range snap.Entrypoints {
		entry[e.RelPath] = true
	}
	flagged := map[string]bool{}
	for _, lf := range findings {
		flagged[lf.FilePath] = true
	}

	rank := func(f ingest.ScannedFile) int {
		switch {
		case entry[f.RelPath]:
			return 0
		case flagged[f.RelPath]:
			return 1
		default:
			return 2
		}
	}

	var eligible []ingest.ScannedFile
	for _, f := range snap.Files {
		if f.Excluded != "" {
			continue
		}
		if redact.SkipReason(f.RelPath, []byte(f.Content)) != "" {
			continue
		}
		eligible = append(eligible, f)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		ri, rj := rank(eligible[i]), rank(eligible[j])
		if ri != rj {
			return ri < rj
		}
		return eligible[i].RelPath < eligible[j].RelPath
	})
	return eligible
}
