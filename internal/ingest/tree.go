package ingest

import (
	"sort"
	"strings"
)

const (
	treeMaxLines = 50
	treeMaxDepth = 4
)

// buildTreeSummary renders a bounded, deterministic directory listing for
// the evidence bundle and the project map. Paths are sorted; depth and line
// count are capped, with a trailing ellipsis line when truncated.
func buildTreeSummary(files []ScannedFile) string {
	entries := map[string]bool{}
	for _, f := range files {
		parts := strings.Split(f.RelPath, "/")
		if len(parts) > treeMaxDepth {
			parts = parts[:treeMaxDepth]
			entries[strings.Join(parts, "/")+"/"] = true
			continue
		}
		for i := 1; i < len(parts); i++ {
			entries[strings.Join(parts[:i], "/")+"/"] = true
		}
		entries[f.RelPath] = true
	}

	sorted := make([]string, 0, len(entries))
	for e := range entries {
		sorted = append(sorted, e)
	}
	sort.Strings(sorted)

	var b strings.Builder
	lines := 0
	for _, e := range sorted {
		if lines >= treeMaxLines {
			b.WriteString("...\n")
			break
		}
		depth := strings.Count(strings.TrimSuffix(e, "/"), "/")
		b.WriteString(strings.Repeat("  ", depth))
		idx := strings.LastIndex(strings.TrimSuffix(e, "/"), "/")
		name := e
		if idx >= 0 {
			name = e[idx+1:]
		}
		b.WriteString(name)
		b.WriteByte('\n')
		lines++
	}
	return b.String()
}
