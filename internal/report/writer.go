package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/repoaudit/repoaudit/internal/types"
)

// Artifact file names written per run.
const (
	ReportJSONName   = "report.json"
	ReportMDName     = "report.md"
	ManifestName     = "manifest.json"
	RedactionLogName = "redaction_log.json"
)

// WriteArtifacts writes the run's output files into dir, creating it if
// needed. The redaction log carries counts only.
func WriteArtifacts(dir string, r *types.Report, manifest types.RunManifest, redactions types.RedactionSummary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, ReportJSONName), r); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ReportMDName), []byte(RenderMarkdown(r)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ReportMDName, err)
	}
	if err := writeJSON(filepath.Join(dir, ManifestName), manifest); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, RedactionLogName), redactions)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
