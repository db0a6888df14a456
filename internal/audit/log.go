// Package audit appends one JSONL record per scan run so repeated audits
// of a repository can be compared over time. Records carry counts and
// metadata only, never secret values or file content.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunRecord is one line of the audit log.
type RunRecord struct {
	Timestamp       time.Time      `json:"timestamp"`
	RunID           string         `json:"run_id"`
	Root            string         `json:"root"`
	FilesScanned    int            `json:"files_scanned"`
	TotalFindings   int            `json:"total_findings"`
	SeverityCounts  map[string]int `json:"severity_counts"`
	TotalRedactions int            `json:"total_redactions"`
	HealthScore     int            `json:"health_score"`
	IsPartial       bool           `json:"is_partial"`
	Duration        string         `json:"duration"`
}

// Log appends run records under the repository root.
type Log struct {
	logPath string
}

// NewLog places the log inside .git/ when present, otherwise at the root.
func NewLog(root string) *Log {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".repoaudit_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "repoaudit_audit.jsonl")
	}
	return &Log{logPath: logPath}
}

// Append writes one record. Owner-only permissions; the record holds scan
// metadata, not content.
func (l *Log) Append(rec RunRecord) error {
	if rec.RunID == "" {
		rec.RunID = fmt.Sprintf("run_%d", time.Now().Unix())
	}
	f, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// History returns records newest-first. Malformed lines are skipped.
func (l *Log) History() ([]RunRecord, error) {
	f, err := os.Open(l.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec RunRecord
		if err := dec.Decode(&rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
