// Package types holds the shared data model for scans, findings, and reports.
package types

import (
	"strings"
	"time"
)

// Severity is the impact level of a finding.
type Severity string

const (
	SevCritical Severity = "critical"
	SevHigh     Severity = "high"
	SevMedium   Severity = "medium"
	SevLow      Severity = "low"
	SevInfo     Severity = "info"
)

// Rank returns a sortable weight, higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMedium:
		return 2
	case SevLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps free-form severity text to the closed set.
// Unknown values default to info.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical", "crit":
		return SevCritical
	case "high":
		return SevHigh
	case "medium", "med", "moderate":
		return SevMedium
	case "low":
		return SevLow
	default:
		return SevInfo
	}
}

// Category is the single canonical category enum shared by findings and todos.
type Category string

const (
	CatSecurity      Category = "Security"
	CatBug           Category = "Bug"
	CatPerformance   Category = "Performance"
	CatReliability   Category = "Reliability"
	CatDocumentation Category = "Documentation"
	CatDependencies  Category = "Dependencies"
	CatTechnicalDebt Category = "TechnicalDebt"
)

// Categories lists every canonical category in report order.
func Categories() []Category {
	return []Category{
		CatSecurity, CatBug, CatPerformance, CatReliability,
		CatDocumentation, CatDependencies, CatTechnicalDebt,
	}
}

// ParseCategory matches raw category text case-insensitively against the
// canonical set. The second return reports whether the match was exact;
// unmatched input maps to TechnicalDebt.
func ParseCategory(raw string) (Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "security" || strings.HasPrefix(s, "sec"):
		return CatSecurity, true
	case strings.HasPrefix(s, "bug"):
		return CatBug, true
	case s == "performance" || strings.HasPrefix(s, "perf"):
		return CatPerformance, true
	case s == "reliability" || strings.HasPrefix(s, "reliab"):
		return CatReliability, true
	case s == "documentation" || s == "docs" || s == "doc":
		return CatDocumentation, true
	case s == "dependencies" || s == "deps" || strings.Contains(s, "dependency"):
		return CatDependencies, true
	case s == "technicaldebt" || s == "technical debt" || s == "debt":
		return CatTechnicalDebt, true
	default:
		return CatTechnicalDebt, false
	}
}

// Confidence grades how well a finding is supported by evidence.
type Confidence string

const (
	ConfFact       Confidence = "fact"
	ConfInference  Confidence = "inference"
	ConfHypothesis Confidence = "hypothesis"
)

// Rank returns a sortable weight, higher is better supported.
func (c Confidence) Rank() int {
	switch c {
	case ConfFact:
		return 2
	case ConfInference:
		return 1
	default:
		return 0
	}
}

// ParseConfidence maps free-form confidence text to the closed set.
// Unknown values default to hypothesis.
func ParseConfidence(raw string) Confidence {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fact":
		return ConfFact
	case "inference":
		return ConfInference
	default:
		return ConfHypothesis
	}
}

// Origin records which analysis stage produced a finding.
type Origin string

const (
	OriginLocal Origin = "local"
	OriginLlm   Origin = "llm"
)

// EvidenceType discriminates the Evidence variants.
type EvidenceType string

const (
	EvidenceFileLine     EvidenceType = "file_line"
	EvidenceFileFunction EvidenceType = "file_function"
	EvidenceReproduction EvidenceType = "reproduction"
)

// Evidence anchors a finding to something concrete: a file and line, a file
// and function, or reproduction steps. Fields are populated per Type.
type Evidence struct {
	Type     EvidenceType `json:"type"`
	File     string       `json:"file,omitempty"`
	Line     int          `json:"line,omitempty"`
	Function string       `json:"function,omitempty"`
	Snippet  string       `json:"snippet,omitempty"`
	Steps    []string     `json:"steps,omitempty"`
	Observed string       `json:"observed,omitempty"`
}

// Finding is a merged (local or LLM) audit finding.
type Finding struct {
	ID         string     `json:"id"`
	Severity   Severity   `json:"severity"`
	Category   Category   `json:"category"`
	Title      string     `json:"title"`
	Evidence   Evidence   `json:"evidence"`
	Impact     string     `json:"impact,omitempty"`
	Remedy     string     `json:"recommendation,omitempty"`
	Origin     Origin     `json:"origin"`
	Confidence Confidence `json:"confidence"`
}

// TodoItem is an actionable backlog entry derived from a finding.
type TodoItem struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	RootCause   string   `json:"root_cause,omitempty"`
	Evidence    Evidence `json:"evidence"`
	FixApproach string   `json:"fix_approach,omitempty"`
	Verify      string   `json:"verify,omitempty"`
	BlockedBy   string   `json:"blocked_by,omitempty"`
}

// Blocker explains why an analysis could not be completed in full.
type Blocker struct {
	Description string `json:"description"`
	Reason      string `json:"reason"`
	HowToObtain string `json:"how_to_obtain,omitempty"`
}

// LocalFinding is produced by the heuristic analyzer without any network
// call. Every instance references concrete evidence.
type LocalFinding struct {
	FindingType string   `json:"finding_type"`
	Description string   `json:"description"`
	FilePath    string   `json:"file_path"`
	Severity    Severity `json:"severity"`
	LineNumber  int      `json:"line_number,omitempty"` // 0 when not line-scoped
	Snippet     string   `json:"snippet,omitempty"`
	Remedy      string   `json:"recommendation,omitempty"`
}

// AnalysisResult is the outcome of the analysis phase (local, LLM, or both).
type AnalysisResult struct {
	Findings  []Finding  `json:"findings"`
	Todos     []TodoItem `json:"todos"`
	Blockers  []Blocker  `json:"blockers"`
	IsPartial bool       `json:"is_partial"`
}

// RedactionSummary counts redactions by secret kind. It never carries the
// original or replacement values.
type RedactionSummary struct {
	TotalRedactions int            `json:"total_redactions"`
	ByType          map[string]int `json:"by_type"`
}

// ScanLimits bounds what may be sent to an LLM provider.
type ScanLimits struct {
	MaxFilesSent      int `json:"max_files_sent" yaml:"max_files_sent"`
	MaxTotalCharsSent int `json:"max_total_chars_sent" yaml:"max_total_chars_sent"`
	SnippetChars      int `json:"snippet_chars" yaml:"snippet_chars"`
}

// DefaultScanLimits returns the stock evidence budget.
func DefaultScanLimits() ScanLimits {
	return ScanLimits{
		MaxFilesSent:      40,
		MaxTotalCharsSent: 250_000,
		SnippetChars:      4_000,
	}
}

// RepoInfo identifies the repository under audit.
type RepoInfo struct {
	Path      string `json:"path"`
	GitRemote string `json:"git_remote,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// ProviderInfo identifies the LLM provider configuration for a run.
type ProviderInfo struct {
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	LlmEnabled bool   `json:"llm_enabled"`
}

// Timestamps records run timing.
type Timestamps struct {
	Started time.Time  `json:"started"`
	Ended   *time.Time `json:"ended,omitempty"`
}

// RunManifest is the top-level metadata for one scan run.
type RunManifest struct {
	RunID      string       `json:"run_id"`
	Repo       RepoInfo     `json:"repo"`
	Provider   ProviderInfo `json:"provider"`
	Limits     ScanLimits   `json:"limits"`
	Timestamps Timestamps   `json:"timestamps"`
}

// Entrypoint is a detected application or build entry file.
type Entrypoint struct {
	FilePath    string `json:"file_path"`
	EntryType   string `json:"entry_type"`
	Description string `json:"description"`
}

// DetectedTechnology is one best-effort tech stack classification.
type DetectedTechnology struct {
	Name     string `json:"name"`
	Evidence string `json:"evidence"`
}

// TechStack summarizes detected technologies and package managers.
type TechStack struct {
	Detected        []DetectedTechnology `json:"detected"`
	PackageManagers []string             `json:"package_managers"`
}

// ExecutiveSummary heads the report with the health score and priorities.
type ExecutiveSummary struct {
	HealthScore      int       `json:"health_score"` // 1..10
	TopPriorities    []string  `json:"top_priorities"`
	CriticalFindings []string  `json:"critical_findings"`
	Blockers         []Blocker `json:"blockers"`
}

// ProjectMap describes repository structure for the report.
type ProjectMap struct {
	DirectoryTree string       `json:"directory_tree"`
	TechStack     TechStack    `json:"tech_stack"`
	Entrypoints   []Entrypoint `json:"entrypoints"`
}

// SessionLog tracks what a run completed and what remains.
type SessionLog struct {
	Completed     []string `json:"completed"`
	InProgress    []string `json:"in_progress"`
	Discovered    []string `json:"discovered"`
	Reprioritized []string `json:"reprioritized"`
	NextSession   []string `json:"next_session"`
}

// Report is the final merged audit report. It is constructed once at the end
// of a run and never mutated afterward.
type Report struct {
	RunID             string                 `json:"run_id"`
	ExecutiveSummary  ExecutiveSummary       `json:"executive_summary"`
	ProjectMap        ProjectMap             `json:"project_map"`
	Categorized       map[Category][]Finding `json:"categorized_findings"`
	MasterTodoBacklog []TodoItem             `json:"master_todo_backlog"`
	SessionLog        SessionLog             `json:"session_log"`
	IsPartial         bool                   `json:"is_partial"`
}
