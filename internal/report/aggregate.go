// Package report merges local and LLM findings into the final ordered
// report and renders it for console, Markdown, and JSON consumers.
package report

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/repoaudit/repoaudit/internal/heuristics"
	"github.com/repoaudit/repoaudit/internal/ingest"
	"github.com/repoaudit/repoaudit/internal/types"
)

// localCategory maps heuristic finding types onto the canonical category
// enum. Anything unknown lands in TechnicalDebt rather than being dropped.
var localCategory = map[string]types.Category{
	heuristics.TypeSQLInjectionRisk:   types.CatSecurity,
	heuristics.TypePathTraversalRisk:  types.CatSecurity,
	heuristics.TypeHardcodedSecret:    types.CatSecurity,
	heuristics.TypeUngitignoredEnv:    types.CatSecurity,
	heuristics.TypeInsecureHTTP:       types.CatSecurity,
	heuristics.TypeDangerousEval:      types.CatSecurity,
	heuristics.TypeSensitiveFile:      types.CatSecurity,
	heuristics.TypeSuspiciousPostinst: types.CatSecurity,
	heuristics.TypeDebugCode:          types.CatTechnicalDebt,
	heuristics.TypeTodoMarker:         types.CatTechnicalDebt,
	heuristics.TypeMissingReadme:      types.CatDocumentation,
	heuristics.TypeMissingLicense:     types.CatDocumentation,
	heuristics.TypeMissingGitignore:   types.CatDocumentation,
}

// Input carries everything the aggregator needs for one run.
type Input struct {
	RunID    string
	Snapshot *ingest.Snapshot
	Local    []types.LocalFinding
	// Llm is nil when the LLM step was skipped or failed.
	Llm *types.AnalysisResult
	// Blockers collected by the pipeline (LLM failure reasons etc).
	Blockers  []types.Blocker
	IsPartial bool
}

// Aggregate builds the final report. Findings are ordered by severity
// descending, then confidence descending, then local before LLM, then
// discovery order; the ordering is total and deterministic.
func Aggregate(in Input) *types.Report {
	var findings []types.Finding

	for _, lf := range in.Local {
		cat, ok := localCategory[lf.FindingType]
		if !ok {
			cat = types.CatTechnicalDebt
		}
		findings = append(findings, types.Finding{
			ID:       findingID("local", lf.FindingType, lf.FilePath, lf.LineNumber),
			Severity: lf.Severity,
			Category: cat,
			Title:    lf.Description,
			Evidence: types.Evidence{
				Type:    types.EvidenceFileLine,
				File:    lf.FilePath,
				Line:    lf.LineNumber,
				Snippet: lf.Snippet,
			},
			Remedy:     lf.Remedy,
			Origin:     types.OriginLocal,
			Confidence: types.ConfFact,
		})
	}

	var todos []types.TodoItem
	var blockers []types.Blocker
	blockers = append(blockers, in.Blockers...)

	if in.Llm != nil {
		for i, f := range in.Llm.Findings {
			if f.ID == "" {
				f.ID = findingID("llm", string(f.Category), f.Evidence.File, i)
			}
			findings = append(findings, f)
		}
		for i, td := range in.Llm.Todos {
			if td.ID == "" {
				td.ID = todoID(td, i)
			}
			todos = append(todos, td)
		}
		blockers = append(blockers, in.Llm.Blockers...)
	}

	sortFindings(findings)

	categorized := make(map[types.Category][]types.Finding)
	for _, f := range findings {
		categorized[f.Category] = append(categorized[f.Category], f)
	}

	var critical, high, medium int
	var criticalTitles []string
	for _, f := range findings {
		switch f.Severity {
		case types.SevCritical:
			critical++
			criticalTitles = append(criticalTitles, f.Title)
		case types.SevHigh:
			high++
		case types.SevMedium:
			medium++
		}
	}

	top := make([]string, 0, 3)
	for _, f := range findings {
		if len(top) == 3 {
			break
		}
		top = append(top, f.Title)
	}

	isPartial := in.IsPartial
	if in.Llm != nil && in.Llm.IsPartial {
		isPartial = true
	}

	return &types.Report{
		RunID: in.RunID,
		ExecutiveSummary: types.ExecutiveSummary{
			HealthScore:      healthScore(critical, high, medium),
			TopPriorities:    top,
			CriticalFindings: criticalTitles,
			Blockers:         blockers,
		},
		ProjectMap:        buildProjectMap(in.Snapshot),
		Categorized:       categorized,
		MasterTodoBacklog: sortTodos(todos),
		SessionLog:        buildSessionLog(in, isPartial),
		IsPartial:         isPartial,
	}
}

// healthScore is 10 minus 3 per critical, 2 per high, 1 per medium,
// floored at 1.
func healthScore(critical, high, medium int) int {
	score := 10 - 3*critical - 2*high - medium
	if score < 1 {
		return 1
	}
	return score
}

// sortFindings applies the total report order. sort.SliceStable preserves
// discovery order as the final tie-break.
func sortFindings(fs []types.Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		if a, b := fs[i].Severity.Rank(), fs[j].Severity.Rank(); a != b {
			return a > b
		}
		if a, b := fs[i].Confidence.Rank(), fs[j].Confidence.Rank(); a != b {
			return a > b
		}
		if fs[i].Origin != fs[j].Origin {
			return fs[i].Origin == types.OriginLocal
		}
		return false
	})
}

func sortTodos(ts []types.TodoItem) []types.TodoItem {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].Severity.Rank() > ts[j].Severity.Rank()
	})
	return ts
}

func buildProjectMap(snap *ingest.Snapshot) types.ProjectMap {
	var pm types.ProjectMap
	if snap == nil {
		return pm
	}
	pm.DirectoryTree = snap.TreeSummary
	for _, d := range snap.TechStack.Detected {
		pm.TechStack.Detected = append(pm.TechStack.Detected, types.DetectedTechnology{
			Name:     d.Name,
			Evidence: d.Evidence,
		})
	}
	pm.TechStack.PackageManagers = snap.TechStack.PackageManagers
	for _, e := range snap.Entrypoints {
		pm.Entrypoints = append(pm.Entrypoints, types.Entrypoint{
			FilePath:    e.RelPath,
			EntryType:   e.EntryType,
			Description: e.Description,
		})
	}
	return pm
}

func buildSessionLog(in Input, isPartial bool) types.SessionLog {
	log := types.SessionLog{
		Completed: []string{"ingestion", "redaction", "local analysis"},
	}
	if in.Llm != nil {
		log.Completed = append(log.Completed, "llm analysis")
	}
	log.Completed = append(log.Completed, "report aggregation")
	if isPartial {
		log.NextSession = append(log.NextSession, "re-run with a reachable LLM provider for full coverage")
	}
	return log
}

func findingID(origin, kind, file string, n int) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s|%s|%s|%d", origin, kind, file, n))
	return fmt.Sprintf("F-%08x", uint32(h))
}

func todoID(td types.TodoItem, n int) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s|%s|%d", td.Title, td.Evidence.File, n))
	return fmt.Sprintf("T-%08x", uint32(h))
}
