// Package pipeline runs the fixed scan sequence: ingest, redact and
// analyze locally, optionally bundle and consult the LLM, then aggregate.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/repoaudit/repoaudit/internal/bundle"
	"github.com/repoaudit/repoaudit/internal/gitinfo"
	"github.com/repoaudit/repoaudit/internal/heuristics"
	"github.com/repoaudit/repoaudit/internal/ingest"
	"github.com/repoaudit/repoaudit/internal/llm"
	"github.com/repoaudit/repoaudit/internal/redact"
	"github.com/repoaudit/repoaudit/internal/report"
	"github.com/repoaudit/repoaudit/internal/types"
)

// Config is everything one scan run needs.
type Config struct {
	Root    string
	Ingest  ingest.Options
	Limits  types.ScanLimits
	Threads int

	// LocalOnly skips the bundle and LLM phases entirely.
	LocalOnly bool
	// Analyzer performs the LLM step; nil behaves like LocalOnly.
	Analyzer *llm.Analyzer
	// Provider identifies the LLM endpoint for the manifest.
	Provider types.ProviderInfo

	Log zerolog.Logger
}

// ScanResult is the pipeline's output.
type ScanResult struct {
	Manifest   types.RunManifest
	Report     *types.Report
	Redactions types.RedactionSummary
	// FilesScanned counts snapshot entries with content.
	FilesScanned int
}

// Run executes the pipeline. Only ingestion and pattern compilation can
// fail the run; once a snapshot exists, every later failure degrades to a
// partial report with a blocker. Cancellation is checked between phases.
func Run(ctx context.Context, cfg Config) (*ScanResult, error) {
	started := time.Now().UTC()
	log := cfg.Log.With().Str("component", "Pipeline").Logger()

	eng, err := redact.NewEngine()
	if err != nil {
		return nil, err
	}

	snap, err := ingest.Ingest(ctx, cfg.Root, cfg.Ingest)
	if err != nil {
		return nil, err
	}
	scanned := 0
	for _, f := range snap.Files {
		if f.Excluded == "" {
			scanned++
		}
	}
	log.Info().Int("files", scanned).Int("total", len(snap.Files)).Msg("ingestion complete")

	// Redaction runs over every eligible file regardless of whether the
	// LLM phase is enabled; everything downstream sees placeholders only.
	for i := range snap.Files {
		f := &snap.Files[i]
		if f.Excluded != "" || redact.SkipReason(f.RelPath, []byte(f.Content)) != "" {
			continue
		}
		f.Content, _ = eng.Redact(f.Content)
	}
	log.Info().Int("redactions", eng.Summary().TotalRedactions).Msg("redaction complete")

	runID := makeRunID(cfg.Root, started)

	local := heuristics.NewAnalyzer(cfg.Threads, cfg.Log).Analyze(ctx, snap)
	log.Info().Int("findings", len(local)).Msg("local analysis complete")

	var llmResult *types.AnalysisResult
	var blockers []types.Blocker
	partial := false

	switch {
	case cfg.LocalOnly || cfg.Analyzer == nil:
		partial = true
		blockers = append(blockers, types.Blocker{
			Description: "LLM analysis not performed",
			Reason:      "scan ran in local-only mode",
			HowToObtain: "re-run without --local-only and configure a provider profile",
		})
	case ctx.Err() != nil:
		partial = true
		blockers = append(blockers, types.Blocker{
			Description: "LLM analysis not performed",
			Reason:      "scan was cancelled before the analysis phase",
		})
	default:
		b := bundle.Build(snap, local, cfg.Limits)
		res, llmErr := cfg.Analyzer.Analyze(ctx, b)
		if llmErr != nil {
			partial = true
			blockers = append(blockers, types.Blocker{
				Description: "LLM analysis failed",
				Reason:      llmErr.Error(),
				HowToObtain: "check provider configuration and connectivity, then re-run",
			})
			log.Warn().Err(llmErr).Msg("continuing with partial report")
		} else {
			llmResult = res
		}
	}

	rep := report.Aggregate(report.Input{
		RunID:     runID,
		Snapshot:  snap,
		Local:     local,
		Llm:       llmResult,
		Blockers:  blockers,
		IsPartial: partial,
	})

	git := gitinfo.Lookup(cfg.Root)
	ended := time.Now().UTC()
	manifest := types.RunManifest{
		RunID: runID,
		Repo: types.RepoInfo{
			Path:      cfg.Root,
			GitRemote: git.Remote,
			GitCommit: git.Commit,
		},
		Provider:   cfg.Provider,
		Limits:     cfg.Limits,
		Timestamps: types.Timestamps{Started: started, Ended: &ended},
	}

	return &ScanResult{
		Manifest:     manifest,
		Report:       rep,
		Redactions:   eng.Summary(),
		FilesScanned: scanned,
	}, nil
}

func makeRunID(root string, started time.Time) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s|%d", root, started.UnixNano()))
	return fmt.Sprintf("run-%s-%08x", started.Format("20060102-150405"), uint32(h))
}
