package repoaudit

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/repoaudit/repoaudit/internal/audit"
	"github.com/repoaudit/repoaudit/internal/config"
	"github.com/repoaudit/repoaudit/internal/ingest"
	"github.com/repoaudit/repoaudit/internal/llm"
	"github.com/repoaudit/repoaudit/internal/logging"
	"github.com/repoaudit/repoaudit/internal/pipeline"
	"github.com/repoaudit/repoaudit/internal/report"
	"github.com/repoaudit/repoaudit/internal/types"
	"github.com/repoaudit/repoaudit/pkg/core"
)

var (
	flagLocalOnly    bool
	flagProfile      string
	flagOut          string
	flagInclude      string
	flagExclude      string
	flagMaxFiles     int
	flagMaxChars     int
	flagSnippetChars int
	flagMaxFileSize  int64
	flagMaxDepth     int
	flagTimeout      time.Duration
	flagNoAuditLog   bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a repository and write an audit report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().BoolVar(&flagLocalOnly, "local-only", false, "skip the LLM analysis phase")
	cmd.Flags().StringVar(&flagProfile, "profile", "", "provider profile name from config")
	cmd.Flags().StringVar(&flagOut, "out", "", "output directory for artifacts (default <path>/repoaudit-out)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "max files sent to the LLM (default 40)")
	cmd.Flags().IntVar(&flagMaxChars, "max-chars", 0, "max total chars sent to the LLM (default 250000)")
	cmd.Flags().IntVar(&flagSnippetChars, "snippet-chars", 0, "max chars per file snippet (default 4000)")
	cmd.Flags().Int64Var(&flagMaxFileSize, "max-file-size", 0, "skip files larger than this many bytes (default 1 MiB)")
	cmd.Flags().IntVar(&flagMaxDepth, "max-depth", 0, "max directory depth (default 12)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "scan-level deadline (e.g. 5m, 0 = none)")
	cmd.Flags().BoolVar(&flagNoAuditLog, "no-audit-log", false, "do not append to the repository audit log")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	root, _ := filepath.Abs(path)

	// CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(root); err == nil {
		lcfg = c
	}

	log := logging.New(logging.Options{
		Level:   pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel),
		NoColor: pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor),
		File:    pickString(flagLogFile, lcfg.LogFile, gcfg.LogFile),
	})

	limits := types.DefaultScanLimits()
	if v := pickInt(flagMaxFiles, lcfg.MaxFiles, gcfg.MaxFiles); v > 0 {
		limits.MaxFilesSent = v
	}
	if v := pickInt(flagMaxChars, lcfg.MaxChars, gcfg.MaxChars); v > 0 {
		limits.MaxTotalCharsSent = v
	}
	if v := pickInt(flagSnippetChars, lcfg.SnippetChars, gcfg.SnippetChars); v > 0 {
		limits.SnippetChars = v
	}

	localOnly := pickBool(flagLocalOnly, lcfg.LocalOnly, gcfg.LocalOnly)
	provider := types.ProviderInfo{Name: "none"}

	var analyzer *llm.Analyzer
	if !localOnly {
		merged := lcfg
		if merged.Profiles == nil {
			merged = gcfg
		}
		profile, key, err := merged.ResolveProfile(flagProfile)
		if err != nil {
			log.Warn().Err(err).Msg("no usable provider profile; continuing local-only")
			localOnly = true
		} else {
			client := llm.NewClient(llm.ClientOptions{
				BaseURL: profile.BaseURL,
				Model:   profile.Model,
				APIKey:  key,
				Timeout: time.Duration(profile.TimeoutSeconds) * time.Second,
			}, log)
			analyzer = llm.NewAnalyzer(client, llm.NewRetryHandler(log), log)
			provider = types.ProviderInfo{Name: profile.BaseURL, Model: profile.Model, LlmEnabled: true}
		}
	}

	ctx := context.Background()
	if timeout := pickDuration(flagTimeout, lcfg.Timeout, gcfg.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	result, err := core.Scan(ctx, pipeline.Config{
		Root: root,
		Ingest: ingest.Options{
			Include:     pickString(flagInclude, lcfg.Include, gcfg.Include),
			Exclude:     pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
			MaxFileSize: pickInt64(flagMaxFileSize, lcfg.MaxFileSize, gcfg.MaxFileSize),
			MaxDepth:    pickInt(flagMaxDepth, lcfg.MaxDepth, gcfg.MaxDepth),
		},
		Limits:    limits,
		Threads:   pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		LocalOnly: localOnly,
		Analyzer:  analyzer,
		Provider:  provider,
		Log:       log,
	})
	if err != nil {
		// only pre-scan failures land here: bad root or bad patterns
		return err
	}

	outDir := pickString(flagOut, lcfg.OutDir, gcfg.OutDir)
	if outDir == "" {
		outDir = filepath.Join(root, "repoaudit-out")
	}
	if werr := report.WriteArtifacts(outDir, result.Report, result.Manifest, result.Redactions); werr != nil {
		log.Error().Err(werr).Msg("failed to write artifacts")
	} else {
		log.Info().Str("dir", outDir).Msg("artifacts written")
	}

	if !flagNoAuditLog {
		counts := map[string]int{}
		total := 0
		for _, fs := range result.Report.Categorized {
			for _, f := range fs {
				counts[string(f.Severity)]++
				total++
			}
		}
		rec := audit.RunRecord{
			Timestamp:       time.Now(),
			RunID:           result.Manifest.RunID,
			Root:            root,
			FilesScanned:    result.FilesScanned,
			TotalFindings:   total,
			SeverityCounts:  counts,
			TotalRedactions: result.Redactions.TotalRedactions,
			HealthScore:     result.Report.ExecutiveSummary.HealthScore,
			IsPartial:       result.Report.IsPartial,
			Duration:        time.Since(started).String(),
		}
		if aerr := audit.NewLog(root).Append(rec); aerr != nil {
			log.Warn().Err(aerr).Msg("failed to append audit log")
		}
	}

	if flagJSON {
		return core.MarshalReport(os.Stdout, result.Report)
	}
	report.RenderTable(os.Stdout, result.Report)
	return nil
}
