package repoaudit

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON     bool
	flagThreads  int
	flagNoColor  bool
	flagLogLevel string
	flagLogFile  string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the repoaudit CLI.
var rootCmd = &cobra.Command{
	Use:           "repoaudit",
	Short:         "Audit a repository with local heuristics and an optional LLM pass",
	Long:          "repoaudit scans a repository, redacts secrets, runs local heuristic checks, optionally consults an LLM over a bounded evidence bundle, and writes a merged audit report.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

// Execute runs the repoaudit CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit the report as JSON on stdout")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: trace|debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write logs to this rotating file")
}
