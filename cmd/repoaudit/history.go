package repoaudit

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repoaudit/repoaudit/internal/audit"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show previous audit runs for a repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			root, _ := filepath.Abs(path)

			recs, err := audit.NewLog(root).History()
			if err != nil {
				return fmt.Errorf("no audit history for %s", root)
			}
			w := cmd.OutOrStdout()
			for _, r := range recs {
				partial := ""
				if r.IsPartial {
					partial = " (partial)"
				}
				fmt.Fprintf(w, "%s  %s  score %d/10  %d findings  %d redactions%s\n",
					r.Timestamp.Format("2006-01-02 15:04"), r.RunID,
					r.HealthScore, r.TotalFindings, r.TotalRedactions, partial)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
