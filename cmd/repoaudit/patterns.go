package repoaudit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repoaudit/repoaudit/internal/redact"
)

func init() {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the configured secret kinds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// compile up front so a broken pattern fails loudly here too
			if _, err := redact.NewEngine(); err != nil {
				return err
			}
			for _, k := range redact.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
