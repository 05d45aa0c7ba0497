package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newProjectCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the sky a number of days ahead",
		Example: `  astrocal project --days 7
  astrocal project --days 30 --offline --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}
			snap, err := a.engine.Project(cmd.Context(), nil, days)
			if err != nil {
				return fmt.Errorf("project: %w", err)
			}
			label := "Today"
			if days > 0 {
				label = fmt.Sprintf("+%d days", days)
			}
			return render(cmd.OutOrStdout(), a.output, snap, func(w io.Writer) error {
				return writeSnapshot(w, label, snap)
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "number of days ahead to project")
	return cmd
}
