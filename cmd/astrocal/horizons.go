package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/astrocal/internal/logger"
)

func newHorizonsCmd(a *app) *cobra.Command {
	var days []int

	cmd := &cobra.Command{
		Use:   "horizons",
		Short: "Project the sky at several offsets at once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.GetProjectionConfig().Horizons
			}
			for _, d := range days {
				if d < 0 {
					return fmt.Errorf("--days must not contain negative offsets, got %d", d)
				}
			}

			ctx := cmd.Context()
			current, err := a.engine.Current(ctx)
			if err != nil {
				return fmt.Errorf("horizons: %w", err)
			}

			projections, dayErrors := a.engine.ProjectHorizons(ctx, current, days)
			report := horizonReport{Projections: projections}
			if len(dayErrors) > 0 {
				report.Errors = make(map[int]string, len(dayErrors))
				for _, dayErr := range dayErrors {
					logger.Warn("Horizon +%d failed: %v", dayErr.DaysAhead, dayErr.Err)
					report.Errors[dayErr.DaysAhead] = dayErr.Err.Error()
				}
			}

			return render(cmd.OutOrStdout(), a.output, report, func(w io.Writer) error {
				return writeHorizons(w, report)
			})
		},
	}

	cmd.Flags().IntSliceVarP(&days, "days", "d", nil, "comma-separated day offsets (default from config, 7,14,21,28)")
	return cmd
}
