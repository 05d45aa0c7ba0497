package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/astrocal/internal/logger"
)

func newCalendarCmd(a *app) *cobra.Command {
	var (
		start string
		days  int
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a multi-day astrological calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var startDate time.Time
			if start != "" {
				parsed, err := time.ParseInLocation("2006-01-02", start, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --start %q: want YYYY-MM-DD", start)
				}
				startDate = parsed
			}
			if days <= 0 {
				days = a.cfg.GetProjectionConfig().CalendarDays
			}

			ctx := cmd.Context()
			current, err := a.engine.Current(ctx)
			if err != nil {
				// Each day refetches and is marked unavailable on its own.
				logger.Warn("Current sky unavailable, calendar days will retry: %v", err)
				current = nil
			}

			calendar := a.engine.BuildCalendar(ctx, current, startDate, days)
			return render(cmd.OutOrStdout(), a.output, calendar, func(w io.Writer) error {
				return writeCalendar(w, calendar)
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first calendar day as YYYY-MM-DD (default today)")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "number of days (default from config, 28)")
	return cmd
}
