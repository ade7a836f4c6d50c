package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newScheduleCmd(a *App, user func() string) *cobra.Command {
	var from, to string
	var week bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show scheduled placements",
		RunE: func(cmd *cobra.Command, args []string) error {
			var fromDay, toDay time.Time
			var err error
			if week {
				fromDay = domain.Day(a.now())
				toDay = fromDay.AddDate(0, 0, 6)
			}
			if from != "" {
				if fromDay, err = domain.ParseDate(from); err != nil {
					return fmt.Errorf("--from: %w", err)
				}
			}
			if to != "" {
				if toDay, err = domain.ParseDate(to); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}

			placements, err := a.Plans.ListPlacements(cmd.Context(), user(), fromDay, toDay)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSchedule(app.NewPlacementViews(placements)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day to show (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day to show (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&week, "week", "w", false, "Show the next seven days")

	return cmd
}
