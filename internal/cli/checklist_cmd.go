package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/catalog"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newChecklistCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Look up activity checklists",
	}

	cmd.AddCommand(
		newChecklistNextCmd(a),
		newChecklistActivitiesCmd(),
	)

	return cmd
}

func newChecklistNextCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next ACTIVITY",
		Short: "Take the next checklist for an activity",
		Long: `Take the next checklist for an activity.

The checklist is removed from the queue unless it is the last one, which is
handed out again on every call.`,
		Example: `  cadence checklist next UWorld
  cadence checklist next Daily CARS`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			items, err := a.Checklists.NextChecklist(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatChecklist(name, items))
			return nil
		},
	}
}

func newChecklistActivitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "List schedulable activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := catalog.All()
			rows := make([][]string, 0, len(all))
			for _, act := range all {
				rows = append(rows, []string{
					formatter.KindStyle(act.Kind).Render(act.Name),
					string(act.Kind),
					act.Duration.String(),
					string(act.Resource),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ACTIVITY", "KIND", "DURATION", "RESOURCE"}, rows))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("catalog "+catalog.Version))
			return nil
		},
	}
}
