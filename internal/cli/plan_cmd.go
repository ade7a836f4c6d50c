package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *App, user func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Configure your study plan",
	}

	cmd.AddCommand(
		newPlanInitCmd(a, user),
		newPlanShowCmd(a, user),
		newPlanImportCmd(a, user),
	)

	return cmd
}

func newPlanInitCmd(a *App, user func() string) *cobra.Command {
	var (
		start, end, examDate, balance string
		interactive                   bool
	)
	hours := newHoursValue()
	resources := &resourcesValue{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or replace the plan configuration",
		Long: `Create or replace the plan configuration.

Pass --interactive on a terminal to fill the plan in with a form; flags given
alongside prefill it. Existing placements stay until the next generate.`,
		Example: `  cadence plan init --start 2025-01-06 --end 2025-04-30 --exam-date 2025-05-02 \
    --hours weekdays=4,sat=6,sun=0 --resources uworld,cars,aamc --balance balanced`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.PlanRequest{
				UserID:          user(),
				StartDate:       start,
				EndDate:         end,
				ExamDate:        examDate,
				HoursPerDay:     hours.hours,
				Resources:       resources.res,
				SelectedBalance: balance,
			}

			if interactive {
				if !a.interactive() {
					return fmt.Errorf("--interactive needs a terminal on stdin")
				}
				answers := answersFromRequest(req)
				if err := planWizard(answers).RunWithContext(cmd.Context()); err != nil {
					return err
				}
				req = answers.request(user())
			}

			plan, err := a.Plans.SavePlan(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(app.NewPlanView(plan)))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day to schedule (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day to schedule (YYYY-MM-DD)")
	cmd.Flags().StringVar(&examDate, "exam-date", "", "Official exam date (YYYY-MM-DD)")
	cmd.Flags().Var(hours, "hours", "Study hours per weekday, e.g. mon=4,tue=4 or weekdays=4,weekend=0")
	cmd.Flags().Var(resources, "resources", "Enabled resources: "+strings.Join(resourceNames(), ", "))
	cmd.Flags().StringVar(&balance, "balance", "balanced", balanceUsage())
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the plan in with a form")

	return cmd
}

func newPlanShowCmd(a *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the plan configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.Plans.GetPlan(cmd.Context(), user())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(app.NewPlanView(plan)))
			return nil
		},
	}
}

func newPlanImportCmd(a *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load the plan and exam dates from a YAML or JSON file",
		Long: `Load the plan and exam dates from a YAML or JSON file.

The file replaces the plan configuration. Exams already recorded on the same
day under the same label are skipped, so a file can be imported again after
editing.`,
		Example: `  # plan.yaml
  plan:
    start_date: "2025-01-06"
    end_date: "2025-04-30"
    exam_date: "2025-05-02"
    hours: {mon: 4, tue: 4, wed: 4, thu: 4, fri: 3, sat: 6}
    resources: [uworld, aamc, cars, regularAnki]
    balance: balanced
  exams:
    - {date: "2025-02-01", label: Full Length 1}

  cadence plan import plan.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Importer == nil {
				return fmt.Errorf("plan import is not available")
			}
			res, err := a.Importer.ImportPlan(cmd.Context(), user(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			verb := "Updated"
			if res.Created {
				verb = "Created"
			}
			fmt.Fprintf(out, "%s plan from %s: %d exams added, %d already present\n",
				verb, args[0], res.ExamsAdded, res.ExamsSkipped)
			fmt.Fprintln(out, formatter.FormatPlan(app.NewPlanView(res.Plan)))
			return nil
		},
	}
}
