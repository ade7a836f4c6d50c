package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *App, user func() string) *cobra.Command {
	var (
		start, end, examDate, balance string
		seed                          int64
		show                          bool
	)
	hours := newHoursValue()
	resources := &resourcesValue{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the study schedule",
		Long: `Regenerate the study schedule.

Flags override the stored plan for this run and are saved back to it.
Without --start, generation begins at the later of the plan start and
today, so past days keep their placements. Exam days are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := a.Plans.GetPlan(ctx, user())
			if err != nil {
				return err
			}

			req := requestFromPlan(plan, a.now())
			req.UserID = user()
			if start != "" {
				req.StartDate = start
			}
			if end != "" {
				req.EndDate = end
			}
			if examDate != "" {
				req.ExamDate = examDate
			}
			if hours.set() {
				req.HoursPerDay = hours.hours
			}
			if resources.changed {
				r := resources.res
				req.Resources = &r
			}
			if cmd.Flags().Changed("balance") {
				req.SelectedBalance = balance
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			resp, err := a.Generator.Generate(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatGenerateSummary(resp))
			if show {
				fmt.Fprintln(out, formatter.FormatSchedule(resp.Placements))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day to regenerate (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day to schedule (YYYY-MM-DD)")
	cmd.Flags().StringVar(&examDate, "exam-date", "", "Official exam date (YYYY-MM-DD)")
	cmd.Flags().Var(hours, "hours", "Override study hours per weekday")
	cmd.Flags().Var(resources, "resources", "Override enabled resources")
	cmd.Flags().StringVar(&balance, "balance", "", balanceUsage())
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed the day classifier for a reproducible schedule")
	cmd.Flags().BoolVar(&show, "show", false, "Print the generated schedule")

	return cmd
}

// requestFromPlan builds a generation request from the stored plan. The
// start is clamped to today.
func requestFromPlan(p *domain.PlanConfig, now time.Time) app.GenerateRequest {
	start := p.StartDate
	if today := domain.Day(now); start.Before(today) {
		start = today
	}
	res := app.ResourcesFromFlags(p.Resources)
	req := app.GenerateRequest{
		UserID:          p.UserID,
		StartDate:       start.Format(domain.DateLayout),
		EndDate:         p.EndDate.Format(domain.DateLayout),
		HoursPerDay:     p.Hours.Strings(),
		Resources:       &res,
		SelectedBalance: string(p.Balance),
	}
	if !p.ExamDate.IsZero() {
		req.ExamDate = p.ExamDate.Format(domain.DateLayout)
	}
	return req
}
