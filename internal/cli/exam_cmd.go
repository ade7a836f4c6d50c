package cli

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newExamCmd(a *App, user func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Manage practice exam dates",
		Long: `Manage practice exam dates.

Each exam is a milestone: study priorities shift after it, and its day is
never scheduled.`,
	}

	cmd.AddCommand(
		newExamAddCmd(a, user),
		newExamListCmd(a, user),
	)

	return cmd
}

func newExamAddCmd(a *App, user func() string) *cobra.Command {
	var date, label string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an exam date",
		RunE: func(cmd *cobra.Command, args []string) error {
			exam, err := a.Plans.AddExam(cmd.Context(), app.ExamRequest{
				UserID: user(),
				Date:   date,
				Label:  label,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added exam %s on %s\n",
				formatter.Bold(exam.ActivityName), formatter.DayLabel(exam.Date))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Exam date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&label, "label", "", "Exam name, e.g. \"Full Length 1\"")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func newExamListCmd(a *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List exam dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			exams, err := a.Plans.ListExams(cmd.Context(), user())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatExams(app.NewPlacementViews(exams)))
			return nil
		},
	}
}
