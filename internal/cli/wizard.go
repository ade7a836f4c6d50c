package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// cadenceHuhTheme returns a huh theme using the formatter palette.
func cadenceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[x] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// planAnswers backs the plan wizard fields. Everything is a string or a
// list of strings because that is what huh inputs bind to.
type planAnswers struct {
	Start     string
	End       string
	ExamDate  string
	Hours     [7]string // indexed by time.Weekday
	Resources []string
	Balance   string
}

// answersFromRequest prefills the wizard from flags already given.
func answersFromRequest(req app.PlanRequest) *planAnswers {
	a := &planAnswers{
		Start:     req.StartDate,
		End:       req.EndDate,
		ExamDate:  req.ExamDate,
		Resources: req.Resources.Flags().Names(),
		Balance:   req.SelectedBalance,
	}
	if a.Balance == "" {
		a.Balance = string(domain.BalanceBalanced)
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		a.Hours[d] = req.HoursPerDay[d.String()]
	}
	return a
}

// request converts the answers back into a PlanRequest for userID.
func (a *planAnswers) request(userID string) app.PlanRequest {
	hours := make(map[string]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		h := strings.TrimSpace(a.Hours[d])
		if h == "" {
			h = "0"
		}
		hours[d.String()] = h
	}
	var res resourcesValue
	_ = res.Set(strings.Join(a.Resources, ","))
	return app.PlanRequest{
		UserID:          userID,
		StartDate:       strings.TrimSpace(a.Start),
		EndDate:         strings.TrimSpace(a.End),
		ExamDate:        strings.TrimSpace(a.ExamDate),
		HoursPerDay:     hours,
		Resources:       res.res,
		SelectedBalance: a.Balance,
	}
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("enter a date as YYYY-MM-DD")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateDate(s)
}

// validateHours accepts empty (a break day) or a non-negative number.
func validateHours(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number of hours")
	}
	return nil
}

func dateInput(title, placeholder string, value *string, validate func(string) error) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validate)
}

// planWizard builds the interactive form for plan init. Fields write
// straight into a.
func planWizard(a *planAnswers) *huh.Form {
	hourInputs := make([]huh.Field, 0, 7)
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		hourInputs = append(hourInputs, huh.NewInput().
			Title(d.String()).
			Placeholder("0").
			Value(&a.Hours[d]).
			Validate(validateHours))
	}

	resourceOpts := []huh.Option[string]{
		huh.NewOption("Adaptive tutoring", "adaptiveTutoring"),
		huh.NewOption("Anki clinic deck", "ankiClinic"),
		huh.NewOption("Regular Anki deck", "regularAnki"),
		huh.NewOption("CARS practice", "cars"),
		huh.NewOption("UWorld", "uworld"),
		huh.NewOption("AAMC materials", "aamc"),
	}
	for i := range resourceOpts {
		for _, sel := range a.Resources {
			if sel == resourceOpts[i].Value {
				resourceOpts[i] = resourceOpts[i].Selected(true)
			}
		}
	}

	balanceOpts := make([]huh.Option[string], 0, 5)
	for _, b := range domain.ValidBalances() {
		balanceOpts = append(balanceOpts, huh.NewOption(string(b), string(b)))
	}

	return huh.NewForm(
		huh.NewGroup(
			dateInput("Start date", time.Now().Format(domain.DateLayout), &a.Start, validateDate),
			dateInput("End date", "2025-06-30", &a.End, validateDate),
			dateInput("Official exam date (blank if unknown)", "", &a.ExamDate, validateOptionalDate),
		).Title("Dates"),
		huh.NewGroup(hourInputs...).
			Title("Study hours per day").
			Description("Leave a day blank to take it off."),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which resources do you have?").
				Description("Anki clinic replaces the regular deck when both are picked.").
				Options(resourceOpts...).
				Value(&a.Resources),
			huh.NewSelect[string]().
				Title("Content or practice?").
				Options(balanceOpts...).
				Value(&a.Balance),
		),
	).WithTheme(cadenceHuhTheme()).WithShowHelp(false)
}
