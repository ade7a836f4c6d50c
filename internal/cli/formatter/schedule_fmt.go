package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

// FormatPlan renders a plan configuration as a boxed summary.
func FormatPlan(p app.PlanView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("User     "), p.UserID)
	fmt.Fprintf(&b, "%s  %s → %s\n", Dim("Range    "), p.StartDate, p.EndDate)
	exam := p.ExamDate
	if exam == "" {
		exam = "not set"
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Exam date"), exam)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Balance  "), p.SelectedBalance)

	resources := p.Resources.Flags().Names()
	if len(resources) == 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Resources"), StyleYellow.Render("none enabled"))
	} else {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Resources"), strings.Join(resources, ", "))
	}

	var days []string
	for d := time.Monday; d <= time.Saturday; d++ {
		days = append(days, fmt.Sprintf("%s %s", d.String()[:3], p.HoursPerDay[d.String()]))
	}
	days = append(days, fmt.Sprintf("Sun %s", p.HoursPerDay[time.Sunday.String()]))
	fmt.Fprintf(&b, "%s  %s", Dim("Hours    "), strings.Join(days, "  "))

	return RenderBox("Study plan", b.String())
}

// FormatSchedule renders placements as a day-grouped table. The date is
// printed only on the first row of each day.
func FormatSchedule(placements []app.PlacementView) string {
	if len(placements) == 0 {
		return Dim("No placements in range.")
	}
	rows := make([][]string, 0, len(placements))
	prev := ""
	for _, p := range placements {
		date := ""
		if p.Date != prev {
			date = p.Date
			if d, err := domain.ParseDate(p.Date); err == nil {
				date = DayLabel(d)
			}
			prev = p.Date
		}
		status := StatusIndicator(p.Status)
		checklist := Dim("-")
		if p.Source == domain.SourceExam {
			status = ""
			checklist = ""
		} else if n := len(p.Checklist); n > 0 {
			checklist = fmt.Sprintf("%d items", n)
		}
		rows = append(rows, []string{
			date,
			KindStyle(p.Kind).Render(Truncate(p.ActivityName, 32)),
			string(p.Kind),
			Hours(p.Hours),
			status,
			checklist,
		})
	}
	return RenderTable([]string{"DATE", "ACTIVITY", "KIND", "HOURS", "STATUS", "CHECKLIST"}, rows)
}

// FormatGenerateSummary renders the outcome of a generation run.
func FormatGenerateSummary(r *app.GenerateResponse) string {
	var b strings.Builder
	b.WriteString(Header("Schedule generated"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s → %s: %s scheduled, %s skipped, %d placements\n",
		r.Start, r.End, CountDays(r.DaysScheduled), CountDays(r.DaysSkipped), len(r.Placements))
	if r.ChecklistFallbacks > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("%d placements got an empty checklist (lookup failed)", r.ChecklistFallbacks)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	names := r.ActivityNames()
	rows := make([][]string, 0, len(names))
	var total float64
	for _, n := range names {
		total += r.HoursByActivity[n]
		rows = append(rows, []string{n, Hours(r.HoursByActivity[n])})
	}
	rows = append(rows, []string{Bold("Total"), Bold(Hours(total))})
	b.WriteString(RenderTable([]string{"ACTIVITY", "HOURS"}, rows))
	return b.String()
}

// FormatExams lists exam events in date order.
func FormatExams(exams []app.PlacementView) string {
	if len(exams) == 0 {
		return Dim("No exams recorded.")
	}
	sorted := append([]app.PlacementView(nil), exams...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	rows := make([][]string, 0, len(sorted))
	for i, e := range sorted {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), e.Date, e.ActivityName})
	}
	return RenderTable([]string{"MILESTONE", "DATE", "EXAM"}, rows)
}

// FormatChecklist renders a checklist as a bulleted list.
func FormatChecklist(activity string, items []domain.ChecklistItem) string {
	var b strings.Builder
	b.WriteString(Header(activity))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(Dim("No checklist available."))
		return b.String()
	}
	for _, it := range items {
		mark := "[ ]"
		if it.Completed {
			mark = StyleGreen.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s\n", mark, it.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
