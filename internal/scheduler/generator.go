package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// GenerateInput is one generation run over [Start, End].
type GenerateInput struct {
	Start     time.Time
	End       time.Time
	Hours     domain.WeeklyHours
	Resources domain.ResourceFlags
	Ratio     float64
	Exams     []domain.ExamEvent
	// Blocked are extra days that receive nothing but do not shift
	// milestones, such as the official exam date.
	Blocked []time.Time
}

// SkipReason explains why a day in range received no placements.
type SkipReason string

const (
	SkipBreakDay SkipReason = "break_day"
	SkipExamDay  SkipReason = "exam_day"
)

// DaySummary describes what the generator did with one calendar day.
type DaySummary struct {
	Date      time.Time
	Mode      domain.DayMode
	Milestone int
	Emphasis  bool
	Skipped   SkipReason
	Hours     float64
}

// GenerateResult holds the placements of one run in chronological, then
// priority order, plus a per-day trace.
type GenerateResult struct {
	Placements    []*domain.ActivityPlacement
	Days          []DaySummary
	EmphasisCount int
}

// DaysScheduled counts days that received at least one placement.
func (r GenerateResult) DaysScheduled() int {
	n := 0
	for _, d := range r.Days {
		if d.Skipped == "" && d.Hours > 0 {
			n++
		}
	}
	return n
}

// DaysSkipped counts break and exam days.
func (r GenerateResult) DaysSkipped() int {
	n := 0
	for _, d := range r.Days {
		if d.Skipped != "" {
			n++
		}
	}
	return n
}

// HoursByActivity totals placement hours per activity name.
func (r GenerateResult) HoursByActivity() map[string]float64 {
	out := make(map[string]float64)
	for _, p := range r.Placements {
		out[p.ActivityName] += p.Hours
	}
	return out
}

// Generate builds the day-by-day plan. Emphasis days are sampled once for
// the whole range before any day is visited; each scheduled day then draws
// its own mode. Break days and exam days consume no draws. Output
// placements carry no IDs, plan IDs, or checklists.
func Generate(in GenerateInput, rng Rand) GenerateResult {
	start, end := domain.Day(in.Start), domain.Day(in.End)
	total := domain.DaysInRange(start, end)
	if total == 0 {
		return GenerateResult{}
	}

	emphasis := SampleEmphasisDays(rng, total)
	exams := SortExamEvents(in.Exams)

	closed := make(map[time.Time]bool, len(exams)+len(in.Blocked))
	for _, e := range exams {
		closed[domain.Day(e.Date)] = true
	}
	for _, b := range in.Blocked {
		closed[domain.Day(b)] = true
	}

	result := GenerateResult{EmphasisCount: len(emphasis)}
	for i := 0; i < total; i++ {
		date := start.AddDate(0, 0, i)
		summary := DaySummary{Date: date, Emphasis: emphasis[i]}

		hours := in.Hours.For(date)
		switch {
		case closed[date]:
			summary.Skipped = SkipExamDay
		case hours <= 0:
			summary.Skipped = SkipBreakDay
		}
		if summary.Skipped != "" {
			result.Days = append(result.Days, summary)
			continue
		}

		summary.Milestone = Milestone(date, exams)
		summary.Mode = DrawMode(rng, in.Ratio)

		allocations := Allocate(DayInput{
			Hours:     float64(hours),
			Mode:      summary.Mode,
			Milestone: summary.Milestone,
			Resources: in.Resources,
			Emphasis:  summary.Emphasis,
		})
		for _, a := range allocations {
			result.Placements = append(result.Placements, &domain.ActivityPlacement{
				Date:         date,
				ActivityName: a.Activity.Name,
				Hours:        a.Hours,
				Kind:         a.Activity.Kind,
				Status:       domain.StatusNotStarted,
				Source:       domain.SourceGenerated,
			})
			summary.Hours += a.Hours
		}
		result.Days = append(result.Days, summary)
	}
	return result
}
