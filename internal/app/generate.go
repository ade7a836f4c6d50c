package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ResourcesInput is the wire form of the resource flags.
type ResourcesInput struct {
	AdaptiveTutoring bool `json:"adaptiveTutoring" yaml:"adaptiveTutoring"`
	AnkiClinic       bool `json:"ankiClinic" yaml:"ankiClinic"`
	RegularAnki      bool `json:"regularAnki" yaml:"regularAnki"`
	CARS             bool `json:"cars" yaml:"cars"`
	UWorld           bool `json:"uworld" yaml:"uworld"`
	AAMC             bool `json:"aamc" yaml:"aamc"`
}

// Flags resolves the two Anki booleans into one variant.
func (r ResourcesInput) Flags() domain.ResourceFlags {
	return domain.ResourceFlags{
		AdaptiveTutoring: r.AdaptiveTutoring,
		Anki:             domain.ResolveAnkiVariant(r.AnkiClinic, r.RegularAnki),
		CARS:             r.CARS,
		UWorld:           r.UWorld,
		AAMC:             r.AAMC,
	}
}

// ResourcesFromFlags is the inverse of Flags.
func ResourcesFromFlags(f domain.ResourceFlags) ResourcesInput {
	return ResourcesInput{
		AdaptiveTutoring: f.AdaptiveTutoring,
		AnkiClinic:       f.Anki == domain.AnkiClinic,
		RegularAnki:      f.Anki == domain.AnkiRegular,
		CARS:             f.CARS,
		UWorld:           f.UWorld,
		AAMC:             f.AAMC,
	}
}

// GenerateRequest triggers regeneration of a user's schedule.
type GenerateRequest struct {
	UserID          string            `json:"userID" validate:"required,notblank"`
	ExamDate        string            `json:"examDate" validate:"required,isodate"`
	Resources       *ResourcesInput   `json:"resources" validate:"required"`
	HoursPerDay     map[string]string `json:"hoursPerDay" validate:"required,min=1"`
	SelectedBalance string            `json:"selectedBalance"`
	StartDate       string            `json:"startDate,omitempty" validate:"omitempty,isodate"`
	EndDate         string            `json:"endDate" validate:"required,isodate"`
	Seed            *int64            `json:"seed,omitempty"`
}

// GenerateParams is a validated GenerateRequest in domain types.
type GenerateParams struct {
	UserID    string
	ExamDate  time.Time
	Start     time.Time
	End       time.Time
	Hours     domain.WeeklyHours
	Resources domain.ResourceFlags
	Balance   domain.Balance
	Seed      *int64
}

// Parse validates the request. A missing start date defaults to the day of
// now. Every failure is a VALIDATION_FAILED GenerateError.
func (r *GenerateRequest) Parse(now time.Time) (*GenerateParams, error) {
	if err := validateStruct(r); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	p := &GenerateParams{
		UserID:    strings.TrimSpace(r.UserID),
		Resources: r.Resources.Flags(),
		Balance:   domain.Balance(strings.TrimSpace(r.SelectedBalance)).Normalize(),
		Seed:      r.Seed,
		Start:     domain.Day(now),
	}
	p.ExamDate, _ = domain.ParseDate(r.ExamDate)
	p.End, _ = domain.ParseDate(r.EndDate)
	if r.StartDate != "" {
		p.Start, _ = domain.ParseDate(r.StartDate)
	}
	checkRange(fields, p.Start, p.End)

	hours, err := domain.ParseWeeklyHours(r.HoursPerDay)
	if err != nil {
		fields["hoursPerDay"] = err.Error()
	}
	p.Hours = hours

	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}
	return p, nil
}

// MaxRangeDays caps the span of a plan or a generation run.
const MaxRangeDays = 3 * 366

func checkRange(fields map[string]string, start, end time.Time) {
	switch {
	case end.Before(start):
		fields["endDate"] = "must not precede startDate"
	case domain.DaysInRange(start, end) > MaxRangeDays:
		fields["endDate"] = fmt.Sprintf("must be within %d days of startDate", MaxRangeDays)
	}
}

// PlacementView is the wire form of an ActivityPlacement.
type PlacementView struct {
	ID           string                 `json:"id"`
	Date         string                 `json:"date"`
	ActivityName string                 `json:"activityName"`
	Hours        float64                `json:"hours"`
	Kind         domain.ActivityKind    `json:"kind"`
	Status       domain.PlacementStatus `json:"status"`
	Source       domain.PlacementSource `json:"source"`
	Checklist    []domain.ChecklistItem `json:"checklist"`
}

func NewPlacementView(p *domain.ActivityPlacement) PlacementView {
	checklist := p.Checklist
	if checklist == nil {
		checklist = []domain.ChecklistItem{}
	}
	return PlacementView{
		ID:           p.ID,
		Date:         p.Date.Format(domain.DateLayout),
		ActivityName: p.ActivityName,
		Hours:        p.Hours,
		Kind:         p.Kind,
		Status:       p.Status,
		Source:       p.Source,
		Checklist:    checklist,
	}
}

func NewPlacementViews(ps []*domain.ActivityPlacement) []PlacementView {
	out := make([]PlacementView, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewPlacementView(p))
	}
	return out
}

// GenerateResponse acknowledges a completed generation.
type GenerateResponse struct {
	PlanID             string             `json:"planId"`
	Start              string             `json:"startDate"`
	End                string             `json:"endDate"`
	Placements         []PlacementView    `json:"placements"`
	DaysScheduled      int                `json:"daysScheduled"`
	DaysSkipped        int                `json:"daysSkipped"`
	HoursByActivity    map[string]float64 `json:"hoursByActivity"`
	ChecklistFallbacks int                `json:"checklistFallbacks"`
}

// ActivityNames returns the keys of HoursByActivity sorted by name.
func (r *GenerateResponse) ActivityNames() []string {
	names := make([]string, 0, len(r.HoursByActivity))
	for n := range r.HoursByActivity {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
