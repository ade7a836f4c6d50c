package testutil

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

// Date builds a UTC calendar day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UniformHours gives every weekday the same hours.
func UniformHours(h int) domain.WeeklyHours {
	hours := make(domain.WeeklyHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = h
	}
	return hours
}

// AllResources enables every resource with the Regular Anki deck.
func AllResources() domain.ResourceFlags {
	return domain.ResourceFlags{
		AdaptiveTutoring: true,
		Anki:             domain.AnkiRegular,
		CARS:             true,
		UWorld:           true,
		AAMC:             true,
	}
}

// Plan options
type PlanOption func(*domain.PlanConfig)

func WithRange(start, end time.Time) PlanOption {
	return func(p *domain.PlanConfig) {
		p.StartDate = start
		p.EndDate = end
	}
}

func WithExamDate(d time.Time) PlanOption {
	return func(p *domain.PlanConfig) {
		p.ExamDate = d
	}
}

func WithHours(h domain.WeeklyHours) PlanOption {
	return func(p *domain.PlanConfig) {
		p.Hours = h
	}
}

func WithResources(r domain.ResourceFlags) PlanOption {
	return func(p *domain.PlanConfig) {
		p.Resources = r
	}
}

func WithBalance(b domain.Balance) PlanOption {
	return func(p *domain.PlanConfig) {
		p.Balance = b
	}
}

// NewTestPlan returns a four-week plan starting 2025-01-06 with five hours
// a day and every resource enabled.
func NewTestPlan(userID string, opts ...PlanOption) *domain.PlanConfig {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.PlanConfig{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartDate: Date(2025, time.January, 6),
		EndDate:   Date(2025, time.February, 2),
		ExamDate:  Date(2025, time.February, 3),
		Hours:     UniformHours(5),
		Resources: AllResources(),
		Balance:   domain.BalanceBalanced,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Placement options
type PlacementOption func(*domain.ActivityPlacement)

func WithKind(k domain.ActivityKind) PlacementOption {
	return func(p *domain.ActivityPlacement) {
		p.Kind = k
	}
}

func WithStatus(s domain.PlacementStatus) PlacementOption {
	return func(p *domain.ActivityPlacement) {
		p.Status = s
	}
}

func WithChecklist(items ...string) PlacementOption {
	return func(p *domain.ActivityPlacement) {
		for _, text := range items {
			p.Checklist = append(p.Checklist, domain.ChecklistItem{Text: text})
		}
	}
}

func WithPlacementHours(h float64) PlacementOption {
	return func(p *domain.ActivityPlacement) {
		p.Hours = h
	}
}

// NewTestPlacement returns a one-hour generated practice placement.
func NewTestPlacement(planID string, date time.Time, activity string, opts ...PlacementOption) *domain.ActivityPlacement {
	p := &domain.ActivityPlacement{
		ID:           uuid.New().String(),
		PlanID:       planID,
		Date:         date,
		ActivityName: activity,
		Hours:        1,
		Kind:         domain.KindPractice,
		Status:       domain.StatusNotStarted,
		Source:       domain.SourceGenerated,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestExam returns an exam-event placement.
func NewTestExam(planID string, date time.Time, label string) *domain.ActivityPlacement {
	return &domain.ActivityPlacement{
		ID:           uuid.New().String(),
		PlanID:       planID,
		Date:         date,
		ActivityName: label,
		Kind:         domain.KindExam,
		Status:       domain.StatusNotStarted,
		Source:       domain.SourceExam,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}
