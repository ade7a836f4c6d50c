package domain

import "time"

// ChecklistItem is one sub-task attached to a placement.
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ActivityPlacement is one scheduled activity on one calendar day.
type ActivityPlacement struct {
	ID           string
	PlanID       string
	Date         time.Time
	ActivityName string
	Hours        float64
	Kind         ActivityKind
	Status       PlacementStatus
	Source       PlacementSource
	Checklist    []ChecklistItem
	CreatedAt    time.Time
}

// IsExam reports whether the placement is an immutable exam event.
func (p *ActivityPlacement) IsExam() bool {
	return p.Source == SourceExam
}

// ExamEvent is a fixed exam date that delimits study milestones.
type ExamEvent struct {
	Date  time.Time
	Label string
}

// ExamEventsFrom extracts exam events from a set of placements, skipping
// anything that was not recorded as an exam.
func ExamEventsFrom(placements []*ActivityPlacement) []ExamEvent {
	var events []ExamEvent
	for _, p := range placements {
		if !p.IsExam() {
			continue
		}
		events = append(events, ExamEvent{Date: Day(p.Date), Label: p.ActivityName})
	}
	return events
}
