package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// SortExamEvents returns a copy of events ordered by date ascending.
// Events on the same day keep their input order.
func SortExamEvents(events []domain.ExamEvent) []domain.ExamEvent {
	sorted := make([]domain.ExamEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return domain.Day(sorted[i].Date).Before(domain.Day(sorted[j].Date))
	})
	return sorted
}

// Milestone returns the study phase date falls in. Phase 0 precedes the
// first exam; phase i covers [exam[i-1], exam[i]); the last phase is open
// ended. Equivalently, the number of exams on or before date.
func Milestone(date time.Time, events []domain.ExamEvent) int {
	day := domain.Day(date)
	phase := 0
	for _, e := range SortExamEvents(events) {
		if domain.Day(e.Date).After(day) {
			break
		}
		phase++
	}
	return phase
}
