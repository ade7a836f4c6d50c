package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMilestone_NoExams(t *testing.T) {
	assert.Equal(t, 0, Milestone(day(2025, 3, 1), nil))
}

func TestMilestone_HalfOpenPhases(t *testing.T) {
	exams := []domain.ExamEvent{
		{Date: day(2025, 3, 20), Label: "FL2"},
		{Date: day(2025, 3, 10), Label: "FL1"},
		{Date: day(2025, 3, 30), Label: "FL3"},
	}

	assert.Equal(t, 0, Milestone(day(2025, 3, 9), exams), "before the first exam")
	assert.Equal(t, 1, Milestone(day(2025, 3, 10), exams), "exam day opens its phase")
	assert.Equal(t, 1, Milestone(day(2025, 3, 19), exams))
	assert.Equal(t, 2, Milestone(day(2025, 3, 20), exams))
	assert.Equal(t, 3, Milestone(day(2025, 3, 30), exams))
	assert.Equal(t, 3, Milestone(day(2026, 1, 1), exams), "last phase is open ended")
}

func TestMilestone_IgnoresTimeOfDay(t *testing.T) {
	exams := []domain.ExamEvent{{Date: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)}}
	assert.Equal(t, 1, Milestone(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC), exams))
}

func TestSortExamEvents_StableOnTies(t *testing.T) {
	exams := []domain.ExamEvent{
		{Date: day(2025, 3, 20), Label: "B"},
		{Date: day(2025, 3, 10), Label: "A1"},
		{Date: day(2025, 3, 10), Label: "A2"},
	}
	sorted := SortExamEvents(exams)
	assert.Equal(t, []string{"A1", "A2", "B"}, []string{sorted[0].Label, sorted[1].Label, sorted[2].Label})
	assert.Equal(t, "B", exams[0].Label, "input is not reordered")
}

func TestMilestone_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		var exams []domain.ExamEvent
		n := rng.Intn(6)
		for i := 0; i < n; i++ {
			exams = append(exams, domain.ExamEvent{Date: day(2025, 1, 1).AddDate(0, 0, rng.Intn(120))})
		}
		prev := -1
		for d := 0; d < 130; d++ {
			m := Milestone(day(2025, 1, 1).AddDate(0, 0, d), exams)
			assert.GreaterOrEqual(t, m, prev, "trial %d day %d", trial, d)
			prev = m
		}
		assert.Equal(t, len(exams), prev, "trial %d: every exam passed by the end", trial)
	}
}
