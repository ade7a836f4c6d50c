package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-04-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-04-12T17:45:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC), d, "time of day is dropped")

	_, err = ParseDate("12/04/2025")
	require.Error(t, err)
}

func TestDaysInRange(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysInRange(start, start))
	assert.Equal(t, 30, DaysInRange(start, start.AddDate(0, 0, 29)))
	assert.Equal(t, 0, DaysInRange(start, start.AddDate(0, 0, -1)))
	// Time of day on the start is ignored.
	assert.Equal(t, 7, DaysInRange(start.Add(15*time.Hour), start.AddDate(0, 0, 6)))
}

func TestExamEventsFrom_SkipsGenerated(t *testing.T) {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	placements := []*ActivityPlacement{
		{ActivityName: "UWorld", Source: SourceGenerated, Date: day},
		{ActivityName: "Full Length 1", Source: SourceExam, Date: day},
	}
	events := ExamEventsFrom(placements)
	require.Len(t, events, 1)
	assert.Equal(t, "Full Length 1", events[0].Label)
	assert.Equal(t, Day(day), events[0].Date)
}
