package scheduler

import (
	"math/rand"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Rand is the entropy the scheduler draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a source seeded with *seed, or from the clock when seed is nil.
func NewRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// MaxEmphasisDays caps the emphasis sample regardless of range length.
const MaxEmphasisDays = 18

// EmphasisSampleSize is the number of draws taken for a range of totalDays:
// min(18, floor(totalDays/3)).
func EmphasisSampleSize(totalDays int) int {
	k := totalDays / 3
	if k > MaxEmphasisDays {
		k = MaxEmphasisDays
	}
	if k < 0 {
		return 0
	}
	return k
}

// SampleEmphasisDays draws EmphasisSampleSize(totalDays) day offsets in
// [0, totalDays) with replacement. Duplicates collapse, so the returned set
// may hold fewer than k days.
func SampleEmphasisDays(rng Rand, totalDays int) map[int]bool {
	k := EmphasisSampleSize(totalDays)
	days := make(map[int]bool, k)
	for i := 0; i < k; i++ {
		days[rng.Intn(totalDays)] = true
	}
	return days
}

// DrawMode classifies one day: Review when r < ratio, Practice otherwise.
// A ratio of 1 always yields Review and 0 always yields Practice.
func DrawMode(rng Rand, ratio float64) domain.DayMode {
	if rng.Float64() < ratio {
		return domain.ModeReview
	}
	return domain.ModePractice
}
