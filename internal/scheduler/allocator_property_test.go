package scheduler

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func randomResources(rng *rand.Rand) domain.ResourceFlags {
	return domain.ResourceFlags{
		AdaptiveTutoring: rng.Intn(2) == 1,
		Anki:             domain.ResolveAnkiVariant(rng.Intn(2) == 1, rng.Intn(2) == 1),
		CARS:             rng.Intn(2) == 1,
		UWorld:           rng.Intn(2) == 1,
		AAMC:             rng.Intn(2) == 1,
	}
}

// TestAllocate_Invariants property-tests the allocator contract: the day's
// budget is never exceeded, every entry respects its catalog bounds and its
// resource gate, and nothing is emitted with non-positive hours.
func TestAllocate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 2000; trial++ {
		mode := domain.ModeReview
		if rng.Intn(2) == 1 {
			mode = domain.ModePractice
		}
		in := DayInput{
			Hours:     float64(rng.Intn(14) + 1),
			Mode:      mode,
			Milestone: rng.Intn(6),
			Resources: randomResources(rng),
			Emphasis:  rng.Intn(4) == 0,
		}

		allocs := Allocate(in)

		var total float64
		seen := map[string]bool{}
		for _, a := range allocs {
			total += a.Hours
			assert.Greater(t, a.Hours, 0.0, "trial %d: %s must have positive hours", trial, a.Activity.Name)
			assert.True(t, a.Activity.Duration.Contains(a.Hours),
				"trial %d: %s hours %.2f outside %s", trial, a.Activity.Name, a.Hours, a.Activity.Duration)
			assert.True(t, a.Activity.Enabled(in.Resources),
				"trial %d: %s placed without its resource", trial, a.Activity.Name)
			assert.False(t, seen[a.Activity.Name], "trial %d: %s placed twice", trial, a.Activity.Name)
			seen[a.Activity.Name] = true
		}
		assert.LessOrEqual(t, total, in.Hours, "trial %d: total %.2f exceeds %.2f", trial, total, in.Hours)
	}
}

// TestAllocate_Invariants_PriorityOrder checks that the output is a
// subsequence of the day's rule chain.
func TestAllocate_Invariants_PriorityOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 1000; trial++ {
		mode := domain.ModePractice
		if rng.Intn(2) == 1 {
			mode = domain.ModeReview
		}
		in := DayInput{
			Hours:     float64(rng.Intn(12) + 1),
			Mode:      mode,
			Milestone: rng.Intn(5),
			Resources: randomResources(rng),
			Emphasis:  rng.Intn(2) == 0,
		}
		allocs := Allocate(in)
		rules := RulesFor(in.Mode, in.Milestone)

		ri := 0
		for _, a := range allocs {
			matched := false
			for ri < len(rules) {
				picked, ok := rules[ri].Pick(in)
				ri++
				if ok && picked.Name == a.Activity.Name {
					matched = true
					break
				}
			}
			assert.True(t, matched, "trial %d: %s out of chain order", trial, a.Activity.Name)
		}
	}
}
