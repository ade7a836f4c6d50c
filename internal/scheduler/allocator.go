package scheduler

import (
	"math"

	"github.com/alexanderramin/cadence/internal/catalog"
	"github.com/alexanderramin/cadence/internal/domain"
)

// LateMilestone is the phase from which official AAMC material takes
// precedence over the question bank on practice days.
const LateMilestone = 3

// DayInput is everything the allocator needs to fill one day.
type DayInput struct {
	Hours     float64
	Mode      domain.DayMode
	Milestone int
	Resources domain.ResourceFlags
	Emphasis  bool
}

// Allocation is one activity chosen for a day.
type Allocation struct {
	Activity catalog.Activity
	Hours    float64
}

// Rule is one step of a day's priority chain. Pick selects the catalog
// entry (and returns false when the resource is off); Reserve holds back
// hours for entries later in the chain; Floor rounds the usable hours down
// to a whole number before sizing.
type Rule struct {
	Label   string
	Pick    func(in DayInput) (catalog.Activity, bool)
	Reserve func(in DayInput) float64
	Floor   bool
}

// size returns the hours the rule takes from remaining, or false when the
// activity does not fit.
func (r Rule) size(a catalog.Activity, in DayInput, remaining float64) (float64, bool) {
	usable := remaining
	if r.Reserve != nil {
		usable -= r.Reserve(in)
	}
	if r.Floor {
		usable = math.Floor(usable)
	}
	if usable < a.Duration.Min {
		return 0, false
	}
	return math.Min(a.Duration.Max, usable), true
}

func pickEnabled(name string) func(DayInput) (catalog.Activity, bool) {
	a := catalog.MustLookup(name)
	return func(in DayInput) (catalog.Activity, bool) {
		return a, a.Enabled(in.Resources)
	}
}

func pickAnki(in DayInput) (catalog.Activity, bool) {
	return catalog.AnkiFor(in.Resources.Anki)
}

func pickCARS(in DayInput) (catalog.Activity, bool) {
	a := catalog.CARSFor(in.Emphasis)
	return a, in.Resources.CARS
}

// ankiMin is the Anki reservation. The reservation stands even when no Anki
// deck is enabled; both decks share the same minimum.
func ankiMin(in DayInput) float64 {
	if a, ok := catalog.AnkiFor(in.Resources.Anki); ok {
		return a.Duration.Min
	}
	return catalog.MustLookup(catalog.RegularAnki).Duration.Min
}

func carsMin(DayInput) float64 {
	return catalog.MustLookup(catalog.DailyCARS).Duration.Min
}

var (
	ruleAdaptiveTutoring = Rule{
		Label:   "adaptive tutoring, reserving anki and cars",
		Pick:    pickEnabled(catalog.AdaptiveTutoring),
		Reserve: func(in DayInput) float64 { return ankiMin(in) + carsMin(in) },
	}
	ruleReviewAnki = Rule{
		Label:   "anki, reserving cars",
		Pick:    pickAnki,
		Reserve: carsMin,
	}
	rulePracticeAnki = Rule{
		Label: "anki with what is left",
		Pick:  pickAnki,
	}
	ruleUWorld = Rule{
		Label: "uworld",
		Pick:  pickEnabled(catalog.UWorld),
	}
	ruleUWorldWhole = Rule{
		Label: "uworld in whole hours",
		Pick:  pickEnabled(catalog.UWorld),
		Floor: true,
	}
	ruleAAMC = Rule{
		Label: "aamc materials",
		Pick:  pickEnabled(catalog.AAMCMaterials),
	}
	ruleCARS = Rule{
		Label: "cars, emphasis variant on emphasis days",
		Pick:  pickCARS,
	}
)

var (
	reviewChain        = []Rule{ruleAdaptiveTutoring, ruleReviewAnki, ruleCARS}
	earlyPracticeChain = []Rule{ruleUWorld, ruleAAMC, rulePracticeAnki, ruleCARS}
	latePracticeChain  = []Rule{ruleAAMC, ruleUWorldWhole, rulePracticeAnki, ruleCARS}
)

// RulesFor returns the priority chain for a day's mode and milestone.
// CARS always closes the chain.
func RulesFor(mode domain.DayMode, milestone int) []Rule {
	if mode == domain.ModeReview {
		return reviewChain
	}
	if milestone >= LateMilestone {
		return latePracticeChain
	}
	return earlyPracticeChain
}

// Allocate walks the day's priority chain, taking hours for each activity
// whose resource is enabled and whose minimum still fits. The result keeps
// chain order. Disabled resources and short days simply yield fewer entries.
func Allocate(in DayInput) []Allocation {
	if in.Hours <= 0 {
		return nil
	}
	var out []Allocation
	remaining := in.Hours
	for _, rule := range RulesFor(in.Mode, in.Milestone) {
		a, ok := rule.Pick(in)
		if !ok {
			continue
		}
		hours, fits := rule.size(a, in, remaining)
		if !fits {
			continue
		}
		out = append(out, Allocation{Activity: a, Hours: hours})
		remaining -= hours
	}
	return out
}
