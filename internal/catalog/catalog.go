// Package catalog holds the static table of study activities the scheduler
// can place. It is pure data: the allocator decides when each entry is used.
package catalog

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Version identifies the catalog table. Bump it whenever names or duration
// bounds change, since stored placements reference entries by name.
const Version = "2024.1"

const (
	AdaptiveTutoring = "Adaptive Tutoring Suite"
	AnkiClinic       = "Anki Clinic"
	RegularAnki      = "Regular Anki"
	AAMCMaterials    = "AAMC Materials"
	UWorld           = "UWorld"
	DailyCARS        = "Daily CARS"
	EmphasisCARS     = "AAMC CARS Question Pack"
)

// Resource names the external study resource an activity depends on.
type Resource string

const (
	ResourceAdaptiveTutoring Resource = "adaptiveTutoring"
	ResourceAnkiClinic       Resource = "ankiClinic"
	ResourceRegularAnki      Resource = "regularAnki"
	ResourceCARS             Resource = "cars"
	ResourceUWorld           Resource = "uworld"
	ResourceAAMC             Resource = "aamc"
)

// DurationPolicy bounds the hours a single placement may take.
// A fixed policy has Min == Max.
type DurationPolicy struct {
	Min float64
	Max float64
}

// Fixed returns a policy that always yields exactly hours.
func Fixed(hours float64) DurationPolicy { return DurationPolicy{Min: hours, Max: hours} }

// Range returns a policy bounded by [min, max].
func Range(min, max float64) DurationPolicy { return DurationPolicy{Min: min, Max: max} }

// IsFixed reports whether the policy allows exactly one duration.
func (d DurationPolicy) IsFixed() bool { return d.Min == d.Max }

// Contains reports whether hours lies within the policy bounds.
func (d DurationPolicy) Contains(hours float64) bool {
	return hours >= d.Min && hours <= d.Max
}

func (d DurationPolicy) String() string {
	if d.IsFixed() {
		return fmt.Sprintf("fixed %gh", d.Min)
	}
	return fmt.Sprintf("%g-%gh", d.Min, d.Max)
}

// Activity is one catalog entry.
type Activity struct {
	Name          string
	Kind          domain.ActivityKind
	PriorityClass int
	Duration      DurationPolicy
	Resource      Resource
	Optional      bool
	Description   string
}

var activities = []Activity{
	{
		Name:          AdaptiveTutoring,
		Kind:          domain.KindReview,
		PriorityClass: 1,
		Duration:      Range(1, 3),
		Resource:      ResourceAdaptiveTutoring,
		Optional:      true,
		Description:   "Work through the next adaptive tutoring module and its end-of-chapter questions.",
	},
	{
		Name:          AnkiClinic,
		Kind:          domain.KindReview,
		PriorityClass: 2,
		Duration:      Range(1, 2),
		Resource:      ResourceAnkiClinic,
		Optional:      true,
		Description:   "Clear due cards and add today's new cards from the clinic deck.",
	},
	{
		Name:          RegularAnki,
		Kind:          domain.KindReview,
		PriorityClass: 2,
		Duration:      Range(1, 2),
		Resource:      ResourceRegularAnki,
		Optional:      true,
		Description:   "Clear due cards and add today's new cards from your own deck.",
	},
	{
		Name:          AAMCMaterials,
		Kind:          domain.KindPractice,
		PriorityClass: 1,
		Duration:      Fixed(2),
		Resource:      ResourceAAMC,
		Optional:      true,
		Description:   "Complete the next official AAMC question pack or section bank set.",
	},
	{
		Name:          UWorld,
		Kind:          domain.KindPractice,
		PriorityClass: 1,
		Duration:      Range(1, 3),
		Resource:      ResourceUWorld,
		Optional:      true,
		Description:   "Timed UWorld blocks followed by a full review of every explanation.",
	},
	{
		Name:          DailyCARS,
		Kind:          domain.KindPractice,
		PriorityClass: 3,
		Duration:      Range(1, 2),
		Resource:      ResourceCARS,
		Optional:      true,
		Description:   "Timed CARS passages from the daily passage source.",
	},
	{
		Name:          EmphasisCARS,
		Kind:          domain.KindPractice,
		PriorityClass: 3,
		Duration:      Range(1, 2),
		Resource:      ResourceCARS,
		Optional:      true,
		Description:   "CARS passages from the official AAMC pack instead of the daily source.",
	},
}

var byName = func() map[string]Activity {
	m := make(map[string]Activity, len(activities))
	for _, a := range activities {
		m[a.Name] = a
	}
	return m
}()

// All returns a copy of every catalog entry in table order.
func All() []Activity {
	out := make([]Activity, len(activities))
	copy(out, activities)
	return out
}

// Lookup returns the entry with the given name.
func Lookup(name string) (Activity, bool) {
	a, ok := byName[name]
	return a, ok
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Activity {
	a, ok := byName[name]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown activity %q", name))
	}
	return a
}

// Enabled reports whether the resource an activity depends on is switched on.
func (a Activity) Enabled(r domain.ResourceFlags) bool {
	switch a.Resource {
	case ResourceAdaptiveTutoring:
		return r.AdaptiveTutoring
	case ResourceAnkiClinic:
		return r.Anki == domain.AnkiClinic
	case ResourceRegularAnki:
		return r.Anki == domain.AnkiRegular
	case ResourceCARS:
		return r.CARS
	case ResourceUWorld:
		return r.UWorld
	case ResourceAAMC:
		return r.AAMC
	default:
		return false
	}
}

// AnkiFor returns the Anki entry for the plan's chosen variant.
func AnkiFor(v domain.AnkiVariant) (Activity, bool) {
	switch v {
	case domain.AnkiClinic:
		return MustLookup(AnkiClinic), true
	case domain.AnkiRegular:
		return MustLookup(RegularAnki), true
	default:
		return Activity{}, false
	}
}

// CARSFor returns the CARS variant for a day.
func CARSFor(emphasis bool) Activity {
	if emphasis {
		return MustLookup(EmphasisCARS)
	}
	return MustLookup(DailyCARS)
}
