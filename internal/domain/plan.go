package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WeeklyHours maps each weekday to the whole hours available for study.
// A missing or zero entry is a break day.
type WeeklyHours map[time.Weekday]int

// For returns the hours available on the weekday of date.
func (w WeeklyHours) For(date time.Time) int {
	return w[date.Weekday()]
}

// Total sums the weekly hours.
func (w WeeklyHours) Total() int {
	total := 0
	for _, h := range w {
		total += h
	}
	return total
}

// ParseWeekday accepts full or three-letter English weekday names, any case.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// ParseWeeklyHours converts a weekday-name → numeric-string mapping, as sent
// by the generation trigger, into WeeklyHours. Fractional values are
// truncated to whole hours.
func ParseWeeklyHours(raw map[string]string) (WeeklyHours, error) {
	hours := make(WeeklyHours, len(raw))
	for name, v := range raw {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		v = strings.TrimSpace(v)
		if v == "" {
			hours[day] = 0
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("hours for %s must be a non-negative number, got %q", day, v)
		}
		hours[day] = int(f)
	}
	return hours, nil
}

// Strings renders WeeklyHours back into the weekday-name → string form,
// Sunday first.
func (w WeeklyHours) Strings() map[string]string {
	out := make(map[string]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[d.String()] = strconv.Itoa(w[d])
	}
	return out
}

// ResourceFlags are the external study resources a user has access to.
type ResourceFlags struct {
	AdaptiveTutoring bool
	Anki             AnkiVariant
	CARS             bool
	UWorld           bool
	AAMC             bool
}

// Any reports whether at least one resource is enabled.
func (r ResourceFlags) Any() bool {
	return r.AdaptiveTutoring || r.Anki != AnkiNone || r.CARS || r.UWorld || r.AAMC
}

// Names lists the enabled resources in a stable order.
func (r ResourceFlags) Names() []string {
	var names []string
	if r.AdaptiveTutoring {
		names = append(names, "adaptiveTutoring")
	}
	switch r.Anki {
	case AnkiClinic:
		names = append(names, "ankiClinic")
	case AnkiRegular:
		names = append(names, "regularAnki")
	}
	if r.CARS {
		names = append(names, "cars")
	}
	if r.UWorld {
		names = append(names, "uworld")
	}
	if r.AAMC {
		names = append(names, "aamc")
	}
	return names
}

// Balance is one of the enumerated content/practice preferences.
type Balance string

const (
	BalanceContentOnly   Balance = "content-only"
	BalanceContentHeavy  Balance = "content-heavy"
	BalanceBalanced      Balance = "balanced"
	BalancePracticeHeavy Balance = "practice-heavy"
	BalancePracticeOnly  Balance = "practice-only"
)

var balanceRatios = map[Balance]float64{
	BalanceContentOnly:   1.0,
	BalanceContentHeavy:  0.75,
	BalanceBalanced:      0.5,
	BalancePracticeHeavy: 0.25,
	BalancePracticeOnly:  0.0,
}

// ValidBalances lists the accepted balance names, review-heaviest first.
func ValidBalances() []Balance {
	out := make([]Balance, 0, len(balanceRatios))
	for b := range balanceRatios {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return balanceRatios[out[i]] > balanceRatios[out[j]] })
	return out
}

// Ratio is the probability that a day is classified Review.
// Unknown or empty values map to the balanced 0.5.
func (b Balance) Ratio() float64 {
	if r, ok := balanceRatios[b]; ok {
		return r
	}
	return balanceRatios[BalanceBalanced]
}

// Normalize returns b when it is a known balance and BalanceBalanced otherwise.
func (b Balance) Normalize() Balance {
	if _, ok := balanceRatios[b]; ok {
		return b
	}
	return BalanceBalanced
}

// PlanConfig is a user's persisted study plan configuration.
type PlanConfig struct {
	ID        string
	UserID    string
	ExamDate  time.Time
	StartDate time.Time
	EndDate   time.Time
	Hours     WeeklyHours
	Resources ResourceFlags
	Balance   Balance
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the date range and hours.
func (p *PlanConfig) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("end date %s precedes start date %s",
			p.EndDate.Format(DateLayout), p.StartDate.Format(DateLayout))
	}
	for d, h := range p.Hours {
		if h < 0 {
			return fmt.Errorf("hours for %s must not be negative", d)
		}
	}
	return nil
}
