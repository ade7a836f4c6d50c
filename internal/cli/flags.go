package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/pflag"
)

// hoursValue is a pflag.Value for weekly hours written as
// "mon=4,tue=4,sat=6". The keys "all", "weekdays" and "weekend" expand to
// several days. Repeated flags accumulate, later entries win.
type hoursValue struct {
	hours map[string]string
}

var _ pflag.Value = (*hoursValue)(nil)

func newHoursValue() *hoursValue {
	return &hoursValue{hours: map[string]string{}}
}

func (v *hoursValue) Type() string { return "day=hours,..." }

func (v *hoursValue) String() string {
	if v == nil || len(v.hours) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.hours))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if h, ok := v.hours[d.String()]; ok {
			parts = append(parts, strings.ToLower(d.String()[:3])+"="+h)
		}
	}
	return strings.Join(parts, ",")
}

func (v *hoursValue) Set(s string) error {
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected day=hours, got %q", pair)
		}
		val = strings.TrimSpace(val)
		if f, err := strconv.ParseFloat(val, 64); err != nil || f < 0 {
			return fmt.Errorf("hours for %q must be a non-negative number", key)
		}
		days, err := expandDays(key)
		if err != nil {
			return err
		}
		for _, d := range days {
			v.hours[d.String()] = val
		}
	}
	return nil
}

func (v *hoursValue) set() bool { return len(v.hours) > 0 }

func expandDays(key string) ([]time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "all":
		return []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}, nil
	case "weekdays":
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, nil
	case "weekend":
		return []time.Weekday{time.Saturday, time.Sunday}, nil
	}
	d, err := domain.ParseWeekday(key)
	if err != nil {
		return nil, err
	}
	return []time.Weekday{d}, nil
}

// resourcesValue is a pflag.Value for a comma-separated list of enabled
// resources, e.g. "uworld,cars,aamc". "none" clears the list.
type resourcesValue struct {
	res     app.ResourcesInput
	changed bool
}

var _ pflag.Value = (*resourcesValue)(nil)

var resourceSetters = map[string]func(*app.ResourcesInput){
	"adaptivetutoring": func(r *app.ResourcesInput) { r.AdaptiveTutoring = true },
	"ankiclinic":       func(r *app.ResourcesInput) { r.AnkiClinic = true },
	"regularanki":      func(r *app.ResourcesInput) { r.RegularAnki = true },
	"cars":             func(r *app.ResourcesInput) { r.CARS = true },
	"uworld":           func(r *app.ResourcesInput) { r.UWorld = true },
	"aamc":             func(r *app.ResourcesInput) { r.AAMC = true },
}

func resourceNames() []string {
	names := make([]string, 0, len(resourceSetters))
	for n := range resourceSetters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (v *resourcesValue) Type() string { return "resources" }

func (v *resourcesValue) String() string {
	if v == nil {
		return ""
	}
	return strings.Join(v.res.Flags().Names(), ",")
}

func (v *resourcesValue) Set(s string) error {
	v.changed = true
	for _, name := range strings.Split(s, ",") {
		key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
		if key == "" {
			continue
		}
		if key == "none" {
			v.res = app.ResourcesInput{}
			continue
		}
		setter, ok := resourceSetters[key]
		if !ok {
			return fmt.Errorf("unknown resource %q (known: %s)", strings.TrimSpace(name), strings.Join(resourceNames(), ", "))
		}
		setter(&v.res)
	}
	return nil
}

// balanceUsage lists accepted --balance values for help text.
func balanceUsage() string {
	names := make([]string, 0, 5)
	for _, b := range domain.ValidBalances() {
		names = append(names, string(b))
	}
	return "Content/practice balance: " + strings.Join(names, ", ")
}
