package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// FieldError is a validation failure at a path inside the plan file.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var knownResources = map[string]bool{
	"adaptivetutoring": true,
	"ankiclinic":       true,
	"regularanki":      true,
	"cars":             true,
	"uworld":           true,
	"aamc":             true,
}

func resourceKey(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
}

// ValidatePlanFile checks the plan file before conversion and returns every
// problem found.
func ValidatePlanFile(f *PlanFile) []error {
	var errs []error
	errs = append(errs, validatePlan(&f.Plan)...)
	errs = append(errs, validateExams(f.Exams)...)
	return errs
}

func validatePlan(p *PlanImport) []error {
	var errs []error

	start, startErr := requiredDate("plan.start_date", p.StartDate, &errs)
	end, endErr := requiredDate("plan.end_date", p.EndDate, &errs)
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, fieldErr("plan.end_date", "%s precedes start_date %s", p.EndDate, p.StartDate))
	}
	if p.ExamDate != "" {
		if _, err := domain.ParseDate(p.ExamDate); err != nil {
			errs = append(errs, fieldErr("plan.exam_date", "invalid date %q (expected YYYY-MM-DD)", p.ExamDate))
		}
	}

	if len(p.Hours) == 0 {
		errs = append(errs, fieldErr("plan.hours", "at least one weekday is required"))
	}
	seen := map[string]string{}
	for name, h := range p.Hours {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			errs = append(errs, fieldErr("plan.hours."+name, "unknown weekday"))
			continue
		}
		if prev, ok := seen[day.String()]; ok {
			errs = append(errs, fieldErr("plan.hours."+name, "duplicates %q", prev))
		}
		seen[day.String()] = name
		if h < 0 {
			errs = append(errs, fieldErr("plan.hours."+name, "must not be negative"))
		}
	}

	for i, r := range p.Resources {
		if !knownResources[resourceKey(r)] {
			errs = append(errs, fieldErr(fmt.Sprintf("plan.resources[%d]", i), "unknown resource %q", r))
		}
	}

	if p.Balance != "" && domain.Balance(p.Balance).Normalize() != domain.Balance(p.Balance) {
		errs = append(errs, fieldErr("plan.balance", "unknown balance %q", p.Balance))
	}

	return errs
}

func validateExams(exams []ExamImport) []error {
	var errs []error
	byDate := map[string]int{}
	for i, e := range exams {
		field := fmt.Sprintf("exams[%d]", i)
		if strings.TrimSpace(e.Label) == "" {
			errs = append(errs, fieldErr(field+".label", "is required"))
		}
		d, err := requiredDate(field+".date", e.Date, &errs)
		if err != nil {
			continue
		}
		key := d.Format(domain.DateLayout)
		if j, ok := byDate[key]; ok {
			errs = append(errs, fieldErr(field+".date", "same day as exams[%d]", j))
			continue
		}
		byDate[key] = i
	}
	return errs
}

func requiredDate(field, value string, errs *[]error) (d time.Time, err error) {
	if strings.TrimSpace(value) == "" {
		err = fieldErr(field, "is required")
		*errs = append(*errs, err)
		return d, err
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		err = fieldErr(field, "invalid date %q (expected YYYY-MM-DD)", value)
		*errs = append(*errs, err)
		return d, err
	}
	return t, nil
}
