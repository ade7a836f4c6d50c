package importer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

// Converted is a plan file turned into use-case requests.
type Converted struct {
	Plan  app.PlanRequest
	Exams []app.ExamRequest
}

// Convert maps a validated PlanFile onto requests for userID. Call
// ValidatePlanFile first; Convert assumes the file is valid. Exams come out
// in date order. Weekdays missing from hours are days off.
func Convert(f *PlanFile, userID string) *Converted {
	hours := make(map[string]string, 7)
	for name, h := range f.Plan.Hours {
		if day, err := domain.ParseWeekday(name); err == nil {
			hours[day.String()] = strconv.FormatFloat(h, 'f', -1, 64)
		}
	}

	var res app.ResourcesInput
	for _, r := range f.Plan.Resources {
		switch resourceKey(r) {
		case "adaptivetutoring":
			res.AdaptiveTutoring = true
		case "ankiclinic":
			res.AnkiClinic = true
		case "regularanki":
			res.RegularAnki = true
		case "cars":
			res.CARS = true
		case "uworld":
			res.UWorld = true
		case "aamc":
			res.AAMC = true
		}
	}

	out := &Converted{
		Plan: app.PlanRequest{
			UserID:          userID,
			StartDate:       strings.TrimSpace(f.Plan.StartDate),
			EndDate:         strings.TrimSpace(f.Plan.EndDate),
			ExamDate:        strings.TrimSpace(f.Plan.ExamDate),
			HoursPerDay:     hours,
			Resources:       res,
			SelectedBalance: f.Plan.Balance,
		},
		Exams: make([]app.ExamRequest, 0, len(f.Exams)),
	}
	for _, e := range f.Exams {
		out.Exams = append(out.Exams, app.ExamRequest{
			UserID: userID,
			Date:   strings.TrimSpace(e.Date),
			Label:  strings.TrimSpace(e.Label),
		})
	}
	sort.SliceStable(out.Exams, func(i, j int) bool { return out.Exams[i].Date < out.Exams[j].Date })
	return out
}
