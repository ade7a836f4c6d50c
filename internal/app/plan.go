package app

import (
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// PlanRequest creates or replaces a user's plan configuration.
type PlanRequest struct {
	UserID          string            `json:"userID" validate:"required,notblank"`
	ExamDate        string            `json:"examDate,omitempty" validate:"omitempty,isodate"`
	StartDate       string            `json:"startDate" validate:"required,isodate"`
	EndDate         string            `json:"endDate" validate:"required,isodate"`
	HoursPerDay     map[string]string `json:"hoursPerDay"`
	Resources       ResourcesInput    `json:"resources"`
	SelectedBalance string            `json:"selectedBalance"`
}

// Apply validates the request and copies it onto p.
func (r *PlanRequest) Apply(p *domain.PlanConfig) error {
	if err := validateStruct(r); err != nil {
		return err
	}
	fields := map[string]string{}

	start, _ := domain.ParseDate(r.StartDate)
	end, _ := domain.ParseDate(r.EndDate)
	checkRange(fields, start, end)
	var exam time.Time
	if r.ExamDate != "" {
		exam, _ = domain.ParseDate(r.ExamDate)
	}
	hours, err := domain.ParseWeeklyHours(r.HoursPerDay)
	if err != nil {
		fields["hoursPerDay"] = err.Error()
	}
	if len(fields) > 0 {
		return ValidationError(fields)
	}

	p.UserID = strings.TrimSpace(r.UserID)
	p.ExamDate = exam
	p.StartDate = start
	p.EndDate = end
	p.Hours = hours
	p.Resources = r.Resources.Flags()
	p.Balance = domain.Balance(strings.TrimSpace(r.SelectedBalance)).Normalize()
	return nil
}

// ExamRequest records a fixed exam event on a plan.
type ExamRequest struct {
	UserID string `json:"userID" validate:"required,notblank"`
	Date   string `json:"date" validate:"required,isodate"`
	Label  string `json:"label" validate:"required,notblank"`
}

// Parse validates the request and returns the exam day.
func (r *ExamRequest) Parse() (time.Time, error) {
	if err := validateStruct(r); err != nil {
		return time.Time{}, err
	}
	d, _ := domain.ParseDate(r.Date)
	return d, nil
}

// PlanView is the wire form of a PlanConfig.
type PlanView struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userID"`
	ExamDate        string            `json:"examDate,omitempty"`
	StartDate       string            `json:"startDate"`
	EndDate         string            `json:"endDate"`
	HoursPerDay     map[string]string `json:"hoursPerDay"`
	Resources       ResourcesInput    `json:"resources"`
	SelectedBalance domain.Balance    `json:"selectedBalance"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func NewPlanView(p *domain.PlanConfig) PlanView {
	v := PlanView{
		ID:              p.ID,
		UserID:          p.UserID,
		StartDate:       p.StartDate.Format(domain.DateLayout),
		EndDate:         p.EndDate.Format(domain.DateLayout),
		HoursPerDay:     p.Hours.Strings(),
		Resources:       ResourcesFromFlags(p.Resources),
		SelectedBalance: p.Balance,
		UpdatedAt:       p.UpdatedAt,
	}
	if !p.ExamDate.IsZero() {
		v.ExamDate = p.ExamDate.Format(domain.DateLayout)
	}
	return v
}
