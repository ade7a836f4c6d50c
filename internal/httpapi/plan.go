package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

type PlanHandler struct {
	plans     app.PlanUseCase
	generator app.GenerateUseCase
}

func NewPlanHandler(plans app.PlanUseCase, generator app.GenerateUseCase) *PlanHandler {
	return &PlanHandler{plans: plans, generator: generator}
}

// PUT /api/users/:userID/plan
func (h *PlanHandler) SavePlan(c *gin.Context) {
	var req app.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}
	req.UserID = c.Param("userID")

	plan, err := h.plans.SavePlan(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, app.NewPlanView(plan))
}

// GET /api/users/:userID/plan
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("userID"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, app.NewPlanView(plan))
}

// POST /api/users/:userID/plan/exams
func (h *PlanHandler) AddExam(c *gin.Context) {
	var req app.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}
	req.UserID = c.Param("userID")

	exam, err := h.plans.AddExam(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, app.NewPlacementView(exam))
}

// GET /api/users/:userID/plan/exams
func (h *PlanHandler) ListExams(c *gin.Context) {
	exams, err := h.plans.ListExams(c.Request.Context(), c.Param("userID"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"exams": app.NewPlacementViews(exams)})
}

// POST /api/users/:userID/plan/generate
func (h *PlanHandler) Generate(c *gin.Context) {
	var req app.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}
	req.UserID = c.Param("userID")

	resp, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, resp)
}

// GET /api/users/:userID/plan/placements?from=YYYY-MM-DD&to=YYYY-MM-DD
// Either bound may be omitted.
func (h *PlanHandler) ListPlacements(c *gin.Context) {
	fields := map[string]string{}
	from := queryDate(c, "from", fields)
	to := queryDate(c, "to", fields)
	if len(fields) > 0 {
		RespondError(c, app.ValidationError(fields))
		return
	}

	ps, err := h.plans.ListPlacements(c.Request.Context(), c.Param("userID"), from, to)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"placements": app.NewPlacementViews(ps)})
}

func queryDate(c *gin.Context, key string, fields map[string]string) time.Time {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		fields[key] = "must be a date in YYYY-MM-DD form"
	}
	return d
}
