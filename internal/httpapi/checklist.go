package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

type ChecklistHandler struct {
	checklists app.ChecklistUseCase
}

func NewChecklistHandler(checklists app.ChecklistUseCase) *ChecklistHandler {
	return &ChecklistHandler{checklists: checklists}
}

// GET /api/checklists/:name
// Dequeues the next checklist for the activity. Unknown names yield an
// empty list.
func (h *ChecklistHandler) Next(c *gin.Context) {
	name := c.Param("name")
	items, err := h.checklists.NextChecklist(c.Request.Context(), name)
	if err != nil {
		RespondError(c, err)
		return
	}
	if items == nil {
		items = []domain.ChecklistItem{}
	}
	RespondOK(c, gin.H{"activity": name, "checklist": items})
}
