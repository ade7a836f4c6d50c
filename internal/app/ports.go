package app

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

type GenerateUseCase interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type PlanUseCase interface {
	SavePlan(ctx context.Context, req PlanRequest) (*domain.PlanConfig, error)
	GetPlan(ctx context.Context, userID string) (*domain.PlanConfig, error)
	AddExam(ctx context.Context, req ExamRequest) (*domain.ActivityPlacement, error)
	ListExams(ctx context.Context, userID string) ([]*domain.ActivityPlacement, error)
	ListPlacements(ctx context.Context, userID string, from, to time.Time) ([]*domain.ActivityPlacement, error)
}

type ChecklistUseCase interface {
	NextChecklist(ctx context.Context, activityName string) ([]domain.ChecklistItem, error)
}

type PlanImportUseCase interface {
	ImportPlan(ctx context.Context, userID, path string) (*ImportResult, error)
}

// ImportResult reports what a plan file import changed.
type ImportResult struct {
	Plan         *domain.PlanConfig
	Created      bool
	ExamsAdded   int
	ExamsSkipped int
}
