package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
)

type PlanService interface {
	SavePlan(ctx context.Context, req app.PlanRequest) (*domain.PlanConfig, error)
	GetPlan(ctx context.Context, userID string) (*domain.PlanConfig, error)
	AddExam(ctx context.Context, req app.ExamRequest) (*domain.ActivityPlacement, error)
	ListExams(ctx context.Context, userID string) ([]*domain.ActivityPlacement, error)
	ListPlacements(ctx context.Context, userID string, from, to time.Time) ([]*domain.ActivityPlacement, error)
}

type ImportService interface {
	ImportPlan(ctx context.Context, userID, path string) (*app.ImportResult, error)
	ImportPlanFile(ctx context.Context, userID string, file *importer.PlanFile) (*app.ImportResult, error)
}

type GenerateService interface {
	Generate(ctx context.Context, req app.GenerateRequest) (*app.GenerateResponse, error)
}

type ChecklistService interface {
	NextChecklist(ctx context.Context, activityName string) ([]domain.ChecklistItem, error)
}

// ChecklistResolver hands out the next pending checklist for an activity.
type ChecklistResolver interface {
	Next(ctx context.Context, name string) ([]domain.ChecklistItem, error)
}

var (
	_ app.PlanUseCase      = PlanService(nil)
	_ app.GenerateUseCase  = GenerateService(nil)
	_ app.ChecklistUseCase = ChecklistService(nil)
	_ app.PlanImportUseCase = ImportService(nil)
)
