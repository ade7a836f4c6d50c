package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ErrNotFound is wrapped by every repository lookup that matches no row.
var ErrNotFound = errors.New("not found")

type PlanRepo interface {
	Create(ctx context.Context, p *domain.PlanConfig) error
	GetByID(ctx context.Context, id string) (*domain.PlanConfig, error)
	GetByUser(ctx context.Context, userID string) (*domain.PlanConfig, error)
	Update(ctx context.Context, p *domain.PlanConfig) error
	Delete(ctx context.Context, id string) error
}

// PlacementRepo stores generated placements and exam events. A zero from or
// to in ListByPlan leaves that side of the range open.
type PlacementRepo interface {
	Create(ctx context.Context, p *domain.ActivityPlacement) error
	CreateBatch(ctx context.Context, placements []*domain.ActivityPlacement) error
	ListByPlan(ctx context.Context, planID string, from, to time.Time) ([]*domain.ActivityPlacement, error)
	ListExams(ctx context.Context, planID string) ([]*domain.ActivityPlacement, error)
	DeleteGeneratedFrom(ctx context.Context, planID string, from time.Time) (int64, error)
	DeleteGeneratedOn(ctx context.Context, planID string, date time.Time) (int64, error)
}

// ChecklistQueueRepo persists the per-activity queues of pending checklists.
type ChecklistQueueRepo interface {
	SeedVersion(ctx context.Context) (string, error)
	MarkSeeded(ctx context.Context, version string) error
	GetQueue(ctx context.Context, activity string) ([][]domain.ChecklistItem, error)
	PutQueue(ctx context.Context, activity string, queue [][]domain.ChecklistItem) error
	ListActivities(ctx context.Context) ([]string, error)
}
