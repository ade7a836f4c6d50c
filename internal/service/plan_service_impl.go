package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/google/uuid"
)

type planService struct {
	plans      repository.PlanRepo
	placements repository.PlacementRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewPlanService(
	plans repository.PlanRepo,
	placements repository.PlacementRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		plans:      plans,
		placements: placements,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// SavePlan creates the user's plan or replaces its configuration. Existing
// placements are left alone until the next generation.
func (s *planService) SavePlan(ctx context.Context, req app.PlanRequest) (plan *domain.PlanConfig, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID}
	defer func() { observe(ctx, s.observer, "save-plan", startedAt, fields, err) }()

	var cfg domain.PlanConfig
	if err = req.Apply(&cfg); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		created, err := upsertPlan(ctx, repository.NewSQLitePlanRepo(tx), &cfg)
		fields["created"] = created
		return err
	})
	plan = &cfg
	if err != nil {
		return nil, storeError(err, req.UserID)
	}
	fields["plan_id"] = plan.ID
	return plan, nil
}

func (s *planService) GetPlan(ctx context.Context, userID string) (*domain.PlanConfig, error) {
	plan, err := s.plans.GetByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, userID)
	}
	return plan, nil
}

// AddExam records an exam event. Generated placements already on that day
// are removed so the exam day stays free.
func (s *planService) AddExam(ctx context.Context, req app.ExamRequest) (exam *domain.ActivityPlacement, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID}
	defer func() { observe(ctx, s.observer, "add-exam", startedAt, fields, err) }()

	date, err := req.Parse()
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plan, err := repository.NewSQLitePlanRepo(tx).GetByUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		var cleared int64
		exam, cleared, err = insertExam(ctx, repository.NewSQLitePlacementRepo(tx), plan.ID, date, req.Label)
		fields["cleared"] = cleared
		return err
	})
	if err != nil {
		return nil, storeError(err, req.UserID)
	}
	return exam, nil
}

func (s *planService) ListExams(ctx context.Context, userID string) ([]*domain.ActivityPlacement, error) {
	plan, err := s.plans.GetByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, userID)
	}
	exams, err := s.placements.ListExams(ctx, plan.ID)
	if err != nil {
		return nil, storeError(err, userID)
	}
	return exams, nil
}

// ListPlacements returns the schedule, exams included, for [from, to]. A zero
// bound leaves that side open.
func (s *planService) ListPlacements(ctx context.Context, userID string, from, to time.Time) ([]*domain.ActivityPlacement, error) {
	plan, err := s.plans.GetByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, userID)
	}
	list, err := s.placements.ListByPlan(ctx, plan.ID, from, to)
	if err != nil {
		return nil, storeError(err, userID)
	}
	return list, nil
}

// upsertPlan creates cfg for its user or replaces the existing plan's
// configuration, keeping its ID and creation time.
func upsertPlan(ctx context.Context, plans repository.PlanRepo, cfg *domain.PlanConfig) (created bool, err error) {
	now := time.Now().UTC().Truncate(time.Second)
	existing, err := plans.GetByUser(ctx, cfg.UserID)
	if err != nil && !isNotFound(err) {
		return false, err
	}
	if existing == nil {
		cfg.ID = uuid.New().String()
		cfg.CreatedAt = now
		cfg.UpdatedAt = now
		return true, plans.Create(ctx, cfg)
	}
	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	cfg.UpdatedAt = now
	return false, plans.Update(ctx, cfg)
}

// insertExam clears generated placements on date and records the exam.
func insertExam(ctx context.Context, placements repository.PlacementRepo, planID string, date time.Time, label string) (*domain.ActivityPlacement, int64, error) {
	cleared, err := placements.DeleteGeneratedOn(ctx, planID, date)
	if err != nil {
		return nil, 0, err
	}
	exam := &domain.ActivityPlacement{
		ID:           uuid.New().String(),
		PlanID:       planID,
		Date:         date,
		ActivityName: strings.TrimSpace(label),
		Kind:         domain.KindExam,
		Status:       domain.StatusNotStarted,
		Source:       domain.SourceExam,
		Checklist:    []domain.ChecklistItem{},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	return exam, cleared, placements.Create(ctx, exam)
}
