package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GenerateOptions tune checklist resolution during generation.
type GenerateOptions struct {
	// ChecklistConcurrency bounds how many activity names resolve at once.
	ChecklistConcurrency int
	// ChecklistRetries is the number of extra attempts per lookup before
	// the placement falls back to an empty checklist.
	ChecklistRetries int
	// RetryBackoff is the wait before the first retry; it doubles after.
	RetryBackoff time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.ChecklistConcurrency <= 0 {
		o.ChecklistConcurrency = 4
	}
	if o.ChecklistRetries < 0 {
		o.ChecklistRetries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 20 * time.Millisecond
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type generateService struct {
	plans      repository.PlanRepo
	placements repository.PlacementRepo
	checklists ChecklistResolver
	uow        db.UnitOfWork
	opts       GenerateOptions
	locks      *keyedMutex
	observer   UseCaseObserver
}

func NewGenerateService(
	plans repository.PlanRepo,
	placements repository.PlacementRepo,
	checklists ChecklistResolver,
	uow db.UnitOfWork,
	opts GenerateOptions,
	observers ...UseCaseObserver,
) GenerateService {
	return &generateService{
		plans:      plans,
		placements: placements,
		checklists: checklists,
		uow:        uow,
		opts:       opts.withDefaults(),
		locks:      newKeyedMutex(),
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Generate replaces the user's generated schedule from the start date on.
// Exam events are kept. Nothing is written unless the whole new set commits.
func (s *generateService) Generate(ctx context.Context, req app.GenerateRequest) (resp *app.GenerateResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID}
	defer func() { observe(ctx, s.observer, "generate", startedAt, fields, err) }()

	params, err := req.Parse(s.opts.Now().UTC())
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(params.UserID)
	defer unlock()

	plan, err := s.plans.GetByUser(ctx, params.UserID)
	if err != nil {
		return nil, storeError(err, params.UserID)
	}
	examPlacements, err := s.placements.ListExams(ctx, plan.ID)
	if err != nil {
		return nil, storeError(err, params.UserID)
	}

	plan.ExamDate = params.ExamDate
	plan.StartDate = params.Start
	plan.EndDate = params.End
	plan.Hours = params.Hours
	plan.Resources = params.Resources
	plan.Balance = params.Balance
	plan.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	result := scheduler.Generate(scheduler.GenerateInput{
		Start:     params.Start,
		End:       params.End,
		Hours:     params.Hours,
		Resources: params.Resources,
		Ratio:     params.Balance.Ratio(),
		Exams:     domain.ExamEventsFrom(examPlacements),
		Blocked:   []time.Time{params.ExamDate},
	}, scheduler.NewRand(params.Seed))

	createdAt := time.Now().UTC().Truncate(time.Second)
	for _, p := range result.Placements {
		p.ID = uuid.New().String()
		p.PlanID = plan.ID
		p.CreatedAt = createdAt
	}
	fields["placements"] = len(result.Placements)
	fields["days"] = len(result.Days)

	fallbacks, err := s.attachChecklists(ctx, params.UserID, result.Placements)
	fields["checklist_fallbacks"] = fallbacks
	if err != nil {
		return nil, app.DependencyError(err, "checklist resolution aborted")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txPlacements := repository.NewSQLitePlacementRepo(tx)

		if err := txPlans.Update(ctx, plan); err != nil {
			return err
		}
		deleted, err := txPlacements.DeleteGeneratedFrom(ctx, plan.ID, params.Start)
		if err != nil {
			return err
		}
		fields["replaced"] = deleted
		return txPlacements.CreateBatch(ctx, result.Placements)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, app.NotFoundError("no plan for user %q", params.UserID)
		}
		return nil, app.DependencyError(err, "persisting schedule")
	}

	return &app.GenerateResponse{
		PlanID:             plan.ID,
		Start:              params.Start.Format(domain.DateLayout),
		End:                params.End.Format(domain.DateLayout),
		Placements:         app.NewPlacementViews(result.Placements),
		DaysScheduled:      result.DaysScheduled(),
		DaysSkipped:        result.DaysSkipped(),
		HoursByActivity:    result.HoursByActivity(),
		ChecklistFallbacks: fallbacks,
	}, nil
}

// attachChecklists resolves one checklist per placement. Lookups for the
// same activity name run in date order on one goroutine so each placement
// receives the next checklist in the queue; distinct names run in
// parallel. A lookup that keeps failing leaves that placement with an
// empty checklist and counts as a fallback. Only cancellation aborts.
func (s *generateService) attachChecklists(ctx context.Context, userID string, placements []*domain.ActivityPlacement) (int, error) {
	var order []string
	byName := make(map[string][]*domain.ActivityPlacement)
	for _, p := range placements {
		if _, ok := byName[p.ActivityName]; !ok {
			order = append(order, p.ActivityName)
		}
		byName[p.ActivityName] = append(byName[p.ActivityName], p)
	}

	var fallbacks atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ChecklistConcurrency)
	for _, name := range order {
		group := byName[name]
		g.Go(func() error {
			for _, p := range group {
				items, err := s.lookup(gctx, name)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					fallbacks.Add(1)
					s.observer.ObserveWarning(gctx, "checklist_fallback", map[string]any{
						"user_id":  userID,
						"activity": name,
						"date":     p.Date.Format(domain.DateLayout),
						"error":    err.Error(),
					})
					items = []domain.ChecklistItem{}
				}
				p.Checklist = items
			}
			return nil
		})
	}
	err := g.Wait()
	return int(fallbacks.Load()), err
}

func (s *generateService) lookup(ctx context.Context, name string) ([]domain.ChecklistItem, error) {
	backoff := s.opts.RetryBackoff
	var lastErr error
	for attempt := 0; attempt <= s.opts.ChecklistRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		items, err := s.checklists.Next(ctx, name)
		if err == nil {
			return items, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("checklist %q after %d attempts: %w", name, s.opts.ChecklistRetries+1, lastErr)
}
