package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/checklist"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/require"
)

type harness struct {
	db         *sql.DB
	plans      *repository.SQLitePlanRepo
	placements *repository.SQLitePlacementRepo
	planSvc    PlanService
	observer   *recordingObserver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(testutil.NewTestDB(t))
}

func newHarnessOn(database *sql.DB) *harness {
	h := &harness{
		db:         database,
		plans:      repository.NewSQLitePlanRepo(database),
		placements: repository.NewSQLitePlacementRepo(database),
		observer:   &recordingObserver{},
	}
	h.planSvc = NewPlanService(h.plans, h.placements, testutil.NewTestUoW(database), h.observer)
	return h
}

// generator builds a GenerateService over the harness store. A nil
// resolver uses the SQLite checklist store seeded from the embedded CSV.
func (h *harness) generator(resolver ChecklistResolver, uow db.UnitOfWork) GenerateService {
	if uow == nil {
		uow = testutil.NewTestUoW(h.db)
	}
	if resolver == nil {
		resolver = checklist.NewResolver(checklist.NewSQLStore(testutil.NewTestUoW(h.db)), nil)
	}
	return NewGenerateService(h.plans, h.placements, resolver, uow, GenerateOptions{
		ChecklistConcurrency: 3,
		ChecklistRetries:     2,
		RetryBackoff:         time.Millisecond,
		Now:                  func() time.Time { return testutil.Date(2025, time.January, 1) },
	}, h.observer)
}

func (h *harness) savePlan(t *testing.T, userID string) *domain.PlanConfig {
	t.Helper()
	plan, err := h.planSvc.SavePlan(context.Background(), app.PlanRequest{
		UserID:      userID,
		StartDate:   "2025-01-06",
		EndDate:     "2025-03-01",
		HoursPerDay: map[string]string{"Monday": "2"},
	})
	require.NoError(t, err)
	return plan
}

func (h *harness) all(t *testing.T, planID string) []*domain.ActivityPlacement {
	t.Helper()
	list, err := h.placements.ListByPlan(context.Background(), planID, time.Time{}, time.Time{})
	require.NoError(t, err)
	return list
}

func int64p(v int64) *int64 { return &v }

func generateRequest(userID string) app.GenerateRequest {
	return app.GenerateRequest{
		UserID:   userID,
		ExamDate: "2025-02-28",
		Resources: &app.ResourcesInput{
			AdaptiveTutoring: true,
			RegularAnki:      true,
			CARS:             true,
			UWorld:           true,
			AAMC:             true,
		},
		HoursPerDay: map[string]string{
			"Monday": "6", "Tuesday": "6", "Wednesday": "6", "Thursday": "6",
			"Friday": "4", "Saturday": "8", "Sunday": "0",
		},
		SelectedBalance: "balanced",
		StartDate:       "2025-01-06",
		EndDate:         "2025-03-01",
		Seed:            int64p(42),
	}
}

// scriptedResolver numbers lookups per activity name; fail decides whether
// the nth call for a name errors.
type scriptedResolver struct {
	mu    sync.Mutex
	calls map[string]int
	fail  func(name string, call int) error
}

func (r *scriptedResolver) Next(ctx context.Context, name string) ([]domain.ChecklistItem, error) {
	r.mu.Lock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[name]++
	n := r.calls[name]
	r.mu.Unlock()

	if r.fail != nil {
		if err := r.fail(name, n); err != nil {
			return nil, err
		}
	}
	return []domain.ChecklistItem{{Text: fmt.Sprintf("%s #%d", name, n)}}, nil
}

func (r *scriptedResolver) callsFor(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

type recordingObserver struct {
	mu       sync.Mutex
	events   []UseCaseEvent
	warnings []map[string]any
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) ObserveWarning(_ context.Context, _ string, fields map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.warnings = append(o.warnings, fields)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}
