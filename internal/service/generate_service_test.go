package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/catalog"
	"github.com/alexanderramin/cadence/internal/checklist"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PersistsScheduleAroundExams(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.savePlan(t, "user-1")
	_, err := h.planSvc.AddExam(ctx, app.ExamRequest{UserID: "user-1", Date: "2025-01-31", Label: "FL1"})
	require.NoError(t, err)

	req := generateRequest("user-1")
	resp, err := h.generator(nil, nil).Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, resp.PlanID)
	assert.Equal(t, "2025-01-06", resp.Start)
	assert.Equal(t, "2025-03-01", resp.End)
	assert.NotEmpty(t, resp.Placements)
	// 55 days: seven Sundays plus two exam days are skipped.
	assert.Equal(t, 9, resp.DaysSkipped)
	assert.Equal(t, 46, resp.DaysScheduled)
	assert.Zero(t, resp.ChecklistFallbacks)

	hours, err := domain.ParseWeeklyHours(req.HoursPerDay)
	require.NoError(t, err)

	stored := h.all(t, plan.ID)
	require.Len(t, stored, len(resp.Placements)+1, "generated set plus the exam")
	perDay := map[time.Time]float64{}
	for _, p := range stored {
		if p.IsExam() {
			assert.Equal(t, "FL1", p.ActivityName)
			continue
		}
		assert.False(t, p.Date.Equal(testutil.Date(2025, time.January, 31)), "nothing on the exam event day")
		assert.False(t, p.Date.Equal(testutil.Date(2025, time.February, 28)), "nothing on the official exam day")
		assert.NotEqual(t, time.Sunday, p.Date.Weekday(), "Sunday has no hours")
		assert.NotEmpty(t, p.Checklist, "%s on %s has no checklist", p.ActivityName, p.Date.Format(domain.DateLayout))

		a, ok := catalog.Lookup(p.ActivityName)
		require.True(t, ok)
		assert.True(t, a.Duration.Contains(p.Hours), "%s got %.1fh", p.ActivityName, p.Hours)
		perDay[p.Date] += p.Hours
	}
	for d, total := range perDay {
		assert.LessOrEqual(t, total, float64(hours.For(d)), "budget exceeded on %s", d.Format(domain.DateLayout))
	}

	updated, err := h.plans.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, testutil.Date(2025, time.February, 28).Equal(updated.ExamDate))
	assert.Equal(t, hours, updated.Hours)
	assert.Equal(t, domain.AnkiRegular, updated.Resources.Anki)
}

func TestGenerate_SameSeedSameSchedule(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.savePlan(t, "user-1")
	svc := h.generator(&scriptedResolver{}, nil)

	first, err := svc.Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)
	second, err := svc.Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)

	require.Equal(t, len(first.Placements), len(second.Placements))
	for i := range first.Placements {
		assert.Equal(t, first.Placements[i].Date, second.Placements[i].Date)
		assert.Equal(t, first.Placements[i].ActivityName, second.Placements[i].ActivityName)
		assert.Equal(t, first.Placements[i].Hours, second.Placements[i].Hours)
	}
	assert.Equal(t, first.HoursByActivity, second.HoursByActivity)
}

func TestGenerate_RepeatedRunsDoNotAccumulate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.savePlan(t, "user-1")
	svc := h.generator(&scriptedResolver{}, nil)

	_, err := svc.Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)
	resp, err := svc.Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)

	stored := h.all(t, plan.ID)
	assert.Len(t, stored, len(resp.Placements))

	ids := map[string]bool{}
	for _, v := range resp.Placements {
		ids[v.ID] = true
	}
	for _, p := range stored {
		assert.True(t, ids[p.ID], "stale placement %s from the first run survived", p.ID)
	}
}

func TestGenerate_OverlappingRangeReplacesFromStartOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.savePlan(t, "user-1")
	svc := h.generator(&scriptedResolver{}, nil)

	_, err := svc.Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)
	before := h.all(t, plan.ID)

	cut := testutil.Date(2025, time.February, 1)
	req := generateRequest("user-1")
	req.StartDate = "2025-02-01"
	req.EndDate = "2025-02-14"
	resp, err := svc.Generate(ctx, req)
	require.NoError(t, err)

	var kept int
	for _, p := range before {
		if p.Date.Before(cut) {
			kept++
		}
	}
	after := h.all(t, plan.ID)
	assert.Len(t, after, kept+len(resp.Placements))

	seen := map[string]bool{}
	for _, p := range after {
		key := p.Date.Format(domain.DateLayout) + "|" + p.ActivityName
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
		assert.False(t, p.Date.After(testutil.Date(2025, time.February, 14)),
			"first-run placements past the new end are cleared too")
	}
}

func TestGenerate_PlanNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.generator(&scriptedResolver{}, nil).Generate(context.Background(), generateRequest("ghost"))

	var ge *app.GenerateError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, app.ErrPlanNotFound, ge.Code)
}

func TestGenerate_ValidationFailsBeforeAnyWrite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.savePlan(t, "user-1")
	resolver := &scriptedResolver{}
	svc := h.generator(resolver, nil)

	_, err := svc.Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)
	before := h.all(t, plan.ID)

	req := generateRequest("user-1")
	req.HoursPerDay = nil
	_, err = svc.Generate(ctx, req)
	assert.Equal(t, app.ErrValidationFailed, app.CodeOf(err))

	assert.Equal(t, len(before), len(h.all(t, plan.ID)))
	ev, ok := h.observer.last("generate")
	require.True(t, ok)
	assert.False(t, ev.Success)
}

func TestGenerate_RollbackOnPersistFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.savePlan(t, "user-1")

	_, err := h.generator(&scriptedResolver{}, nil).Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)
	before := h.all(t, plan.ID)

	// The first placements write is the delete, the second the first insert.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     h.db,
		Table:  "placements",
		FailOn: 2,
		Err:    fmt.Errorf("injected insert failure"),
	}
	req := generateRequest("user-1")
	req.SelectedBalance = "practice-only"
	req.Seed = int64p(7)
	_, err = h.generator(&scriptedResolver{}, failUoW).Generate(ctx, req)

	var ge *app.GenerateError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, app.ErrDependencyFailed, ge.Code)
	assert.Contains(t, err.Error(), "persisting schedule")
	assert.ErrorContains(t, ge.Err, "injected insert failure")

	after := h.all(t, plan.ID)
	require.Len(t, after, len(before), "old schedule must survive the failed run")
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
	stored, err := h.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BalanceBalanced, stored.Balance, "plan update rolled back")
}

// Checklist queues belong to the resolver and advance as lookups happen.
// A run whose persist fails has still consumed the checklists it fetched.
func TestGenerate_FailedPersistStillAdvancesChecklistQueues(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.savePlan(t, "user-1")

	const depth = 500
	queues := map[string][][]domain.ChecklistItem{}
	for _, a := range catalog.All() {
		for i := 0; i < depth; i++ {
			queues[a.Name] = append(queues[a.Name], []domain.ChecklistItem{{Text: fmt.Sprintf("%s %d", a.Name, i+1)}})
		}
	}
	store := checklist.NewSQLStore(testutil.NewTestUoW(h.db))
	resolver := checklist.NewResolver(store, func() (checklist.Template, error) {
		return checklist.Template{Version: "test", Queues: queues}, nil
	})

	failUoW := &testutil.FailOnNthExecUoW{DB: h.db, Table: "placements", FailOn: 2, Err: fmt.Errorf("disk full")}
	_, err := h.generator(resolver, failUoW).Generate(ctx, generateRequest("user-1"))
	require.Equal(t, app.ErrDependencyFailed, app.CodeOf(err))
	assert.Empty(t, h.all(t, plan.ID), "nothing persisted")

	pending, err := store.Pending(ctx, catalog.UWorld)
	require.NoError(t, err)
	assert.Less(t, pending, depth, "lookups made before the failed persist are not handed back")

	res, err := h.generator(resolver, nil).Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)
	for _, p := range res.Placements {
		if p.ActivityName == catalog.UWorld {
			require.NotEmpty(t, p.Checklist)
			assert.NotEqual(t, "UWorld 1", p.Checklist[0].Text, "the next run continues from the advanced queue")
			break
		}
	}
}

func TestGenerate_ChecklistFailureFallsBackPerPlacement(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.savePlan(t, "user-1")
	resolver := &scriptedResolver{fail: func(name string, _ int) error {
		if name == catalog.UWorld {
			return errors.New("resolver down")
		}
		return nil
	}}

	resp, err := h.generator(resolver, nil).Generate(ctx, generateRequest("user-1"))
	require.NoError(t, err)

	var uworld int
	for _, p := range h.all(t, plan.ID) {
		if p.ActivityName == catalog.UWorld {
			uworld++
			assert.Empty(t, p.Checklist)
			continue
		}
		assert.NotEmpty(t, p.Checklist)
	}
	require.Positive(t, uworld)
	assert.Equal(t, uworld, resp.ChecklistFallbacks)
	assert.Equal(t, uworld*3, resolver.callsFor(catalog.UWorld), "one try plus two retries per placement")

	h.observer.mu.Lock()
	assert.Len(t, h.observer.warnings, uworld)
	h.observer.mu.Unlock()

	ev, ok := h.observer.last("generate")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, uworld, ev.Fields["checklist_fallbacks"])
}

func TestGenerate_TransientChecklistErrorIsRetried(t *testing.T) {
	h := newHarness(t)
	resolver := &scriptedResolver{fail: func(_ string, call int) error {
		if call == 1 {
			return errors.New("blip")
		}
		return nil
	}}
	h.savePlan(t, "user-1")

	resp, err := h.generator(resolver, nil).Generate(context.Background(), generateRequest("user-1"))
	require.NoError(t, err)
	assert.Zero(t, resp.ChecklistFallbacks)
}

func TestGenerate_ChecklistsFollowDateOrderPerActivity(t *testing.T) {
	h := newHarness(t)
	h.savePlan(t, "user-1")

	resp, err := h.generator(&scriptedResolver{}, nil).Generate(context.Background(), generateRequest("user-1"))
	require.NoError(t, err)

	next := map[string]int{}
	for _, p := range resp.Placements {
		next[p.ActivityName]++
		require.Len(t, p.Checklist, 1)
		assert.Equal(t, fmt.Sprintf("%s #%d", p.ActivityName, next[p.ActivityName]), p.Checklist[0].Text)
	}
}

func TestGenerate_CanceledContextPersistsNothing(t *testing.T) {
	h := newHarness(t)
	plan := h.savePlan(t, "user-1")
	ctx, cancel := context.WithCancel(context.Background())
	resolver := &scriptedResolver{fail: func(string, int) error {
		cancel()
		return context.Canceled
	}}

	_, err := h.generator(resolver, nil).Generate(ctx, generateRequest("user-1"))
	assert.Equal(t, app.ErrDependencyFailed, app.CodeOf(err))
	assert.Empty(t, h.all(t, plan.ID))
}

func TestGenerate_ConcurrentRunsForOnePlanSerialize(t *testing.T) {
	h := newHarness(t)
	plan := h.savePlan(t, "user-1")
	svc := h.generator(&scriptedResolver{}, nil)

	const runs = 6
	var wg sync.WaitGroup
	sizes := make([]int, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := generateRequest("user-1")
			req.Seed = int64p(int64(i))
			resp, err := svc.Generate(context.Background(), req)
			if err != nil {
				t.Errorf("run %d: %v", i, err)
				return
			}
			sizes[i] = len(resp.Placements)
		}(i)
	}
	wg.Wait()

	got := len(h.all(t, plan.ID))
	assert.Contains(t, sizes, got, "store holds exactly one run's set")
}

func TestGenerate_EmptyResourcesYieldNoPlacements(t *testing.T) {
	h := newHarness(t)
	plan := h.savePlan(t, "user-1")
	req := generateRequest("user-1")
	req.Resources = &app.ResourcesInput{}

	resp, err := h.generator(&scriptedResolver{}, nil).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Placements)
	assert.Zero(t, resp.DaysScheduled)
	assert.Empty(t, h.all(t, plan.ID))
}

func TestGenerate_FileStoreResolvesEveryChecklist(t *testing.T) {
	h := newHarnessOn(testutil.NewFileTestDB(t))
	ctx := context.Background()
	h.savePlan(t, "user-1")
	h.savePlan(t, "user-2")

	svc := NewGenerateService(h.plans, h.placements,
		checklist.NewResolver(checklist.NewSQLStore(testutil.NewTestUoW(h.db)), nil),
		testutil.NewTestUoW(h.db), GenerateOptions{
			ChecklistConcurrency: 4,
			Now:                  func() time.Time { return testutil.Date(2025, time.January, 1) },
		})

	var wg sync.WaitGroup
	results := make([]*app.GenerateResponse, 2)
	errs := make([]error, 2)
	for i, user := range []string{"user-1", "user-2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.Generate(ctx, generateRequest(user))
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.NotEmpty(t, results[i].Placements)
		assert.Zero(t, results[i].ChecklistFallbacks, "no lookup may fall back on a healthy store")
	}
}
