package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/checklist"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, *repository.SQLitePlacementRepo) {
	t.Helper()
	t.Setenv("CADENCE_USER", "")
	db := testutil.NewTestDB(t)

	plans := repository.NewSQLitePlanRepo(db)
	placements := repository.NewSQLitePlacementRepo(db)
	uow := testutil.NewTestUoW(db)
	resolver := checklist.NewResolver(checklist.NewSQLStore(uow), nil)

	return &App{
		Plans: service.NewPlanService(plans, placements, uow),
		Generator: service.NewGenerateService(plans, placements, resolver, uow, service.GenerateOptions{
			RetryBackoff: time.Millisecond,
			Now:          func() time.Time { return testNow },
		}),
		Checklists: service.NewChecklistService(resolver),
		Importer:   service.NewImportService(uow),
		Now:        func() time.Time { return testNow },
	}, placements
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func initPlan(t *testing.T, a *App, user string) {
	t.Helper()
	_, err := executeCmd(t, a, "plan", "init", "--user", user,
		"--start", "2025-01-06", "--end", "2025-02-09", "--exam-date", "2025-02-10",
		"--hours", "weekdays=5,sat=6,sun=0", "--resources", "uworld,cars,aamc,regularAnki",
		"--balance", "balanced")
	require.NoError(t, err)
}

func TestPlanInit_ThenShow(t *testing.T) {
	a, _ := testApp(t)
	initPlan(t, a, "ana")

	out, err := executeCmd(t, a, "plan", "show", "-u", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "2025-01-06 → 2025-02-09")
	assert.Contains(t, out, "2025-02-10")
	assert.Contains(t, out, "Sat 6")
	assert.Contains(t, out, "regularAnki, cars, uworld, aamc")
}

func TestPlanShow_Missing(t *testing.T) {
	a, _ := testApp(t)
	_, err := executeCmd(t, a, "plan", "show", "--user", "nobody")
	require.Error(t, err)
	assert.Equal(t, app.ErrPlanNotFound, app.CodeOf(err))
}

func TestPlanInit_BadFlags(t *testing.T) {
	a, _ := testApp(t)

	_, err := executeCmd(t, a, "plan", "init", "--hours", "someday=3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown weekday")

	_, err = executeCmd(t, a, "plan", "init", "--resources", "kaplan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resource")

	_, err = executeCmd(t, a, "plan", "init", "--start", "2025-02-01", "--end", "2025-01-01")
	require.Error(t, err)
	assert.Equal(t, app.ErrValidationFailed, app.CodeOf(err))
}

func TestPlanInit_InteractiveNeedsTerminal(t *testing.T) {
	a, _ := testApp(t)
	a.IsInteractive = func() bool { return false }

	_, err := executeCmd(t, a, "plan", "init", "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestExamAddAndList(t *testing.T) {
	a, _ := testApp(t)
	initPlan(t, a, "local")

	out, err := executeCmd(t, a, "exam", "add", "--date", "2025-01-25", "--label", "Full Length 2")
	require.NoError(t, err)
	assert.Contains(t, out, "Full Length 2")

	_, err = executeCmd(t, a, "exam", "add", "--date", "2025-01-18", "--label", "Full Length 1")
	require.NoError(t, err)

	out, err = executeCmd(t, a, "exam", "list")
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(out), []byte("Full Length 1")), bytes.Index([]byte(out), []byte("Full Length 2")))
}

func TestExamAdd_RequiresFlags(t *testing.T) {
	a, _ := testApp(t)
	_, err := executeCmd(t, a, "exam", "add", "--date", "2025-01-25")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
}

func TestGenerate_UsesStoredPlan(t *testing.T) {
	a, placements := testApp(t)
	initPlan(t, a, "local")
	_, err := executeCmd(t, a, "exam", "add", "--date", "2025-01-18", "--label", "FL1")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "generate", "--seed", "11", "--show")
	require.NoError(t, err)
	assert.Contains(t, out, "SCHEDULE GENERATED")
	assert.Contains(t, out, "2025-01-06 → 2025-02-09")
	assert.Contains(t, out, "Mon Jan 6")

	plan, err := a.Plans.GetPlan(context.Background(), "local")
	require.NoError(t, err)
	stored, err := placements.ListByPlan(context.Background(), plan.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	for _, p := range stored {
		if p.IsExam() {
			continue
		}
		assert.NotEqual(t, "2025-01-18", p.Date.Format("2006-01-02"))
		assert.NotEqual(t, time.Sunday, p.Date.Weekday(), "sunday has no hours")
	}
}

func TestGenerate_ClampsStartToToday(t *testing.T) {
	a, _ := testApp(t)
	initPlan(t, a, "local")
	a.Now = func() time.Time { return time.Date(2025, time.January, 20, 15, 0, 0, 0, time.UTC) }

	out, err := executeCmd(t, a, "generate", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-20 → 2025-02-09")
}

func TestGenerate_FlagsOverridePlan(t *testing.T) {
	a, _ := testApp(t)
	initPlan(t, a, "local")

	_, err := executeCmd(t, a, "generate", "--seed", "5",
		"--end", "2025-01-12", "--hours", "all=2", "--resources", "cars", "--balance", "practice-only")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "schedule", "--from", "2025-01-06", "--to", "2025-01-12")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily CARS")
	assert.NotContains(t, out, "UWorld")

	plan, err := a.Plans.GetPlan(context.Background(), "local")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-12", plan.EndDate.Format("2006-01-02"), "overrides are saved back")
}

func TestGenerate_NoPlan(t *testing.T) {
	a, _ := testApp(t)
	_, err := executeCmd(t, a, "generate")
	require.Error(t, err)
	assert.Equal(t, app.ErrPlanNotFound, app.CodeOf(err))
}

func TestSchedule_Week(t *testing.T) {
	a, _ := testApp(t)
	initPlan(t, a, "local")
	_, err := executeCmd(t, a, "generate", "--seed", "1")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "schedule", "--week")
	require.NoError(t, err)
	assert.Contains(t, out, "Mon Jan 6")
	assert.NotContains(t, out, "Mon Jan 13")

	_, err = executeCmd(t, a, "schedule", "--from", "next tuesday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")
}

func TestChecklistNext_JoinsArgs(t *testing.T) {
	a, _ := testApp(t)

	out, err := executeCmd(t, a, "checklist", "next", "Daily", "CARS")
	require.NoError(t, err)
	assert.Contains(t, out, "DAILY CARS")
	assert.Contains(t, out, "[ ]")

	out, err = executeCmd(t, a, "checklist", "next", "Nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No checklist available")
}

func TestChecklistActivities(t *testing.T) {
	a, _ := testApp(t)
	out, err := executeCmd(t, a, "checklist", "activities")
	require.NoError(t, err)
	assert.Contains(t, out, "AAMC CARS Question Pack")
	assert.Contains(t, out, "fixed 2h")
	assert.Contains(t, out, "catalog 2024.1")
}

func TestServe(t *testing.T) {
	a, _ := testApp(t)

	_, err := executeCmd(t, a, "serve")
	require.Error(t, err, "no server wired")

	var gotAddr string
	a.DefaultAddr = ":9999"
	a.Serve = func(ctx context.Context, addr string) error {
		gotAddr = addr
		return errors.New("stopped")
	}
	_, err = executeCmd(t, a, "serve")
	require.EqualError(t, err, "stopped")
	assert.Equal(t, ":9999", gotAddr)

	_, err = executeCmd(t, a, "serve", "--addr", "127.0.0.1:0")
	require.Error(t, err)
	assert.Equal(t, "127.0.0.1:0", gotAddr)
}

func TestPlanImport(t *testing.T) {
	a, _ := testApp(t)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plan:
  start_date: "2025-01-06"
  end_date: "2025-02-28"
  hours: {mon: 4, sat: 6}
  resources: [uworld, cars]
exams:
  - {date: "2025-02-01", label: FL 1}
`), 0o644))

	out, err := executeCmd(t, a, "plan", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan")
	assert.Contains(t, out, "1 exams added, 0 already present")

	out, err = executeCmd(t, a, "plan", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated plan")
	assert.Contains(t, out, "0 exams added, 1 already present")

	out, err = executeCmd(t, a, "exam", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "FL 1")
}
