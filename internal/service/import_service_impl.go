package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService builds the plan file importer. It only writes through
// uow, so every import is all-or-nothing.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportPlan(ctx context.Context, userID, path string) (*app.ImportResult, error) {
	file, err := importer.LoadPlanFile(path)
	if err != nil {
		return nil, app.ValidationError(map[string]string{"file": err.Error()})
	}
	return s.ImportPlanFile(ctx, userID, file)
}

// ImportPlanFile saves the plan and adds its exams. An exam already present
// on the same day with the same label is skipped, so re-importing a file is
// a no-op for exams.
func (s *importService) ImportPlanFile(ctx context.Context, userID string, file *importer.PlanFile) (res *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": userID}
	defer func() { observe(ctx, s.observer, "import-plan", startedAt, fields, err) }()

	if errs := importer.ValidatePlanFile(file); len(errs) > 0 {
		return nil, validationFields(errs)
	}
	converted := importer.Convert(file, userID)

	var cfg domain.PlanConfig
	if err = converted.Plan.Apply(&cfg); err != nil {
		return nil, err
	}
	type exam struct {
		date  time.Time
		label string
	}
	exams := make([]exam, 0, len(converted.Exams))
	for _, req := range converted.Exams {
		d, err := req.Parse()
		if err != nil {
			return nil, err
		}
		exams = append(exams, exam{date: d, label: req.Label})
	}

	res = &app.ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		created, err := upsertPlan(ctx, repository.NewSQLitePlanRepo(tx), &cfg)
		if err != nil {
			return fmt.Errorf("saving plan: %w", err)
		}
		res.Plan = &cfg
		res.Created = created

		txPlacements := repository.NewSQLitePlacementRepo(tx)
		existing, err := txPlacements.ListExams(ctx, cfg.ID)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, e := range existing {
			have[e.Date.Format(domain.DateLayout)+"\x00"+e.ActivityName] = true
		}
		for _, e := range exams {
			if have[e.date.Format(domain.DateLayout)+"\x00"+e.label] {
				res.ExamsSkipped++
				continue
			}
			if _, _, err := insertExam(ctx, txPlacements, cfg.ID, e.date, e.label); err != nil {
				return fmt.Errorf("adding exam %q: %w", e.label, err)
			}
			res.ExamsAdded++
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, userID)
	}
	fields["plan_id"] = cfg.ID
	fields["exams_added"] = res.ExamsAdded
	fields["exams_skipped"] = res.ExamsSkipped
	return res, nil
}

func validationFields(errs []error) error {
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		var fe *importer.FieldError
		if errors.As(err, &fe) {
			fields[fe.Field] = fe.Message
			continue
		}
		fields["file"] = err.Error()
	}
	return app.ValidationError(fields)
}
