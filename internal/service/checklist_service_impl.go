package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

type checklistService struct {
	resolver ChecklistResolver
	observer UseCaseObserver
}

func NewChecklistService(resolver ChecklistResolver, observers ...UseCaseObserver) ChecklistService {
	return &checklistService{resolver: resolver, observer: useCaseObserverOrNoop(observers)}
}

// NextChecklist matches activityName exactly and advances its queue.
func (s *checklistService) NextChecklist(ctx context.Context, activityName string) (items []domain.ChecklistItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"activity": activityName}
	defer func() { observe(ctx, s.observer, "next-checklist", startedAt, fields, err) }()

	items, err = s.resolver.Next(ctx, activityName)
	if err != nil {
		return nil, app.DependencyError(err, "checklist store unavailable")
	}
	fields["items"] = len(items)
	return items, nil
}
