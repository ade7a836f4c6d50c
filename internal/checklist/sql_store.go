package checklist

import (
	"context"
	"sort"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

// SQLStore keeps the queues in SQLite. Every dequeue is a read-and-write in
// one transaction, so it is atomic across processes sharing the file.
type SQLStore struct {
	uow db.UnitOfWork
}

func NewSQLStore(uow db.UnitOfWork) *SQLStore {
	return &SQLStore{uow: uow}
}

func (s *SQLStore) Seeded(ctx context.Context) (bool, error) {
	var seeded bool
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		v, err := repository.NewSQLiteChecklistQueueRepo(tx).SeedVersion(ctx)
		seeded = v != ""
		return err
	})
	return seeded, err
}

// Seed writes every queue and the seed marker together. A store that is
// already seeded is left untouched.
func (s *SQLStore) Seed(ctx context.Context, tpl Template) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteChecklistQueueRepo(tx)
		v, err := repo.SeedVersion(ctx)
		if err != nil {
			return err
		}
		if v != "" {
			return nil
		}
		names := make([]string, 0, len(tpl.Queues))
		for name := range tpl.Queues {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := repo.PutQueue(ctx, name, tpl.Queues[name]); err != nil {
				return err
			}
		}
		version := tpl.Version
		if version == "" {
			version = "unversioned"
		}
		return repo.MarkSeeded(ctx, version)
	})
}

func (s *SQLStore) Next(ctx context.Context, name string) ([]domain.ChecklistItem, error) {
	var head []domain.ChecklistItem
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteChecklistQueueRepo(tx)
		queue, err := repo.GetQueue(ctx, name)
		if err != nil {
			return err
		}
		var rest [][]domain.ChecklistItem
		head, rest = pop(queue)
		if len(rest) == len(queue) {
			return nil
		}
		return repo.PutQueue(ctx, name, rest)
	})
	if err != nil {
		return nil, err
	}
	return head, nil
}

// Pending reports how many checklists remain queued for name.
func (s *SQLStore) Pending(ctx context.Context, name string) (int, error) {
	var n int
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		queue, err := repository.NewSQLiteChecklistQueueRepo(tx).GetQueue(ctx, name)
		n = len(queue)
		return err
	})
	return n, err
}
