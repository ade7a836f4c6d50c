// Package checklist hands out the next pending checklist for an activity.
// Each activity name owns a queue of checklists seeded once from a tabular
// template; lookups read the head and advance the queue.
package checklist

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Template is the seed for every queue, keyed by exact activity name.
type Template struct {
	Version string
	Queues  map[string][][]domain.ChecklistItem
}

// Store is a durable keyed queue of checklists.
//
// Next returns the head of the queue for name. The head is removed only when
// more than one checklist remains, so the last checklist is returned on every
// later call. An unknown name or an empty queue yields an empty list.
type Store interface {
	Seeded(ctx context.Context) (bool, error)
	Seed(ctx context.Context, tpl Template) error
	Next(ctx context.Context, name string) ([]domain.ChecklistItem, error)
}

// Source loads the template used for first-time seeding.
type Source func() (Template, error)

// Resolver serializes dequeues per activity name and seeds the store lazily
// on the first lookup.
type Resolver struct {
	store  Store
	source Source

	seedMu sync.Mutex
	seeded atomic.Bool
	keys   sync.Map // activity name -> *sync.Mutex
}

// NewResolver wraps store. A nil source seeds from the embedded template.
func NewResolver(store Store, source Source) *Resolver {
	if source == nil {
		source = EmbeddedSource
	}
	return &Resolver{store: store, source: source}
}

// Next returns the next pending checklist for name, never nil.
func (r *Resolver) Next(ctx context.Context, name string) ([]domain.ChecklistItem, error) {
	if err := r.EnsureSeeded(ctx); err != nil {
		return nil, err
	}
	if name == "" {
		return []domain.ChecklistItem{}, nil
	}

	mu := r.keyLock(name)
	mu.Lock()
	defer mu.Unlock()

	items, err := r.store.Next(ctx, name)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ChecklistItem{}
	}
	return items, nil
}

// EnsureSeeded seeds the store from the source if nothing was seeded before.
func (r *Resolver) EnsureSeeded(ctx context.Context) error {
	if r.seeded.Load() {
		return nil
	}
	r.seedMu.Lock()
	defer r.seedMu.Unlock()
	if r.seeded.Load() {
		return nil
	}

	ok, err := r.store.Seeded(ctx)
	if err != nil {
		return err
	}
	if !ok {
		tpl, err := r.source()
		if err != nil {
			return err
		}
		if err := r.store.Seed(ctx, tpl); err != nil {
			return err
		}
	}
	r.seeded.Store(true)
	return nil
}

func (r *Resolver) keyLock(name string) *sync.Mutex {
	mu, _ := r.keys.LoadOrStore(name, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// pop applies the dequeue rule to an in-memory queue and returns the head
// and the queue left behind.
func pop(queue [][]domain.ChecklistItem) ([]domain.ChecklistItem, [][]domain.ChecklistItem) {
	if len(queue) == 0 {
		return []domain.ChecklistItem{}, queue
	}
	head := append([]domain.ChecklistItem{}, queue[0]...)
	if len(queue) > 1 {
		return head, queue[1:]
	}
	return head, queue
}
