package service

import (
	"context"
	"errors"
	"sync"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/repository"
)

// storeError maps a Plan Store failure onto the use-case error codes.
func storeError(err error, userID string) error {
	if err == nil {
		return nil
	}
	var ge *app.GenerateError
	if errors.As(err, &ge) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return app.NotFoundError("no plan for user %q", userID)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return app.DependencyError(err, "request canceled")
	}
	return app.DependencyError(err, "plan store unavailable")
}

// keyedMutex serializes work per key. Entries are dropped once no caller
// holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock blocks until key is free and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
