package checklist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSource(queues map[string][][]domain.ChecklistItem) Source {
	return func() (Template, error) {
		return Template{Version: "test", Queues: queues}, nil
	}
}

func items(texts ...string) []domain.ChecklistItem {
	out := make([]domain.ChecklistItem, len(texts))
	for i, t := range texts {
		out[i] = domain.ChecklistItem{Text: t}
	}
	return out
}

func newSQLResolver(t *testing.T, src Source) (*Resolver, *SQLStore) {
	t.Helper()
	store := NewSQLStore(testutil.NewTestUoW(testutil.NewTestDB(t)))
	return NewResolver(store, src), store
}

func TestResolver_AdvancesUntilLastThenRepeats(t *testing.T) {
	r, store := newSQLResolver(t, fixedSource(map[string][][]domain.ChecklistItem{
		"UWorld": {items("Block 1"), items("Block 2"), items("Block 3")},
	}))
	ctx := context.Background()

	var got [][]string
	for i := 0; i < 5; i++ {
		cl, err := r.Next(ctx, "UWorld")
		require.NoError(t, err)
		got = append(got, texts(cl))
	}
	assert.Equal(t, [][]string{{"Block 1"}, {"Block 2"}, {"Block 3"}, {"Block 3"}, {"Block 3"}}, got)

	n, err := store.Pending(ctx, "UWorld")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolver_UnknownNameIsEmptyNotError(t *testing.T) {
	r, _ := newSQLResolver(t, fixedSource(map[string][][]domain.ChecklistItem{
		"UWorld": {items("Block 1")},
	}))

	cl, err := r.Next(context.Background(), "uworld")
	require.NoError(t, err)
	assert.NotNil(t, cl)
	assert.Empty(t, cl)

	cl, err = r.Next(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, cl)
}

func TestResolver_SeedsOnce(t *testing.T) {
	calls := 0
	src := func() (Template, error) {
		calls++
		return Template{Queues: map[string][][]domain.ChecklistItem{"UWorld": {items("a"), items("b")}}}, nil
	}
	database := testutil.NewTestDB(t)
	store := NewSQLStore(testutil.NewTestUoW(database))
	ctx := context.Background()

	first := NewResolver(store, src)
	_, err := first.Next(ctx, "UWorld")
	require.NoError(t, err)
	_, err = first.Next(ctx, "UWorld")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// A fresh resolver over the same store must not reseed and reset the queue.
	second := NewResolver(store, src)
	cl, err := second.Next(ctx, "UWorld")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, texts(cl))
	assert.Equal(t, 1, calls)
}

func TestResolver_SourceErrorSurfaces(t *testing.T) {
	boom := errors.New("boom")
	r, _ := newSQLResolver(t, func() (Template, error) { return Template{}, boom })

	_, err := r.Next(context.Background(), "UWorld")
	assert.ErrorIs(t, err, boom)
}

func TestResolver_ConcurrentLookupsGetDistinctChecklists(t *testing.T) {
	const n = 20
	queue := make([][]domain.ChecklistItem, 0, n+1)
	for i := 0; i <= n; i++ {
		queue = append(queue, items(fmt.Sprintf("cl-%d", i)))
	}
	r, _ := newSQLResolver(t, fixedSource(map[string][][]domain.ChecklistItem{"UWorld": queue}))
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[string]int{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cl, err := r.Next(ctx, "UWorld")
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			mu.Lock()
			seen[cl[0].Text]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "every lookup received a different checklist")
	for text, count := range seen {
		assert.Equalf(t, 1, count, "%s handed out twice", text)
	}
}

func TestResolver_ReturnedChecklistIsACopy(t *testing.T) {
	r, _ := newSQLResolver(t, fixedSource(map[string][][]domain.ChecklistItem{
		"UWorld": {items("only")},
	}))
	ctx := context.Background()

	cl, err := r.Next(ctx, "UWorld")
	require.NoError(t, err)
	cl[0].Completed = true

	again, err := r.Next(ctx, "UWorld")
	require.NoError(t, err)
	assert.False(t, again[0].Completed)
}

func TestPop(t *testing.T) {
	head, rest := pop(nil)
	assert.Empty(t, head)
	assert.Empty(t, rest)

	q := [][]domain.ChecklistItem{items("a"), items("b")}
	head, rest = pop(q)
	assert.Equal(t, []string{"a"}, texts(head))
	assert.Len(t, rest, 1)

	head, rest = pop(rest)
	assert.Equal(t, []string{"b"}, texts(head))
	assert.Len(t, rest, 1)
}

func TestResolver_ConcurrentDistinctNamesOnFileStore(t *testing.T) {
	const names, depth = 6, 60
	queues := map[string][][]domain.ChecklistItem{}
	for n := 0; n < names; n++ {
		name := fmt.Sprintf("activity-%d", n)
		for i := 0; i < depth; i++ {
			queues[name] = append(queues[name], items(fmt.Sprintf("%s step %d", name, i)))
		}
	}
	store := NewSQLStore(testutil.NewTestUoW(testutil.NewFileTestDB(t)))
	r := NewResolver(store, fixedSource(queues))
	ctx := context.Background()

	var wg sync.WaitGroup
	got := make([][]string, names)
	errs := make([]error, names)
	for n := 0; n < names; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("activity-%d", n)
			for i := 0; i < depth; i++ {
				cl, err := r.Next(ctx, name)
				if err != nil {
					errs[n] = err
					return
				}
				got[n] = append(got[n], texts(cl)...)
			}
		}()
	}
	wg.Wait()

	for n := 0; n < names; n++ {
		require.NoError(t, errs[n], "activity-%d", n)
		require.Len(t, got[n], depth)
		for i, text := range got[n] {
			assert.Equal(t, fmt.Sprintf("activity-%d step %d", n, i), text)
		}
	}
}
