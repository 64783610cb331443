package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	apierr "github.com/saforex/saforex-go/internal/errors"
	"github.com/saforex/saforex-go/internal/postgrest"
	"github.com/saforex/saforex-go/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// fakeTable implements Table[row] against an in-memory slice.
type fakeTable struct {
	mu        sync.Mutex
	rows      []row
	queries   []postgrest.Query
	selectErr error
	block     chan struct{}
	inserts   []any
	updates   map[string]map[string]any
	deletes   []string
}

func newFakeTable(rows ...row) *fakeTable {
	return &fakeTable{rows: rows, updates: make(map[string]map[string]any)}
}

func (f *fakeTable) Select(ctx context.Context, q postgrest.Query) ([]row, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	err := f.selectErr
	rows := append([]row(nil), f.rows...)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if q.Limit > 0 {
		if q.Offset >= len(rows) {
			return nil, nil
		}
		end := q.Offset + q.Limit
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[q.Offset:end]
	}
	return rows, nil
}

func (f *fakeTable) Insert(ctx context.Context, r any) (row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, r)
	return row{ID: "created", CreatedAt: time.Now()}, nil
}

func (f *fakeTable) Update(ctx context.Context, id string, patch map[string]any) (row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[id] = patch
	return row{ID: id, CreatedAt: time.Now()}, nil
}

func (f *fakeTable) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeTable) selectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeTable) lastQuery() postgrest.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

// fakeLikes implements LikeStore over a map.
type fakeLikes struct {
	mu      sync.Mutex
	liked   map[string]bool
	addErr  error
	adds    int
	removes int
}

func newFakeLikes() *fakeLikes {
	return &fakeLikes{liked: make(map[string]bool)}
}

func (f *fakeLikes) key(entityID, userID string) string {
	return entityID + "/" + userID
}

func (f *fakeLikes) Exists(ctx context.Context, entityID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liked[f.key(entityID, userID)], nil
}

func (f *fakeLikes) Add(ctx context.Context, entityID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds++
	if f.addErr != nil {
		return f.addErr
	}
	f.liked[f.key(entityID, userID)] = true
	return nil
}

func (f *fakeLikes) Remove(ctx context.Context, entityID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	delete(f.liked, f.key(entityID, userID))
	return nil
}

// fakeNotifier captures the subscription handler for direct invocation.
type fakeNotifier struct {
	table    string
	handler  func(realtime.ChangeEvent)
	canceled bool
}

func (f *fakeNotifier) Subscribe(table string, h func(realtime.ChangeEvent)) (func(), error) {
	f.table = table
	f.handler = h
	return func() { f.canceled = true }, nil
}

func testRows(n int) []row {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{
			ID:        fmt.Sprintf("id-%d", i),
			Status:    "published",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return rows
}

func testOptions(tbl Table[row]) Options[row] {
	return Options[row]{
		Table:   tbl,
		Name:    "test_rows",
		Key:     func(r row) string { return r.ID },
		Recency: func(r row) time.Time { return r.CreatedAt },
		TTL:     time.Minute,
	}
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestLoadPublishesList(t *testing.T) {
	tbl := newFakeTable(testRows(3)...)
	e := New(testOptions(tbl))

	require.NoError(t, e.Load(context.Background(), false))
	assert.Equal(t, []string{"id-0", "id-1", "id-2"}, ids(e.Items()))
	assert.Equal(t, 1, tbl.selectCount())
	assert.False(t, e.Loading())
	assert.NoError(t, e.Err())
}

func TestLoadServesFromFreshCache(t *testing.T) {
	tbl := newFakeTable(testRows(3)...)
	e := New(testOptions(tbl))

	require.NoError(t, e.Load(context.Background(), false))
	require.NoError(t, e.Load(context.Background(), false))

	assert.Equal(t, 1, tbl.selectCount(), "fresh cache must satisfy the second load")
	assert.Equal(t, []string{"id-0", "id-1", "id-2"}, ids(e.Items()),
		"cache-served list keeps recency order")
}

func TestForcedLoadBypassesCache(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	e := New(testOptions(tbl))

	require.NoError(t, e.Load(context.Background(), false))
	require.NoError(t, e.Load(context.Background(), true))

	assert.Equal(t, 2, tbl.selectCount())
}

func TestLoadWhileInFlightIsNoOp(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	tbl.block = make(chan struct{})
	e := New(testOptions(tbl))

	done := make(chan error, 1)
	go func() { done <- e.Load(context.Background(), false) }()

	// Wait for the first load to reach the table.
	require.Eventually(t, func() bool { return tbl.selectCount() == 1 },
		time.Second, 5*time.Millisecond)

	require.NoError(t, e.Load(context.Background(), false))
	assert.Equal(t, 1, tbl.selectCount(), "concurrent load must not reach the table")

	close(tbl.block)
	require.NoError(t, <-done)
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	e := New(testOptions(tbl))
	require.NoError(t, e.Load(context.Background(), false))

	tbl.mu.Lock()
	tbl.selectErr = apierr.Network(fmt.Errorf("connection refused"))
	tbl.mu.Unlock()

	err := e.Load(context.Background(), true)
	require.Error(t, err)
	assert.Equal(t, apierr.KindNetwork, apierr.KindOf(err))
	assert.Equal(t, []string{"id-0", "id-1"}, ids(e.Items()),
		"failed load must not clear the published list")
	assert.Error(t, e.Err())
}

func TestPagination(t *testing.T) {
	tbl := newFakeTable(testRows(3)...)
	opts := testOptions(tbl)
	opts.PageSize = 2
	e := New(opts)

	require.NoError(t, e.Load(context.Background(), false))
	assert.Equal(t, []string{"id-0", "id-1"}, ids(e.Items()))
	assert.True(t, e.HasMore(), "full page implies another may exist")

	require.NoError(t, e.LoadMore(context.Background()))
	assert.Equal(t, []string{"id-0", "id-1", "id-2"}, ids(e.Items()))
	assert.False(t, e.HasMore(), "short page ends pagination")

	before := tbl.selectCount()
	require.NoError(t, e.LoadMore(context.Background()))
	assert.Equal(t, before, tbl.selectCount(), "LoadMore past the end is a no-op")
}

func TestForcedLoadResetsPagination(t *testing.T) {
	tbl := newFakeTable(testRows(3)...)
	opts := testOptions(tbl)
	opts.PageSize = 2
	e := New(opts)

	require.NoError(t, e.Load(context.Background(), false))
	require.NoError(t, e.LoadMore(context.Background()))

	require.NoError(t, e.Load(context.Background(), true))
	assert.Equal(t, []string{"id-0", "id-1"}, ids(e.Items()),
		"forced load replaces the list with the first page")
	assert.Equal(t, 0, tbl.lastQuery().Offset)
}

func TestCacheServedLoadReenablesPagination(t *testing.T) {
	tbl := newFakeTable(testRows(4)...)
	opts := testOptions(tbl)
	opts.PageSize = 2
	e := New(opts)

	// Walk pagination to the end.
	require.NoError(t, e.Load(context.Background(), false))
	require.NoError(t, e.LoadMore(context.Background()))
	require.NoError(t, e.LoadMore(context.Background()))
	require.False(t, e.HasMore())

	// A cache-served first page is full, so more may exist remotely.
	remote := tbl.selectCount()
	require.NoError(t, e.Load(context.Background(), false))
	assert.Equal(t, remote, tbl.selectCount(), "full fresh cache serves the page")
	assert.Equal(t, []string{"id-0", "id-1"}, ids(e.Items()))
	assert.True(t, e.HasMore(), "cache-served full page re-arms pagination")

	// And LoadMore continues from the first page, not the old cursor.
	require.NoError(t, e.LoadMore(context.Background()))
	assert.Equal(t, []string{"id-0", "id-1", "id-2", "id-3"}, ids(e.Items()))
}

func TestRefreshReloadsOnInterval(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	opts := testOptions(tbl)
	opts.Refresh = 20 * time.Millisecond
	e := New(opts)

	require.NoError(t, e.Start(context.Background()))
	require.Eventually(t, func() bool { return tbl.selectCount() >= 3 },
		time.Second, 5*time.Millisecond,
		"the interval keeps forcing remote reloads")

	e.Close()
	after := tbl.selectCount()
	time.Sleep(60 * time.Millisecond)
	assert.LessOrEqual(t, tbl.selectCount(), after+1, "the ticker stops with Close")
}

func TestCreateForcesReload(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	e := New(testOptions(tbl))
	require.NoError(t, e.Load(context.Background(), false))

	created, err := e.Create(context.Background(), map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, "created", created.ID)
	assert.Len(t, tbl.inserts, 1)
	assert.Equal(t, 2, tbl.selectCount(), "create must trigger a forced reload")
}

func TestUpdateRefreshesCacheAndReloads(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	e := New(testOptions(tbl))
	require.NoError(t, e.Load(context.Background(), false))

	updated, err := e.Update(context.Background(), "id-0", map[string]any{"title": "new"})
	require.NoError(t, err)
	assert.Equal(t, "id-0", updated.ID)
	assert.Equal(t, map[string]any{"title": "new"}, tbl.updates["id-0"])
	assert.Equal(t, 2, tbl.selectCount(), "update must trigger a forced reload")

	_, ok := e.GetCached("id-0")
	assert.True(t, ok)
}

func TestHardDeleteRemovesRow(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	e := New(testOptions(tbl))
	require.NoError(t, e.Load(context.Background(), false))

	require.NoError(t, e.Delete(context.Background(), "id-0"))
	assert.Equal(t, []string{"id-0"}, tbl.deletes)
	assert.Equal(t, []string{"id-1"}, ids(e.Items()))
	assert.Equal(t, 1, tbl.selectCount(), "hard delete edits the list in place, no reload")

	_, ok := e.GetCached("id-0")
	assert.False(t, ok)
}

func TestSoftDeleteArchivesRow(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	opts := testOptions(tbl)
	opts.SoftDeleteStatus = "archived"
	e := New(opts)
	require.NoError(t, e.Load(context.Background(), false))

	require.NoError(t, e.Delete(context.Background(), "id-0"))

	assert.Empty(t, tbl.deletes, "soft delete never issues a row delete")
	assert.Equal(t, map[string]any{"status": "archived"}, tbl.updates["id-0"])
	assert.Equal(t, 2, tbl.selectCount(), "soft delete reloads through the status filter")
}

func TestToggleLikeAddThenRemove(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	likes := newFakeLikes()
	opts := testOptions(tbl)
	opts.Likes = likes
	e := New(opts)

	require.NoError(t, e.ToggleLike(context.Background(), "id-0", "u1"))
	assert.Equal(t, 1, likes.adds)
	assert.Equal(t, 0, likes.removes)

	require.NoError(t, e.ToggleLike(context.Background(), "id-0", "u1"))
	assert.Equal(t, 1, likes.adds)
	assert.Equal(t, 1, likes.removes)

	assert.Equal(t, 2, tbl.selectCount(), "each toggle reloads the like count")
}

func TestToggleLikeToleratesLostRace(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	likes := newFakeLikes()
	likes.addErr = apierr.Conflict("duplicate key value violates unique constraint")
	opts := testOptions(tbl)
	opts.Likes = likes
	e := New(opts)

	err := e.ToggleLike(context.Background(), "id-0", "u1")
	require.NoError(t, err, "a racing insert is not an error for the caller")
	assert.Equal(t, 1, tbl.selectCount(), "the reload still converges the count")
}

func TestToggleLikeWithoutLikeStore(t *testing.T) {
	e := New(testOptions(newFakeTable()))

	err := e.ToggleLike(context.Background(), "id-0", "u1")
	require.Error(t, err)
	assert.True(t, apierr.IsValidation(err))
}

func TestGetFetchesOnCacheMiss(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	e := New(testOptions(tbl))

	got, err := e.Get(context.Background(), "id-0")
	require.NoError(t, err)
	assert.Equal(t, "id-0", got.ID)
	assert.Equal(t, 1, tbl.selectCount())

	// Second Get is served from the refreshed cache.
	_, err = e.Get(context.Background(), "id-0")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.selectCount())
}

func TestGetNotFound(t *testing.T) {
	tbl := newFakeTable()
	e := New(testOptions(tbl))

	_, err := e.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apierr.IsNotFound(err))
}

func changeEvent(typ realtime.EventType, newRow, oldRow *row) realtime.ChangeEvent {
	ev := realtime.ChangeEvent{Table: "test_rows", Type: typ}
	if newRow != nil {
		raw, _ := json.Marshal(newRow)
		ev.New = raw
	}
	if oldRow != nil {
		raw, _ := json.Marshal(oldRow)
		ev.Old = raw
	}
	return ev
}

func TestStartSubscribesAndCloseUnsubscribes(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	e := New(opts)

	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, "test_rows", notifier.table)
	require.NotNil(t, notifier.handler)

	e.Close()
	assert.True(t, notifier.canceled)
}

func TestReloadStrategy(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	opts.Strategy = StrategyReload
	e := New(opts)
	require.NoError(t, e.Start(context.Background()))
	defer e.Close()

	notifier.handler(changeEvent(realtime.EventInsert, &row{ID: "x"}, nil))
	assert.Equal(t, 2, tbl.selectCount(), "reload strategy refetches per notification")
}

func TestMergeStrategyInsertPrepends(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	opts.Strategy = StrategyMerge
	e := New(opts)
	require.NoError(t, e.Start(context.Background()))
	defer e.Close()

	fresh := row{ID: "id-new", CreatedAt: time.Now()}
	notifier.handler(changeEvent(realtime.EventInsert, &fresh, nil))

	assert.Equal(t, []string{"id-new", "id-0", "id-1"}, ids(e.Items()))
	assert.Equal(t, 1, tbl.selectCount(), "merge must not reload")

	cached, ok := e.GetCached("id-new")
	require.True(t, ok)
	assert.Equal(t, "id-new", cached.ID)
}

func TestMergeStrategyUpdateReplacesInPlace(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	opts.Strategy = StrategyMerge
	e := New(opts)
	require.NoError(t, e.Start(context.Background()))
	defer e.Close()

	changed := row{ID: "id-1", Title: "renamed", CreatedAt: time.Now()}
	notifier.handler(changeEvent(realtime.EventUpdate, &changed, nil))

	items := e.Items()
	assert.Equal(t, []string{"id-0", "id-1"}, ids(items), "update keeps list position")
	assert.Equal(t, "renamed", items[1].Title)
}

func TestMergeStrategyDeleteRemoves(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	opts.Strategy = StrategyMerge
	e := New(opts)
	require.NoError(t, e.Start(context.Background()))
	defer e.Close()

	gone := row{ID: "id-0"}
	notifier.handler(changeEvent(realtime.EventDelete, nil, &gone))

	assert.Equal(t, []string{"id-1"}, ids(e.Items()))
	assert.Equal(t, 1, tbl.selectCount())
}

func TestMergeStrategyDeleteWithoutOldFallsBackToReload(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	opts.Strategy = StrategyMerge
	e := New(opts)
	require.NoError(t, e.Start(context.Background()))
	defer e.Close()

	notifier.handler(changeEvent(realtime.EventDelete, nil, nil))
	assert.Equal(t, 2, tbl.selectCount(), "no key to drop, must refetch")
}

func TestDebounceStrategyCoalescesBursts(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	opts.Strategy = StrategyDebounce
	opts.Debounce = 20 * time.Millisecond
	e := New(opts)
	require.NoError(t, e.Start(context.Background()))
	defer e.Close()

	for i := 0; i < 5; i++ {
		notifier.handler(changeEvent(realtime.EventUpdate, &row{ID: "id-0"}, nil))
	}

	require.Eventually(t, func() bool { return tbl.selectCount() == 2 },
		time.Second, 5*time.Millisecond,
		"a burst collapses into exactly one reload")

	// No further reload after the window closes.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, tbl.selectCount())
}

func TestEventsAfterCloseAreIgnored(t *testing.T) {
	tbl := newFakeTable(testRows(1)...)
	notifier := &fakeNotifier{}
	opts := testOptions(tbl)
	opts.Feed = notifier
	opts.Strategy = StrategyReload
	e := New(opts)
	require.NoError(t, e.Start(context.Background()))

	e.Close()
	notifier.handler(changeEvent(realtime.EventInsert, &row{ID: "x"}, nil))
	assert.Equal(t, 1, tbl.selectCount())
	assert.Equal(t, []string{"id-0"}, ids(e.Items()), "closed engine stops publishing changes")
}

func TestOnPublishReceivesSnapshots(t *testing.T) {
	tbl := newFakeTable(testRows(2)...)
	var mu sync.Mutex
	var published [][]string
	opts := testOptions(tbl)
	opts.OnPublish = func(rows []row) {
		mu.Lock()
		published = append(published, ids(rows))
		mu.Unlock()
	}
	e := New(opts)

	require.NoError(t, e.Load(context.Background(), false))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, published, 1)
	assert.Equal(t, []string{"id-0", "id-1"}, published[0])
}
