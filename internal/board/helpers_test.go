package board

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/testutil"
	"github.com/thenoetrevino/listboard/internal/types"
)

const testUser types.UserID = "alice"

// flakyStore wraps a real store so tests can fail or hold writes
type flakyStore struct {
	realtime.Store

	mu   sync.Mutex
	fail error
	gate chan struct{}
}

func (f *flakyStore) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *flakyStore) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

func (f *flakyStore) Update(ctx context.Context, u realtime.Updates) error {
	f.mu.Lock()
	gate, fail := f.gate, f.fail
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail != nil {
		return fail
	}
	return f.Store.Update(ctx, u)
}

type fixture struct {
	db      *sql.DB
	rt      *realtime.SQLiteStore
	flaky   *flakyStore
	board   *Store
	toasts  *notify.RecordingSink
	manager *notify.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	rt := realtime.NewSQLiteStore(db)
	t.Cleanup(func() { _ = rt.Close() })

	toasts := &notify.RecordingSink{}
	manager := notify.NewManager(time.Minute)
	manager.Init(toasts)

	flaky := &flakyStore{Store: rt}
	b := New(flaky, testUser, WithNotifier(manager))
	require.NoError(t, b.Bootstrap(context.Background()))

	return &fixture{db: db, rt: rt, flaky: flaky, board: b, toasts: toasts, manager: manager}
}

func (f *fixture) column(t *testing.T, title string) models.Column {
	t.Helper()
	for _, c := range f.board.Columns() {
		if c.Title == title {
			return c
		}
	}
	t.Fatalf("column %q not found", title)
	return models.Column{}
}

func (f *fixture) lastToast(t *testing.T) notify.Message {
	t.Helper()
	msg, ok := f.toasts.Last()
	require.True(t, ok, "expected a notification")
	return msg
}

// persistedTasks reads tasks straight from the store
func (f *fixture) persistedTasks(t *testing.T) map[types.TaskID]models.Task {
	t.Helper()
	snap, err := f.rt.Get(context.Background(), realtime.CollectionPath(testUser, realtime.Tasks))
	require.NoError(t, err)
	tasks, err := realtime.DecodeAll[models.Task](snap)
	require.NoError(t, err)

	out := make(map[types.TaskID]models.Task, len(tasks))
	for _, tk := range tasks {
		out[tk.ID] = tk
	}
	return out
}

func contents(tasks []models.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.Content)
	}
	return out
}
