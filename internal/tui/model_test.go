package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/config"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/testutil"
)

func newModel(t *testing.T, tasks map[string][]string) (Model, *board.Store, *notify.RecordingSink) {
	t.Helper()
	ctx := context.Background()

	rt := realtime.NewSQLiteStore(testutil.SetupTestDB(t))
	t.Cleanup(func() { _ = rt.Close() })

	toasts := &notify.RecordingSink{}
	manager := notify.NewManager(time.Minute)
	manager.Init(toasts)

	store := board.New(rt, "alice", board.WithNotifier(manager))
	require.NoError(t, store.Bootstrap(ctx))
	for _, col := range store.Columns() {
		for _, content := range tasks[col.Title] {
			_, err := store.AddTask(ctx, col.ID, content)
			require.NoError(t, err)
		}
	}

	m := New(ctx, store, manager, config.DefaultKeyMappings(), config.DefaultTheme())
	t.Cleanup(m.Close)
	return m, store, toasts
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func layout(store *board.Store) map[string][]string {
	out := make(map[string][]string)
	for _, col := range store.Columns() {
		var contents []string
		for _, task := range store.Tasks(col.ID) {
			contents = append(contents, task.Content)
		}
		out[col.Title] = contents
	}
	return out
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNavigation(t *testing.T) {
	t.Parallel()
	m, _, _ := newModel(t, map[string][]string{"Todo": {"A", "B"}})

	assert.Equal(t, Cursor{Column: 0, Row: 0}, m.Cursor())
	m = press(t, m, runes("j"), runes("j"))
	assert.Equal(t, Cursor{Column: 0, Row: 1}, m.Cursor(), "cursor stops at the last task")

	m = press(t, m, runes("l"))
	assert.Equal(t, Cursor{Column: 1, Row: -1}, m.Cursor(), "empty column focuses its header")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, runes("k"), runes("k"), runes("k"))
	assert.Equal(t, Cursor{Column: 0, Row: -1}, m.Cursor())
}

func TestCarryTaskAcrossColumns(t *testing.T) {
	t.Parallel()
	m, store, _ := newModel(t, map[string][]string{
		"Todo":  {"A", "B"},
		"Doing": {"C"},
	})

	m = press(t, m, space)
	active, ok := store.Dragging()
	require.True(t, ok)
	assert.Equal(t, "task", string(active.Kind))

	// Hovering C inserts A above it
	m = press(t, m, runes("l"))
	want := map[string][]string{"Todo": {"B"}, "Doing": {"A", "C"}, "Done": nil}
	if diff := cmp.Diff(want, layout(store)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Cursor{Column: 1, Row: 0}, m.Cursor(), "cursor follows the carried task")

	// Hovering C again carries A below it
	m = press(t, m, runes("j"))
	want = map[string][]string{"Todo": {"B"}, "Doing": {"C", "A"}, "Done": nil}
	if diff := cmp.Diff(want, layout(store)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	// Past the last task hovers the column itself
	m = press(t, m, runes("j"))
	if diff := cmp.Diff(want, layout(store)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	m = press(t, m, enter)
	_, ok = store.Dragging()
	assert.False(t, ok)
	assert.Equal(t, Cursor{Column: 1, Row: 1}, m.Cursor())
}

func TestCarryColumn(t *testing.T) {
	t.Parallel()
	m, store, _ := newModel(t, nil)

	m = press(t, m, runes("l"), runes("l"), space, runes("h"), runes("h"))
	// Column hovers only record the target
	assert.Equal(t, "Done", store.Columns()[2].Title)

	m = press(t, m, enter)
	var titles []string
	for _, c := range store.Columns() {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"Done", "Todo", "Doing"}, titles)
	assert.Equal(t, Cursor{Column: 0, Row: -1}, m.Cursor())
}

func TestCancelKeepsHoverWrites(t *testing.T) {
	t.Parallel()
	m, store, _ := newModel(t, map[string][]string{"Todo": {"A", "B"}})

	m = press(t, m, space, runes("j"), esc)
	_, ok := store.Dragging()
	assert.False(t, ok)
	assert.Equal(t, []string{"B", "A"}, layout(store)["Todo"])

	// Quit is ignored while carrying, so q cannot drop a task by accident
	m = press(t, m, space)
	_, cmd := m.Update(runes("q"))
	assert.Nil(t, cmd)
}

func TestAddAndDeleteTask(t *testing.T) {
	t.Parallel()
	m, store, toasts := newModel(t, nil)

	m = press(t, m, runes("n"), runes("Ship"), space, runes("it"), enter)
	assert.Equal(t, []string{"Ship it"}, layout(store)["Todo"])
	assert.Equal(t, Cursor{Column: 0, Row: 0}, m.Cursor())

	// Empty input creates a placeholder task
	m = press(t, m, runes("n"), enter)
	assert.Equal(t, []string{"Ship it", "New Task 2"}, layout(store)["Todo"])

	m = press(t, m, runes("d"))
	assert.Equal(t, []string{"Ship it"}, layout(store)["Todo"])

	// Default columns refuse deletion with a warning
	m = press(t, m, runes("k"), runes("k"), runes("d"))
	last, ok := toasts.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Warning, last.Severity)
	assert.Equal(t, board.MsgDefaultColumn, last.Text)
	assert.Len(t, store.Columns(), 3)
}

func TestAddTask_EditsMidLine(t *testing.T) {
	t.Parallel()
	m, store, _ := newModel(t, nil)

	// Ctrl+W removes the word left of the cursor, not the end of the line
	m = press(t, m, runes("n"), runes("a"), runes("b"),
		tea.KeyMsg{Type: tea.KeyLeft}, runes("X"),
		tea.KeyMsg{Type: tea.KeyCtrlW}, runes("Y"))
	assert.Equal(t, "Yb", m.input.Value())
	assert.Contains(t, m.View(), "New task: ")

	m = press(t, m, enter)
	assert.Equal(t, []string{"Yb"}, layout(store)["Todo"])
	assert.False(t, m.adding)
	assert.Empty(t, m.input.Value())

	// Escape discards the draft
	m = press(t, m, runes("n"), runes("draft"), tea.KeyMsg{Type: tea.KeyBackspace}, esc)
	assert.Equal(t, []string{"Yb"}, layout(store)["Todo"])
	assert.False(t, m.adding)
}

func TestViewShowsBoardAndToast(t *testing.T) {
	t.Parallel()
	m, _, _ := newModel(t, map[string][]string{"Todo": {"Write docs"}})

	view := m.View()
	assert.Contains(t, view, "Todo (1)")
	assert.Contains(t, view, "Write docs")
	assert.Contains(t, view, "space grab")

	m.notifier.Show(notify.Warning, "heads up")
	assert.Contains(t, m.View(), "heads up")

	m = press(t, m, space)
	assert.True(t, strings.Contains(m.View(), "carry"))
}
