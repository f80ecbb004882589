package reorder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

func col(id string, order int) models.Column {
	return models.Column{ID: types.ColumnID(id), Title: id, Order: order}
}

func task(id, columnID string, order int) models.Task {
	return models.Task{ID: types.TaskID(id), ColumnID: types.ColumnID(columnID), Content: id, Order: order}
}

func defaultBoard() Board {
	return Board{Columns: []models.Column{col("todo", 0), col("doing", 1), col("done", 2)}}
}

// layout flattens a board to column -> ordered task ids for readable diffs
func layout(b Board) map[string][]string {
	out := make(map[string][]string)
	for _, c := range b.SortedColumns() {
		ids := []string{}
		for _, t := range b.TasksIn(c.ID) {
			ids = append(ids, string(t.ID))
		}
		out[string(c.ID)] = ids
	}
	return out
}

// assertContiguous checks every column ranks its tasks 0..n-1
func assertContiguous(t *testing.T, b Board) {
	t.Helper()
	for i, c := range b.SortedColumns() {
		assert.Equal(t, i, c.Order, "column %s", c.ID)
		for j, tk := range b.TasksIn(c.ID) {
			assert.Equal(t, j, tk.Order, "task %s in %s", tk.ID, c.ID)
		}
	}
}

func TestMoveColumn_ToFront(t *testing.T) {
	t.Parallel()
	b := defaultBoard()

	change, err := MoveColumn(b, "doing", "todo")
	require.NoError(t, err)

	want := map[types.ColumnID]int{"doing": 0, "todo": 1}
	if diff := cmp.Diff(want, change.ColumnOrders); diff != "" {
		t.Errorf("column orders mismatch (-want +got):\n%s", diff)
	}

	after := b.Apply(change)
	var titles []string
	for _, c := range after.SortedColumns() {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"doing", "todo", "done"}, titles)
	assertContiguous(t, after)
}

func TestMoveColumn_SameColumnIsNoop(t *testing.T) {
	t.Parallel()

	change, err := MoveColumn(defaultBoard(), "done", "done")
	require.NoError(t, err)
	assert.True(t, change.Empty())
}

func TestMoveColumn_Unknown(t *testing.T) {
	t.Parallel()

	_, err := MoveColumn(defaultBoard(), "nope", "todo")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestMoveTask_IntoEmptyColumnArea(t *testing.T) {
	t.Parallel()
	b := defaultBoard()
	b.Tasks = []models.Task{task("A", "todo", 0), task("B", "todo", 1)}

	change, err := MoveTask(b, "A", ColumnItem("doing"))
	require.NoError(t, err)

	want := Change{
		TaskOrders:   map[types.TaskID]int{"A": 0, "B": 0},
		TaskColumns:  map[types.TaskID]types.ColumnID{"A": "doing"},
		ColumnOrders: map[types.ColumnID]int{},
	}
	if diff := cmp.Diff(want, change); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}

	after := b.Apply(change)
	want2 := map[string][]string{"todo": {"B"}, "doing": {"A"}, "done": {}}
	if diff := cmp.Diff(want2, layout(after)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	assertContiguous(t, after)
}

func TestMoveTask_AcrossColumnsShiftsDestination(t *testing.T) {
	t.Parallel()
	b := defaultBoard()
	b.Tasks = []models.Task{
		task("A", "todo", 0), task("T", "todo", 1), task("B", "todo", 2),
		task("U", "doing", 0), task("V", "doing", 1), task("W", "doing", 2),
	}

	// T hovers over V at index 1
	change, err := MoveTask(b, "T", TaskItem("V"))
	require.NoError(t, err)

	after := b.Apply(change)
	want := map[string][]string{
		"todo":  {"A", "B"},
		"doing": {"U", "T", "V", "W"},
		"done":  {},
	}
	if diff := cmp.Diff(want, layout(after)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	assertContiguous(t, after)

	// Only values that moved are written
	_, touchedA := change.TaskOrders["A"]
	_, touchedU := change.TaskOrders["U"]
	assert.False(t, touchedA)
	assert.False(t, touchedU)
	assert.Len(t, change.TaskColumns, 1)
}

func TestMoveTask_WithinColumn(t *testing.T) {
	t.Parallel()
	b := defaultBoard()
	b.Tasks = []models.Task{task("A", "todo", 0), task("B", "todo", 1), task("C", "todo", 2)}

	tests := []struct {
		name   string
		moving types.TaskID
		target Item
		want   []string
	}{
		{"down onto last", "A", TaskItem("C"), []string{"B", "C", "A"}},
		{"up onto first", "C", TaskItem("A"), []string{"C", "A", "B"}},
		{"onto neighbour", "A", TaskItem("B"), []string{"B", "A", "C"}},
		{"own column area moves to end", "A", ColumnItem("todo"), []string{"B", "C", "A"}},
		{"onto itself", "B", TaskItem("B"), []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := MoveTask(b, tt.moving, tt.target)
			require.NoError(t, err)
			assert.Empty(t, change.TaskColumns)

			after := b.Apply(change)
			assert.Equal(t, tt.want, layout(after)["todo"])
			assertContiguous(t, after)
		})
	}
}

func TestMoveTask_HealsGappedRanks(t *testing.T) {
	t.Parallel()
	b := defaultBoard()
	b.Tasks = []models.Task{task("A", "todo", 0), task("B", "todo", 3), task("C", "todo", 7)}

	change, err := MoveTask(b, "C", TaskItem("B"))
	require.NoError(t, err)

	after := b.Apply(change)
	assert.Equal(t, []string{"A", "C", "B"}, layout(after)["todo"])
	assertContiguous(t, after)
}

func TestMoveTask_Errors(t *testing.T) {
	t.Parallel()
	b := defaultBoard()
	b.Tasks = []models.Task{task("A", "todo", 0)}

	_, err := MoveTask(b, "missing", ColumnItem("todo"))
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = MoveTask(b, "A", TaskItem("missing"))
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = MoveTask(b, "A", ColumnItem("missing"))
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestChangeUpdates(t *testing.T) {
	t.Parallel()

	change := Change{
		TaskOrders:   map[types.TaskID]int{"t1": 2},
		TaskColumns:  map[types.TaskID]types.ColumnID{"t1": "c2"},
		ColumnOrders: map[types.ColumnID]int{"c2": 0},
	}

	want := realtime.Updates{
		realtime.FieldPath("u1", realtime.Tasks, "t1", "order"):    2,
		realtime.FieldPath("u1", realtime.Tasks, "t1", "columnId"): "c2",
		realtime.FieldPath("u1", realtime.Columns, "c2", "order"):  0,
	}
	if diff := cmp.Diff(want, change.Updates("u1")); diff != "" {
		t.Errorf("updates mismatch (-want +got):\n%s", diff)
	}
}
