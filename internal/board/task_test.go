package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/testutil"
)

func TestCreateTask_NamesByTotalCount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	todo := f.column(t, models.ColumnTodo).ID
	doing := f.column(t, models.ColumnDoing).ID

	a, err := f.board.CreateTask(ctx, todo)
	require.NoError(t, err)
	b, err := f.board.CreateTask(ctx, doing)
	require.NoError(t, err)
	c, err := f.board.CreateTask(ctx, todo)
	require.NoError(t, err)

	assert.Equal(t, "New Task 1", a.Content)
	assert.Equal(t, "New Task 2", b.Content)
	assert.Equal(t, "New Task 3", c.Content)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 0, b.Order)
	assert.Equal(t, 1, c.Order)
}

func TestAddTask_Rejects(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.board.AddTask(ctx, f.column(t, models.ColumnTodo).ID, "  ")
	require.ErrorIs(t, err, ErrEmptyContent)
	assert.Equal(t, MsgEmptyContent, f.lastToast(t).Text)

	_, err = f.board.AddTask(ctx, "", "buy milk")
	require.ErrorIs(t, err, ErrNoColumnSelected)
	assert.Equal(t, MsgNoColumn, f.lastToast(t).Text)

	_, err = f.board.AddTask(ctx, "gone", "buy milk")
	require.ErrorIs(t, err, ErrColumnNotFound)

	assert.Equal(t, 0, testutil.CountRecords(t, f.db, testUser, "tasks"))
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.board.AddTask(ctx, f.column(t, models.ColumnTodo).ID, "draft")
	require.NoError(t, err)

	require.NoError(t, f.board.UpdateTask(ctx, task.ID, "final"))
	require.NoError(t, f.board.UpdateTaskDescription(ctx, task.ID, "# Heading\nbody"))

	got := f.persistedTasks(t)[task.ID]
	assert.Equal(t, "final", got.Content)
	assert.Equal(t, "# Heading\nbody", got.Description)

	require.NoError(t, f.board.UpdateTaskDescription(ctx, task.ID, ""))
	assert.Empty(t, f.persistedTasks(t)[task.ID].Description)

	assert.ErrorIs(t, f.board.UpdateTask(ctx, "nope", "x"), ErrTaskNotFound)
}

func TestDeleteTask_RemovesCommentsAndClosesGap(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	todo := f.column(t, models.ColumnTodo).ID

	a, _ := f.board.AddTask(ctx, todo, "A")
	b, _ := f.board.AddTask(ctx, todo, "B")
	c, _ := f.board.AddTask(ctx, todo, "C")
	_, err := f.board.AddComment(ctx, b.ID, "on B")
	require.NoError(t, err)
	_, err = f.board.AddComment(ctx, a.ID, "on A")
	require.NoError(t, err)

	require.NoError(t, f.board.DeleteTask(ctx, b.ID))

	tasks := f.board.Tasks(todo)
	assert.Equal(t, []string{"A", "C"}, contents(tasks))
	assert.Equal(t, 1, f.persistedTasks(t)[c.ID].Order)
	assert.Equal(t, 1, testutil.CountRecords(t, f.db, testUser, "comments"))

	assert.ErrorIs(t, f.board.DeleteTask(ctx, b.ID), ErrTaskNotFound)
}

func TestDeleteAllTasks(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	todo := f.column(t, models.ColumnTodo).ID
	done := f.column(t, models.ColumnDone).ID

	for _, s := range []string{"a", "b", "c"} {
		_, err := f.board.AddTask(ctx, todo, s)
		require.NoError(t, err)
	}
	_, err := f.board.AddTask(ctx, done, "shipped")
	require.NoError(t, err)

	require.NoError(t, f.board.DeleteAllTasks(ctx, todo))
	assert.Empty(t, f.board.Tasks(todo))
	assert.Len(t, f.board.Tasks(done), 1)
	assert.Equal(t, 1, testutil.CountRecords(t, f.db, testUser, "tasks"))
}

func TestComments(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.board.AddTask(ctx, f.column(t, models.ColumnTodo).ID, "x")
	require.NoError(t, err)

	first, err := f.board.AddComment(ctx, task.ID, "first")
	require.NoError(t, err)
	_, err = f.board.AddComment(ctx, task.ID, "second")
	require.NoError(t, err)

	_, err = f.board.AddComment(ctx, task.ID, " ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	_, err = f.board.AddComment(ctx, "ghost", "hi")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	comments := f.board.Comments(task.ID)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)

	require.NoError(t, f.board.DeleteComment(ctx, first.ID))
	assert.Len(t, f.board.Comments(task.ID), 1)
	assert.ErrorIs(t, f.board.DeleteComment(ctx, first.ID), ErrCommentNotFound)
}
