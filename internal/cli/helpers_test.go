package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/testutil"
	"github.com/thenoetrevino/listboard/internal/types"
)

func newBoard(t *testing.T) *board.Store {
	t.Helper()
	rt := realtime.NewSQLiteStore(testutil.SetupTestDB(t))
	t.Cleanup(func() { _ = rt.Close() })

	b := board.New(rt, "alice")
	require.NoError(t, b.Bootstrap(context.Background()))
	return b
}

// ============================================================================
// Column Resolution Tests
// ============================================================================

func TestResolveColumn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newBoard(t)

	review, err := b.CreateColumn(ctx, "Review")
	require.NoError(t, err)

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{name: "by id", ref: string(review.ID), want: "Review"},
		{name: "by title", ref: "Doing", want: "Doing"},
		{name: "title ignores case and spaces", ref: "  review ", want: "Review"},
		{name: "missing", ref: "Nope", wantErr: board.ErrColumnNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := ResolveColumn(b, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, col.Title)
		})
	}
}

func TestResolveColumn_TitlesDifferingOnlyInCase(t *testing.T) {
	t.Parallel()
	b := newBoard(t)

	lower, err := b.CreateColumn(context.Background(), "todo")
	require.NoError(t, err)

	_, err = ResolveColumn(b, "TODO")
	assert.ErrorIs(t, err, ErrAmbiguous)

	// A key is never ambiguous
	col, err := ResolveColumn(b, string(lower.ID))
	require.NoError(t, err)
	assert.Equal(t, "todo", col.Title)
}

// ============================================================================
// Task Resolution Tests
// ============================================================================

func TestResolveTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := newBoard(t)

	todo, err := ResolveColumn(b, "Todo")
	require.NoError(t, err)
	first, err := b.AddTask(ctx, todo.ID, "First")
	require.NoError(t, err)
	second, err := b.AddTask(ctx, todo.ID, "Second")
	require.NoError(t, err)

	got, err := ResolveTask(b, string(first.ID))
	require.NoError(t, err)
	assert.Equal(t, "First", got.Content)

	id := string(second.ID)
	got, err = ResolveTask(b, id[:len(id)-2])
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Content)

	_, err = ResolveTask(b, id[:4])
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = ResolveTask(b, "")
	assert.ErrorIs(t, err, board.ErrTaskNotFound)

	_, err = ResolveTask(b, "zzzz")
	assert.ErrorIs(t, err, board.ErrTaskNotFound)
}

func TestColumnTitle(t *testing.T) {
	t.Parallel()
	b := newBoard(t)

	todo, err := ResolveColumn(b, "Todo")
	require.NoError(t, err)
	assert.Equal(t, "Todo", ColumnTitle(b, todo.ID))
	assert.Equal(t, "gone", ColumnTitle(b, types.ColumnID("gone")))
}
