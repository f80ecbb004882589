package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/listboard/internal/reorder"
)

// Cursor marks the focused cell. Row -1 is the column header.
type Cursor struct {
	Column int
	Row    int
}

// RenderOptions controls highlighting in RenderBoard
type RenderOptions struct {
	Cursor   *Cursor
	Dragging *reorder.Item
}

// RenderBoard lays the columns out side by side with their task cards
func RenderBoard(st Styles, b reorder.Board, opts RenderOptions) string {
	cols := b.SortedColumns()
	if len(cols) == 0 {
		return st.Empty.Render("No columns yet.")
	}

	rendered := make([]string, 0, len(cols))
	for i, col := range cols {
		tasks := b.TasksIn(col.ID)
		focused := opts.Cursor != nil && opts.Cursor.Column == i

		title := st.ColumnTitle.Render(fmt.Sprintf("%s (%d)", col.Title, len(tasks)))
		if focused && opts.Cursor.Row < 0 {
			title = "▸ " + title
		}
		if opts.Dragging != nil && opts.Dragging.Kind == reorder.KindColumn && opts.Dragging.ID == string(col.ID) {
			title = "⇄ " + title
		}

		parts := []string{title, ""}
		if len(tasks) == 0 {
			parts = append(parts, st.Empty.Render("No tasks"))
		}
		for j, task := range tasks {
			card := st.Card
			switch {
			case opts.Dragging != nil && opts.Dragging.Kind == reorder.KindTask && opts.Dragging.ID == string(task.ID):
				card = st.DraggedCard
			case focused && opts.Cursor.Row == j:
				card = st.SelectedCard
			}
			parts = append(parts, card.Render(task.Content))
		}

		colStyle := st.Column
		if focused {
			colStyle = st.SelectedColumn
		}
		rendered = append(rendered, colStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
