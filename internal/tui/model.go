// Package tui is the interactive terminal board. Tasks and columns are
// picked up, carried and dropped with the keyboard, driving the same drag
// gestures as every other surface.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/config"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/reorder"
)

type (
	boardChangedMsg struct{}
	toastMsg        notify.Message
	refreshMsg      struct{}
)

// Model is the bubbletea model for one board
type Model struct {
	ctx       context.Context
	store     *board.Store
	notifier  *notify.Manager
	keys      config.KeyMappings
	theme     config.Theme
	styles    Styles
	autoClose time.Duration
	logger    *slog.Logger

	cursor Cursor
	adding bool
	input  textinput.Model
	width  int

	changes chan struct{}
	toasts  chan notify.Message
	stop    []func()
}

// Option configures a Model
type Option func(*Model)

// WithAutoClose sets how long toasts stay visible
func WithAutoClose(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.autoClose = d
		}
	}
}

// WithLogger sets the model logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a model over a loaded board. Call Close when done.
func New(ctx context.Context, store *board.Store, notifier *notify.Manager, keys config.KeyMappings, theme config.Theme, opts ...Option) Model {
	input := textinput.New()
	input.Prompt = "New task: "

	m := Model{
		ctx:       ctx,
		store:     store,
		notifier:  notifier,
		keys:      keys,
		theme:     theme,
		styles:    NewStyles(theme),
		autoClose: notify.DefaultAutoClose,
		logger:    slog.Default(),
		input:     input,
		changes:   make(chan struct{}, 1),
		toasts:    make(chan notify.Message, 8),
	}
	for _, opt := range opts {
		opt(&m)
	}

	changes, toasts := m.changes, m.toasts
	m.stop = append(m.stop, store.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}))
	m.stop = append(m.stop, notifier.AddSink(notify.FuncSink(func(msg notify.Message) {
		select {
		case toasts <- msg:
		default:
		}
	})))
	m.clampCursor()
	return m
}

// Close detaches the model from the board and notifier
func (m Model) Close() {
	for _, fn := range m.stop {
		fn()
	}
}

// Run shows the board until the user quits or ctx ends
func Run(ctx context.Context, m Model) error {
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return boardChangedMsg{}
	}
}

func waitForToast(ch <-chan notify.Message) tea.Cmd {
	return func() tea.Msg {
		return toastMsg(<-ch)
	}
}

// Init starts listening for board changes and toasts
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changes), waitForToast(m.toasts))
}

// Update handles keys and background messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case boardChangedMsg:
		m.clampCursor()
		return m, waitForChange(m.changes)
	case toastMsg:
		// Re-render once the toast has expired
		expire := tea.Tick(m.autoClose+50*time.Millisecond, func(time.Time) tea.Msg { return refreshMsg{} })
		return m, tea.Batch(waitForToast(m.toasts), expire)
	case refreshMsg:
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	km := m.keys
	_, dragging := m.store.Dragging()

	switch key {
	case km.Quit, "ctrl+c":
		if key == km.Quit && dragging {
			return m, nil
		}
		m.store.CancelDrag()
		return m, tea.Quit
	case km.PrevColumn, "left":
		m.step(-1, 0)
	case km.NextColumn, "right":
		m.step(1, 0)
	case km.PrevTask, "up":
		m.step(0, -1)
	case km.NextTask, "down":
		m.step(0, 1)
	case km.Grab:
		m.grab()
	case km.Drop:
		m.drop()
	case km.Cancel:
		m.store.CancelDrag()
	case km.AddTask:
		if !dragging && len(m.store.Columns()) > 0 {
			m.adding = true
			m.input.Reset()
			return m, m.input.Focus()
		}
	case km.DeleteTask:
		if !dragging {
			m.delete()
		}
	}
	return m, nil
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endInput()
		return m, nil
	case tea.KeyEnter:
		content := m.input.Value()
		m.endInput()
		m.addTask(content)
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.adding = false
	m.input.Blur()
	m.input.Reset()
}

// ============================================================================
// ACTIONS
// ============================================================================

func (m *Model) addTask(content string) {
	cols := m.store.Columns()
	if m.cursor.Column >= len(cols) {
		return
	}
	columnID := cols[m.cursor.Column].ID

	var err error
	if strings.TrimSpace(content) == "" {
		_, err = m.store.CreateTask(m.ctx, columnID)
	} else {
		_, err = m.store.AddTask(m.ctx, columnID, content)
	}
	m.report(err)
	if err == nil {
		m.cursor.Row = len(m.store.Tasks(columnID)) - 1
	}
}

func (m *Model) delete() {
	cols := m.store.Columns()
	if m.cursor.Column >= len(cols) {
		return
	}
	col := cols[m.cursor.Column]

	if m.cursor.Row < 0 {
		m.report(m.store.DeleteColumn(m.ctx, col.ID))
	} else if tasks := m.store.Tasks(col.ID); m.cursor.Row < len(tasks) {
		m.report(m.store.DeleteTask(m.ctx, tasks[m.cursor.Row].ID))
	}
	m.clampCursor()
}

// grab picks up the focused task, or the column when on its header
func (m *Model) grab() {
	if _, dragging := m.store.Dragging(); dragging {
		return
	}
	item, ok := m.focused()
	if !ok {
		return
	}
	m.report(m.store.BeginDrag(item))
}

func (m *Model) drop() {
	active, dragging := m.store.Dragging()
	if !dragging {
		return
	}

	var target *reorder.Item
	if active.Kind == reorder.KindColumn {
		if item, ok := m.columnAt(m.cursor.Column); ok {
			target = &item
		}
	}
	m.report(m.store.EndDrag(m.ctx, target))
	m.follow(active)
}

// step moves the cursor. While carrying an item the item travels with it.
func (m *Model) step(dc, dr int) {
	active, dragging := m.store.Dragging()
	if !dragging {
		m.cursor.Column += dc
		m.cursor.Row += dr
		m.clampCursor()
		return
	}

	switch active.Kind {
	case reorder.KindColumn:
		if dr != 0 {
			return
		}
		m.cursor.Column += dc
		m.clampCursor()
		if item, ok := m.columnAt(m.cursor.Column); ok {
			m.report(m.store.DragOver(m.ctx, item))
		}
	case reorder.KindTask:
		target, ok := m.taskTarget(m.cursor.Column+dc, m.cursor.Row+dr)
		if !ok {
			return
		}
		// Each key press leaves the old target, so re-hovering counts
		m.store.DragLeave()
		m.report(m.store.DragOver(m.ctx, target))
		m.follow(active)
	}
}

// taskTarget is what a carried task hovers over at (col, row): the task
// there, or the column itself past its last task.
func (m *Model) taskTarget(col, row int) (reorder.Item, bool) {
	cols := m.store.Columns()
	if col < 0 || col >= len(cols) || row < 0 {
		return reorder.Item{}, false
	}
	tasks := m.store.Tasks(cols[col].ID)
	if row < len(tasks) {
		return reorder.TaskItem(tasks[row].ID), true
	}
	return reorder.ColumnItem(cols[col].ID), true
}

func (m *Model) columnAt(col int) (reorder.Item, bool) {
	cols := m.store.Columns()
	if col < 0 || col >= len(cols) {
		return reorder.Item{}, false
	}
	return reorder.ColumnItem(cols[col].ID), true
}

func (m *Model) focused() (reorder.Item, bool) {
	if m.cursor.Row < 0 {
		return m.columnAt(m.cursor.Column)
	}
	return m.taskTarget(m.cursor.Column, m.cursor.Row)
}

// follow moves the cursor onto item wherever it now sits
func (m *Model) follow(item reorder.Item) {
	for ci, col := range m.store.Columns() {
		if item.Kind == reorder.KindColumn && string(col.ID) == item.ID {
			m.cursor = Cursor{Column: ci, Row: -1}
			return
		}
		for ti, task := range m.store.Tasks(col.ID) {
			if item.Kind == reorder.KindTask && string(task.ID) == item.ID {
				m.cursor = Cursor{Column: ci, Row: ti}
				return
			}
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	cols := m.store.Columns()
	if len(cols) == 0 {
		m.cursor = Cursor{Row: -1}
		return
	}
	m.cursor.Column = max(0, min(m.cursor.Column, len(cols)-1))
	n := len(m.store.Tasks(cols[m.cursor.Column].ID))
	m.cursor.Row = max(-1, min(m.cursor.Row, n-1))
}

// report surfaces errors the board did not already announce
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.logger.Debug("board action failed", "error", err)
	switch {
	case board.IsNotFound(err),
		errors.Is(err, board.ErrDragInProgress),
		errors.Is(err, board.ErrNotDragging):
		m.notifier.Show(notify.Warning, err.Error())
	}
}

// ============================================================================
// VIEW
// ============================================================================

// Cursor returns the focused cell
func (m Model) Cursor() Cursor {
	return m.cursor
}

// View renders the board with the active toast and key help
func (m Model) View() string {
	var header string
	if msg, ok := m.notifier.Active(); ok {
		header = notify.RenderInline(m.theme, msg.Severity, msg.Text)
	}

	opts := RenderOptions{Cursor: &m.cursor}
	if active, ok := m.store.Dragging(); ok {
		opts.Dragging = &active
	}
	body := RenderBoard(m.styles, m.store.Snapshot(), opts)

	var footer string
	if m.adding {
		footer = m.styles.Input.Render(m.input.View())
	} else {
		footer = m.styles.Footer.Render(m.help())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) help() string {
	km := m.keys
	grab := km.Grab
	if grab == " " {
		grab = "space"
	}
	if _, dragging := m.store.Dragging(); dragging {
		return strings.Join([]string{
			km.PrevColumn + "/" + km.NextColumn + "/" + km.PrevTask + "/" + km.NextTask + " carry",
			km.Drop + " drop",
			km.Cancel + " cancel",
		}, " • ")
	}
	return strings.Join([]string{
		km.PrevColumn + "/" + km.NextColumn + "/" + km.PrevTask + "/" + km.NextTask + " move",
		grab + " grab",
		km.AddTask + " add",
		km.DeleteTask + " delete",
		km.Quit + " quit",
	}, " • ")
}
