package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/listboard/internal/config"
)

const (
	columnWidth = 30
	cardWidth   = columnWidth - 4
)

// Styles are the lipgloss styles for one theme
type Styles struct {
	Column         lipgloss.Style
	SelectedColumn lipgloss.Style
	ColumnTitle    lipgloss.Style
	Card           lipgloss.Style
	SelectedCard   lipgloss.Style
	DraggedCard    lipgloss.Style
	Empty          lipgloss.Style
	Footer         lipgloss.Style
	Input          lipgloss.Style
}

// NewStyles builds the board styles from theme
func NewStyles(theme config.Theme) Styles {
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColumnBorder)).
		Padding(0, 1).
		Width(columnWidth)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.TaskBorder)).
		Foreground(lipgloss.Color(theme.Normal)).
		Padding(0, 1).
		Width(cardWidth)

	return Styles{
		Column:         column,
		SelectedColumn: column.BorderForeground(lipgloss.Color(theme.SelectedBorder)),
		ColumnTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Title)),
		Card:         card,
		SelectedCard: card.BorderForeground(lipgloss.Color(theme.SelectedBorder)),
		DraggedCard: card.
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(theme.Accent)),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)).
			Italic(true),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Accent)).
			Padding(0, 1).
			Width(cardWidth),
	}
}
