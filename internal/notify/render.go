package notify

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/listboard/internal/config"
)

type style struct {
	icon       string
	title      string
	foreground string
	background string
}

func (s Severity) style(theme config.Theme) style {
	switch s {
	case Success:
		return style{icon: "✓", title: "Success", foreground: theme.SuccessFg, background: theme.SuccessBg}
	case Warning:
		return style{icon: "⚠", title: "Warning", foreground: theme.WarningFg, background: theme.WarningBg}
	case Error:
		return style{icon: "✕", title: "Error", foreground: theme.ErrorFg, background: theme.ErrorBg}
	default:
		return style{icon: "🔔", title: "Info", foreground: theme.InfoFg, background: theme.InfoBg}
	}
}

// Render renders a notification banner based on severity level
func Render(theme config.Theme, severity Severity, message string) string {
	st := severity.style(theme)

	headerText := st.icon + " " + st.title
	width := max(lipgloss.Width(headerText), lipgloss.Width(message))

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(st.foreground)).
		Bold(true).
		Width(width).
		Render(headerText)

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(st.foreground)).
		Width(width).
		Render(message)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(st.background)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

// RenderInline renders a compact single-line notification
func RenderInline(theme config.Theme, severity Severity, message string) string {
	st := severity.style(theme)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(st.foreground)).
		Bold(severity == Error).
		Render(st.icon + " " + message)
}
