package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#007AFF")
	subtle = lipgloss.Color("#8E8E93")
	danger = lipgloss.Color("#FF3B30")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().Foreground(subtle)

	labelStyle = lipgloss.NewStyle().Foreground(subtle)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 2)

	disabledButtonStyle = buttonStyle.
				Background(subtle)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	errorDialogStyle = dialogStyle.
				BorderForeground(danger)

	ownBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1)

	otherBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(lipgloss.Color("#E5E5EA")).
				Padding(0, 1)

	authorStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Faint(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(subtle)
)
