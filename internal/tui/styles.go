package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED")
	muted   = lipgloss.Color("#6B7280")
	errRed  = lipgloss.Color("#EF4444")
	white   = lipgloss.Color("#FFFFFF")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)

	directoryStyle = lipgloss.NewStyle().Foreground(muted)

	nameStyle = lipgloss.NewStyle().Bold(true)

	highlightedStyle = lipgloss.NewStyle().
				Background(primary).
				Foreground(white).
				Bold(true)

	countStyle = lipgloss.NewStyle().Foreground(muted)

	mutedStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)

	errorStyle = lipgloss.NewStyle().Foreground(errRed)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(primary).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(muted)
)
