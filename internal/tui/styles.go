package tui

import "github.com/charmbracelet/lipgloss"

// Colors shared by the tabs and the status line.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "30", Dark: "43"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "245", Dark: "243"}
	colorError  = lipgloss.AdaptiveColor{Light: "160", Dark: "203"}
	colorOK     = lipgloss.AdaptiveColor{Light: "28", Dark: "114"}
)

var (
	tabActiveStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true).Padding(0, 2)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 2)
	errorLineStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	statusLineStyle  = lipgloss.NewStyle().Foreground(colorOK)
	bodyStyle        = lipgloss.NewStyle().Padding(1, 2, 0, 2)
)
