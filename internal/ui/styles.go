package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): primary text
// - Accent (teal #2DD4BF by default, overridable from config): highlights
// - Muted (gray): secondary info, timestamps, hints
// - No colored success/error/warning - unicode symbols only

const defaultAccent = "#2DD4BF"

var accentColor = defaultAccent

var (
	// Accent style for vault and entry names, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info, hints, timestamps
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// SetAccent overrides the accent color, typically from config. Accepts ANSI
// color codes ("0" to "255") or hex colors ("#RRGGBB"). Empty is a no-op.
func SetAccent(color string) {
	if color == "" {
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the current accent color.
func AccentColor() string {
	return accentColor
}
