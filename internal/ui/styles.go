package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pharmaops/shiftcheck/internal/schedule"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for info panels
	ColorBlue      = lipgloss.Color("75")  // Blue for pending work

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)
)

// statusStyles maps each resolved status to its board color.
var statusStyles = map[schedule.Status]lipgloss.Style{
	schedule.StatusNotVisible: StyleSubtle,
	schedule.StatusNotDueYet:  lipgloss.NewStyle().Foreground(ColorBlue),
	schedule.StatusDueToday:   StyleWarning,
	schedule.StatusOverdue:    StyleError,
	schedule.StatusMissed:     lipgloss.NewStyle().Foreground(ColorError).Bold(true),
	schedule.StatusCompleted:  StyleSuccess,
}

// StatusStyle returns the style for a resolved status.
func StatusStyle(s schedule.Status) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return StyleText
}

// RenderStatus returns the status name styled for the board.
func RenderStatus(s schedule.Status) string {
	return StatusStyle(s).Render(s.String())
}
