package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordul/internal/game"
)

// Color palette
var (
	CorrectColor = lipgloss.Color("#538D4E") // Green
	PresentColor = lipgloss.Color("#B59F3B") // Yellow
	AbsentColor  = lipgloss.Color("#3A3A3C") // Dark gray
	FocusColor   = lipgloss.Color("#7D56F4") // Purple
	EmptyColor   = lipgloss.Color("#565758") // Gray
	TextColor    = lipgloss.Color("#FFFFFF")
	SubtleColor  = lipgloss.Color("#626262")
	ErrorColor   = lipgloss.Color("#FF5F56")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(FocusColor).
			Bold(true).
			MarginBottom(1)

	tileBase = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(TextColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(EmptyColor)

	keyBase = lipgloss.NewStyle().
		Padding(0, 1).
		MarginRight(1).
		Foreground(TextColor).
		Background(lipgloss.Color("#818384"))

	StatusStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			MarginTop(1)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(FocusColor).
			Padding(1, 4).
			Align(lipgloss.Center)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginTop(1)
)

func statusColor(s game.Status) (lipgloss.Color, bool) {
	switch s {
	case game.StatusCorrect:
		return CorrectColor, true
	case game.StatusPresent:
		return PresentColor, true
	case game.StatusAbsent:
		return AbsentColor, true
	}
	return "", false
}

// tileStyle styles an evaluated tile, or an editable one when s is unset.
func tileStyle(s game.Status, focused bool) lipgloss.Style {
	st := tileBase
	if c, ok := statusColor(s); ok {
		return st.Background(c).BorderForeground(c)
	}
	if focused {
		st = st.BorderForeground(FocusColor).BorderStyle(lipgloss.ThickBorder())
	}
	return st
}

// keyStyle styles an on-screen key by its aggregated status.
func keyStyle(s game.Status, disabled bool) lipgloss.Style {
	st := keyBase
	if c, ok := statusColor(s); ok {
		st = st.Background(c)
	}
	if disabled {
		st = st.Foreground(SubtleColor)
	}
	return st
}
