package theme

import (
	"honk/domain"

	"github.com/charmbracelet/lipgloss"
)

// Panel styles
var (
	EchoStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ExitLineStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)
)

// State icon styles
var (
	ExitedIconStyle = lipgloss.NewStyle().
			Foreground(ColorExited)

	FailedIconStyle = lipgloss.NewStyle().
			Foreground(ColorFailed)

	NotStartedIconStyle = lipgloss.NewStyle().
				Foreground(ColorNotStarted)

	RunningIconStyle = lipgloss.NewStyle().
				Foreground(ColorRunning)
)

// Dialog header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// StateIcon returns the colored icon for an agent state
func StateIcon(state domain.State) string {
	switch state {
	case domain.StateRunning:
		return RunningIconStyle.Render("●")
	case domain.StateExited:
		return ExitedIconStyle.Render("■")
	case domain.StateFailed:
		return FailedIconStyle.Render("✗")
	default:
		return NotStartedIconStyle.Render("○")
	}
}
