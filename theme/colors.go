package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles, echoed input
)

// Agent state colors
const (
	ColorExited     Color = "8" // Gray - agent has exited
	ColorFailed     Color = "1" // Red - could not start
	ColorNotStarted Color = "3" // Yellow - not started yet
	ColorRunning    Color = "2" // Green - agent running
)

// UI semantic colors
const (
	ColorError   Color = "196" // Bright red
	ColorMuted   Color = "241" // Gray - secondary text
	ColorNormal  Color = "250" // Default text
	ColorVersion Color = "240" // Dark gray
)
