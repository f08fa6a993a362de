package ui

import (
	"fmt"

	"honk/theme"
	"honk/version"
)

// renderHeader creates the header shown above the panel and the ask form.
// It displays the app name with optional version info (in dev mode) and the
// tagline, plus an optional subtitle below.
func renderHeader(devMode bool, subtitle string) string {
	appNameLine := theme.AppNameStyle.Render("Honk")
	if devMode {
		commit := version.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionInfo := fmt.Sprintf(" %s | %s | %s | %s",
			version.Version,
			commit,
			version.Date,
			version.GoVersion)
		appNameLine += theme.VersionStyle.Render(versionInfo)
	}

	result := appNameLine + "\n"
	result += theme.TaglineStyle.Render(version.Tagline)

	if subtitle != "" {
		result += "\n\n" + theme.SubtitleStyle.Render(subtitle)
	}

	result += "\n"
	return result
}
