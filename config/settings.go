package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"honk/paths"
)

// Settings represents the structure of $HONK_HOME/settings.json
type Settings struct {
	Command         string      `json:"command,omitempty"`
	DBPath          string      `json:"db_path,omitempty"`
	Debug           *bool       `json:"debug,omitempty"`
	Env             StringArray `json:"env,omitempty"`
	ErrorClearDelay *int        `json:"error_clear_delay,omitempty"`
	ExitCommand     string      `json:"exit_command,omitempty"`
	InitialPrompt   *bool       `json:"initial_prompt,omitempty"`
	MaxLogFiles     *int        `json:"max_log_files,omitempty"`
	Notify          *bool       `json:"notify,omitempty"`
	PTY             *bool       `json:"pty,omitempty"`
	ScrollbackLines *int        `json:"scrollback_lines,omitempty"`
	Shell           string      `json:"shell,omitempty"`
	SSHHost         string      `json:"ssh_host,omitempty"`
	SSHPort         *int        `json:"ssh_port,omitempty"`
	StartupDelayMs  *int        `json:"startup_delay_ms,omitempty"`
	StopGraceMs     *int        `json:"stop_grace_ms,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from $HONK_HOME/settings.json
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	path := paths.GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = paths.ExpandPath(settings.DBPath)
	}
	if settings.Shell != "" {
		settings.Shell = paths.ExpandPath(settings.Shell)
	}

	return &settings, nil
}

// DefaultShell returns $SHELL, falling back to /bin/sh
func DefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}
