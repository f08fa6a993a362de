package paths

import (
	"os"
	"path/filepath"
)

// GetHonkHome returns HONK_HOME or ~/.honk default
func GetHonkHome() string {
	honkHome := os.Getenv("HONK_HOME")
	if honkHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".honk"
		}
		return filepath.Join(homeDir, ".honk")
	}
	return ExpandPath(honkHome)
}

// GetDBPath returns $HONK_HOME/history.db
func GetDBPath() string {
	return filepath.Join(GetHonkHome(), "history.db")
}

// GetSettingsPath returns $HONK_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHonkHome(), "settings.json")
}

// GetSSHDir returns $HONK_HOME/ssh, where the server host key lives
func GetSSHDir() string {
	return filepath.Join(GetHonkHome(), "ssh")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
