//go:build windows

package sound

import "os/exec"

// playForEvent plays sounds on Windows using PowerShell
func playForEvent(eventType string) bool {
	var soundCommands []string
	switch eventType {
	case EventExit:
		soundCommands = []string{"[System.Media.SystemSounds]::Asterisk.Play()"}
	case EventError:
		soundCommands = []string{"[System.Media.SystemSounds]::Hand.Play()"}
	case EventStart:
		soundCommands = []string{"[System.Media.SystemSounds]::Question.Play()"}
	}
	soundCommands = append(soundCommands, "[System.Media.SystemSounds]::Beep.Play()")

	for _, soundCmd := range soundCommands {
		if exec.Command("powershell", "-NoProfile", "-c", soundCmd).Run() == nil {
			return true
		}
	}
	return false
}
