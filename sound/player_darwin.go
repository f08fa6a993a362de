//go:build darwin

package sound

import "os/exec"

// playForEvent plays sounds on macOS using afplay
func playForEvent(eventType string) bool {
	var soundFiles []string
	switch eventType {
	case EventExit:
		soundFiles = []string{"/System/Library/Sounds/Glass.aiff", "/System/Library/Sounds/Tink.aiff"}
	case EventError:
		soundFiles = []string{"/System/Library/Sounds/Basso.aiff", "/System/Library/Sounds/Sosumi.aiff"}
	case EventStart:
		soundFiles = []string{"/System/Library/Sounds/Submarine.aiff"}
	default:
		soundFiles = []string{"/System/Library/Sounds/Glass.aiff"}
	}

	// afplay blocks until the sound ends, so it is started and left running
	for _, soundFile := range soundFiles {
		if exec.Command("afplay", soundFile).Start() == nil {
			return true
		}
	}
	return false
}
