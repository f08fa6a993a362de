//go:build linux

package sound

import "os/exec"

const freedesktopSounds = "/usr/share/sounds/freedesktop/stereo/"

// playForEvent plays sounds on Linux using paplay (PulseAudio) or aplay (ALSA)
func playForEvent(eventType string) bool {
	var sounds []string
	switch eventType {
	case EventExit:
		sounds = []string{"complete"}
	case EventError:
		sounds = []string{"dialog-warning", "bell"}
	case EventStart:
		sounds = []string{"service-login"}
	default:
		sounds = []string{"bell"}
	}

	for _, name := range sounds {
		if exec.Command("paplay", freedesktopSounds+name+".oga").Run() == nil {
			return true
		}
		if exec.Command("aplay", "-q", freedesktopSounds+name+".wav").Run() == nil {
			return true
		}
	}
	return false
}
