//go:build !linux && !darwin && !windows

package sound

// playForEvent has no audio backend here; the caller rings the bell
func playForEvent(string) bool {
	return false
}
