package sound

import (
	"honk/domain"
	"honk/logging"
	"honk/ports"
)

// Notifier plays a sound when the agent process exits
type Notifier struct {
	player ports.SoundPlayer
}

// Compile-time interface verification
var _ ports.EventListener = (*Notifier)(nil)

// NewNotifier creates a notifier backed by player
func NewNotifier(player ports.SoundPlayer) *Notifier {
	return &Notifier{player: player}
}

// HandleEvent plays the exit or error sound for exit events. Playback runs
// off the dispatch goroutine so slow audio backends never delay other listeners.
func (n *Notifier) HandleEvent(ev domain.Event) {
	if ev.Kind != domain.EventExit {
		return
	}

	eventType := EventExit
	if !ev.Exit.Success() {
		eventType = EventError
	}

	go func() {
		if err := n.player.PlaySoundForEvent(eventType); err != nil {
			logging.Logger.Warn("Failed to play notification", "event", eventType, "error", err)
		}
	}()
}
