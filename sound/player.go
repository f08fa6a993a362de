package sound

import (
	"fmt"
	"io"
	"os"

	"honk/ports"
)

// Event types understood by the player
const (
	EventError = "error"
	EventExit  = "exit"
	EventStart = "start"
)

// Player implements ports.SoundPlayer
type Player struct {
	bell io.Writer
}

// Compile-time interface verification
var _ ports.SoundPlayer = (*Player)(nil)

// NewPlayer creates a player that rings the terminal bell on stderr when no
// audio backend is available
func NewPlayer() *Player {
	return &Player{bell: os.Stderr}
}

// PlaySoundForEvent plays different sounds based on the event type.
// Platform-specific implementations are in player_*.go files with build tags.
func (p *Player) PlaySoundForEvent(eventType string) error {
	if playForEvent(eventType) {
		return nil
	}
	return p.terminalBell()
}

// terminalBell outputs a terminal bell character as fallback
func (p *Player) terminalBell() error {
	_, err := fmt.Fprint(p.bell, "\a")
	return err
}
