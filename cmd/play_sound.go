package cmd

import (
	"honk/sound"
)

// PlaySoundCmd plays a notification sound, mostly to check the audio setup
type PlaySoundCmd struct {
	Event string `help:"Sound to play" enum:"exit,error,start" default:"exit"`
}

// Run executes the play-sound command
func (p *PlaySoundCmd) Run() error {
	return sound.NewPlayer().PlaySoundForEvent(p.Event)
}
