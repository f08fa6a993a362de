package ports

// SoundPlayer plays notification sounds
type SoundPlayer interface {
	// PlaySoundForEvent plays the sound for an event type ("exit", "error", "start")
	PlaySoundForEvent(eventType string) error
}
