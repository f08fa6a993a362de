package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyRunning = errors.New("agent session already running")
	ErrBrokenPipe     = errors.New("agent input stream is closed")
	ErrEmptyQuestion  = errors.New("question is empty")
	ErrInputFull      = errors.New("agent is not reading its input")
	ErrNotRunning     = errors.New("agent session is not running")
	ErrRunNotFound    = errors.New("run not found")
	ErrSpawnFailed    = errors.New("failed to start agent")
)

// UserMessage turns an error from the session layer into a short line that says
// what failed and, where possible, what to do about it.
func UserMessage(err error, program string) string {
	if program == "" {
		program = "the agent"
	}

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSpawnFailed):
		return fmt.Sprintf("%s could not be started. Is it installed and on your PATH? (set \"command\" in settings.json to change it): %v", program, err)
	case errors.Is(err, ErrAlreadyRunning):
		return fmt.Sprintf("%s is already running", program)
	case errors.Is(err, ErrNotRunning):
		return fmt.Sprintf("%s is not running. Press ctrl+r to start it", program)
	case errors.Is(err, ErrBrokenPipe):
		return fmt.Sprintf("%s stopped reading input; it has probably exited", program)
	case errors.Is(err, ErrInputFull):
		return fmt.Sprintf("%s is not reading its input. Wait for it to catch up or press ctrl+s to stop it", program)
	case errors.Is(err, ErrEmptyQuestion):
		return "Nothing to send: the question is empty"
	default:
		return err.Error()
	}
}
