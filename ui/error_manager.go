package ui

import (
	"time"

	"honk/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// clearErrorMsg is sent after the error clear delay. gen ties it to the error
// it was scheduled for, so a stale tick does not clear a newer error.
type clearErrorMsg struct {
	gen int
}

// ErrorManager handles error display and auto-clearing functionality.
type ErrorManager struct {
	currentError    error
	errorClearDelay time.Duration
	gen             int
	program         string
}

// NewErrorManager creates a new ErrorManager with the specified auto-clear delay.
// program names the agent in user-facing messages.
func NewErrorManager(errorClearDelay time.Duration, program string) *ErrorManager {
	return &ErrorManager{
		errorClearDelay: errorClearDelay,
		program:         program,
	}
}

// SetError sets the current error and returns the command that clears it
// later. A zero delay keeps the error until replaced.
func (em *ErrorManager) SetError(err error) tea.Cmd {
	em.currentError = err
	em.gen++
	if err == nil || em.errorClearDelay <= 0 {
		return nil
	}

	gen := em.gen
	return tea.Tick(em.errorClearDelay, func(time.Time) tea.Msg {
		return clearErrorMsg{gen: gen}
	})
}

// ClearError clears the current error.
func (em *ErrorManager) ClearError() {
	em.currentError = nil
}

// HandleClear clears the error if msg belongs to it
func (em *ErrorManager) HandleClear(msg clearErrorMsg) {
	if msg.gen == em.gen {
		em.currentError = nil
	}
}

// GetError returns the current error.
func (em *ErrorManager) GetError() error {
	return em.currentError
}

// HasError returns true if there is a current error.
func (em *ErrorManager) HasError() bool {
	return em.currentError != nil
}

// Message returns the current error as a line for the user
func (em *ErrorManager) Message() string {
	if em.currentError == nil {
		return ""
	}
	return domain.UserMessage(em.currentError, em.program)
}
