package domain

import (
	"fmt"
	"time"
)

// State is the lifecycle state of an agent session
type State string

const (
	StateExited     State = "exited"
	StateFailed     State = "failed"
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
)

// ExitStatus describes how an agent process terminated.
// Code is only meaningful when Signaled is false.
type ExitStatus struct {
	Code     int
	Signal   string
	Signaled bool
}

// ExitCode returns the exit code, or false when the process was terminated by a signal
func (e ExitStatus) ExitCode() (int, bool) {
	if e.Signaled {
		return 0, false
	}
	return e.Code, true
}

// Success reports a clean zero exit
func (e ExitStatus) Success() bool {
	return !e.Signaled && e.Code == 0
}

func (e ExitStatus) String() string {
	if e.Signaled {
		if e.Signal == "" {
			return "terminated by signal"
		}
		return fmt.Sprintf("terminated by signal (%s)", e.Signal)
	}
	return fmt.Sprintf("exited with code %d", e.Code)
}

// Status is a snapshot of a session: its state plus the data attached to it.
// Exit is set for StateExited, Reason for StateFailed.
type Status struct {
	Command   string
	Exit      *ExitStatus
	Reason    string
	RunID     string
	StartedAt time.Time
	State     State
}

func (s Status) String() string {
	switch s.State {
	case StateRunning:
		return "running"
	case StateExited:
		if s.Exit != nil {
			return s.Exit.String()
		}
		return "exited"
	case StateFailed:
		return "failed: " + s.Reason
	default:
		return "not started"
	}
}

// EventKind tells output chunks apart from the terminal exit notification
type EventKind int

const (
	EventOutput EventKind = iota
	EventExit
)

// Event is a single item of a session's event stream
type Event struct {
	Chunk []byte
	Exit  ExitStatus
	Kind  EventKind
	RunID string
}

// OutputEvent builds an output event; the chunk is not copied
func OutputEvent(runID string, chunk []byte) Event {
	return Event{Kind: EventOutput, RunID: runID, Chunk: chunk}
}

// ExitEvent builds the terminal event of a run
func ExitEvent(runID string, status ExitStatus) Event {
	return Event{Kind: EventExit, RunID: runID, Exit: status}
}
