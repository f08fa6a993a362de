package ports

import (
	"context"

	"honk/domain"
)

// EventListener receives a session's events, one at a time and in order
type EventListener interface {
	HandleEvent(ev domain.Event)
}

// EventListenerFunc adapts a function to EventListener
type EventListenerFunc func(ev domain.Event)

// HandleEvent calls f(ev)
func (f EventListenerFunc) HandleEvent(ev domain.Event) {
	f(ev)
}

// AgentInput sends text to a running agent
type AgentInput interface {
	Write(text string) error
}

// AgentEvents lets consumers observe a session's event stream
type AgentEvents interface {
	Subscribe(l EventListener) (unsubscribe func())
}

// AgentLifecycle starts and stops the agent process
type AgentLifecycle interface {
	Start(command string) error
	Status() domain.Status
	Stop()
	Kill()
	Wait(ctx context.Context) (domain.ExitStatus, error)
}

// AgentSession is the composite agent session interface
type AgentSession interface {
	AgentEvents
	AgentInput
	AgentLifecycle
}
