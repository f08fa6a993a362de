package relay

import (
	"sync"

	"honk/domain"
	"honk/logging"
	"honk/ports"
)

// Sink is a UI surface that receives output chunks and the terminal exit status
type Sink interface {
	Deliver(ev domain.Event)
}

// Relay bridges one agent session and at most one attached sink.
// Events that arrive while no sink is attached are dropped; a sink attached
// later only sees what arrives after it.
type Relay struct {
	input       ports.AgentInput
	unsubscribe func()

	mu   sync.RWMutex
	sink Sink
}

// Compile-time interface verification
var _ ports.EventListener = (*Relay)(nil)

// New binds a relay to a session. The relay does not own the session.
func New(session interface {
	ports.AgentInput
	ports.AgentEvents
}) *Relay {
	r := &Relay{input: session}
	r.unsubscribe = session.Subscribe(r)
	return r
}

// Attach makes sink the current sink, replacing any previous one
func (r *Relay) Attach(sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sink != nil && r.sink != sink {
		logging.Logger.Debug("Replacing attached sink")
	}
	r.sink = sink
	logging.Logger.Debug("Sink attached")
}

// Detach clears the current sink
func (r *Relay) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sink = nil
	logging.Logger.Debug("Sink detached")
}

// DetachSink clears the current sink only if it is sink. A surface closing late
// must not detach whoever replaced it.
func (r *Relay) DetachSink(sink Sink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sink != sink {
		return false
	}
	r.sink = nil
	logging.Logger.Debug("Sink detached")
	return true
}

// Attached reports whether a sink is attached
func (r *Relay) Attached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sink != nil
}

// Submit forwards text to the session's input. Errors are returned to the
// caller so the surface can show them.
func (r *Relay) Submit(text string) error {
	if err := r.input.Write(text); err != nil {
		logging.Logger.Warn("Submit failed", "error", err)
		return err
	}
	return nil
}

// HandleEvent forwards a session event to the attached sink, if any
func (r *Relay) HandleEvent(ev domain.Event) {
	r.mu.RLock()
	sink := r.sink
	r.mu.RUnlock()

	if sink == nil {
		return
	}
	sink.Deliver(ev)
}

// Close unbinds the relay from its session and drops the sink
func (r *Relay) Close() {
	r.unsubscribe()
	r.Detach()
}
