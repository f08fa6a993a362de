package relay

import (
	"fmt"
	"io"
	"sync"

	"honk/domain"
	"honk/logging"
)

// ChannelSink hands events to a consumer goroutine through a channel.
// Deliver blocks until the consumer takes the event or the sink is closed,
// so a slow surface slows the relay down instead of losing ordering.
type ChannelSink struct {
	ch   chan domain.Event
	done chan struct{}
	once sync.Once
}

// NewChannelSink creates a sink whose channel holds up to buffer events
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{
		ch:   make(chan domain.Event, buffer),
		done: make(chan struct{}),
	}
}

// Deliver implements Sink
func (s *ChannelSink) Deliver(ev domain.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.ch <- ev:
	case <-s.done:
	}
}

// Events returns the channel the consumer reads from
func (s *ChannelSink) Events() <-chan domain.Event {
	return s.ch
}

// Done is closed once the sink is closed
func (s *ChannelSink) Done() <-chan struct{} {
	return s.done
}

// Close stops delivery; pending and future events are discarded
func (s *ChannelSink) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// WriterSink copies output chunks verbatim to Out and reports the exit
// status on Status.
type WriterSink struct {
	Out    io.Writer
	Status io.Writer

	mu sync.Mutex
}

// Deliver implements Sink
func (s *WriterSink) Deliver(ev domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case domain.EventOutput:
		if _, err := s.Out.Write(ev.Chunk); err != nil {
			logging.Logger.Warn("Failed to write agent output", "error", err)
		}
	case domain.EventExit:
		if s.Status != nil {
			fmt.Fprintf(s.Status, "\n[agent %s]\n", ev.Exit.String())
		}
	}
}
