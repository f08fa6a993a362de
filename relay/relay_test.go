package relay

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"honk/domain"
	"honk/ports"
	"honk/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession lets tests push events by hand and records writes
type fakeSession struct {
	mu       sync.Mutex
	listener ports.EventListener
	writes   []string
	writeErr error
}

func (f *fakeSession) Subscribe(l ports.EventListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = l
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listener = nil
	}
}

func (f *fakeSession) Write(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeSession) emit(ev domain.Event) {
	f.mu.Lock()
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l.HandleEvent(ev)
	}
}

// memorySink records delivered events
type memorySink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *memorySink) Deliver(ev domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *memorySink) chunks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, ev := range m.events {
		if ev.Kind == domain.EventOutput {
			out = append(out, string(ev.Chunk))
		}
	}
	return out
}

func (m *memorySink) all() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.events...)
}

func output(s string) domain.Event {
	return domain.OutputEvent("run-1", []byte(s))
}

func TestForwardsChunksVerbatim(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)
	sink := &memorySink{}
	r.Attach(sink)

	sess.emit(output("partial li"))
	sess.emit(output("ne\n\x1b[31mred\x1b[0m"))

	assert.Equal(t, []string{"partial li", "ne\n\x1b[31mred\x1b[0m"}, sink.chunks())
}

func TestDropsEventsWithoutSink(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)

	// Must not panic or buffer
	sess.emit(output("lost"))

	sink := &memorySink{}
	r.Attach(sink)
	sess.emit(output("kept"))

	assert.Equal(t, []string{"kept"}, sink.chunks())
}

func TestReattachDoesNotReplay(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)

	a := &memorySink{}
	b := &memorySink{}

	r.Attach(a)
	sess.emit(output("one"))
	r.Detach()
	sess.emit(output("while-detached"))
	r.Attach(b)
	sess.emit(output("two"))

	assert.Equal(t, []string{"one"}, a.chunks())
	assert.Equal(t, []string{"two"}, b.chunks(), "new sink sees only new output")
}

func TestAttachReplacesSink(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)

	a := &memorySink{}
	b := &memorySink{}
	r.Attach(a)
	sess.emit(output("for-a"))
	r.Attach(b)
	sess.emit(output("for-b"))

	assert.Equal(t, []string{"for-a"}, a.chunks())
	assert.Equal(t, []string{"for-b"}, b.chunks())
}

func TestDetachSinkOnlyDetachesItself(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)

	a := &memorySink{}
	b := &memorySink{}
	r.Attach(a)
	r.Attach(b)

	assert.False(t, r.DetachSink(a), "stale surface must not detach its replacement")
	assert.True(t, r.Attached())

	assert.True(t, r.DetachSink(b))
	assert.False(t, r.Attached())
}

func TestForwardsExitStatus(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)
	sink := &memorySink{}
	r.Attach(sink)

	sess.emit(domain.ExitEvent("run-1", domain.ExitStatus{Code: 2}))

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventExit, events[0].Kind)
	assert.Equal(t, 2, events[0].Exit.Code)
}

func TestSubmit(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)

	require.NoError(t, r.Submit("hello goose"))
	assert.Equal(t, []string{"hello goose"}, sess.writes)
}

func TestSubmitSurfacesWriteErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not running", domain.ErrNotRunning},
		{"broken pipe", errors.Join(domain.ErrBrokenPipe, errors.New("write |1: broken pipe"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &fakeSession{writeErr: tt.err}
			r := New(sess)

			err := r.Submit("ping")
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)
	sink := &memorySink{}
	r.Attach(sink)

	r.Close()
	sess.emit(output("after-close"))

	assert.Empty(t, sink.chunks())
	assert.False(t, r.Attached())
}

func TestSwapSinkWhileEventsInFlight(t *testing.T) {
	sess := &fakeSession{}
	r := New(sess)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			sess.emit(output("x"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				r.Attach(&memorySink{})
			} else {
				r.Detach()
			}
		}
	}()
	wg.Wait()
}

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(1)

	sink.Deliver(output("a"))
	ev := <-sink.Events()
	assert.Equal(t, "a", string(ev.Chunk))

	// Blocked delivery is released by Close
	sink.Deliver(output("fills buffer"))
	released := make(chan struct{})
	go func() {
		sink.Deliver(output("blocked"))
		close(released)
	}()
	sink.Close()

	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("Deliver stayed blocked after Close")
	}

	sink.Close()
	sink.Deliver(output("after close"))
}

func TestWriterSink(t *testing.T) {
	var out, status bytes.Buffer
	sink := &WriterSink{Out: &out, Status: &status}

	sink.Deliver(output("hello\n"))
	sink.Deliver(domain.ExitEvent("run-1", domain.ExitStatus{Code: 0}))

	assert.Equal(t, "hello\n", out.String())
	assert.Contains(t, status.String(), "exited with code 0")
}

func TestRelayOverRealSession(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	sess := process.NewSession()
	r := New(sess)
	defer r.Close()

	sink := &memorySink{}
	r.Attach(sink)

	require.NoError(t, sess.Start("cat"))
	require.NoError(t, r.Submit("ping"))

	assert.Eventually(t, func() bool {
		return strings.Contains(strings.Join(sink.chunks(), ""), "ping\n")
	}, 5*time.Second, 10*time.Millisecond)

	sess.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := sess.Wait(ctx)
	require.NoError(t, err)

	events := sink.all()
	require.NotEmpty(t, events)
	assert.Equal(t, domain.EventExit, events[len(events)-1].Kind)

	assert.ErrorIs(t, r.Submit("late"), domain.ErrNotRunning)
}
