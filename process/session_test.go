package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"honk/domain"
	"honk/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects every event a session delivers
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) HandleEvent(ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func (r *recorder) output() string {
	var buf bytes.Buffer
	for _, ev := range r.snapshot() {
		if ev.Kind == domain.EventOutput {
			buf.Write(ev.Chunk)
		}
	}
	return buf.String()
}

func (r *recorder) exits() []domain.Event {
	var exits []domain.Event
	for _, ev := range r.snapshot() {
		if ev.Kind == domain.EventExit {
			exits = append(exits, ev)
		}
	}
	return exits
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process tests need a POSIX shell")
	}
}

func newRecordedSession(t *testing.T, opts ...Option) (*Session, *recorder) {
	t.Helper()
	requireShell(t)
	s := NewSession(opts...)
	rec := &recorder{}
	s.Subscribe(rec)
	t.Cleanup(func() {
		s.Kill()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Wait(ctx)
	})
	return s, rec
}

func waitExit(t *testing.T, s *Session) domain.ExitStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exit, err := s.Wait(ctx)
	require.NoError(t, err)
	return exit
}

func TestNewSessionIsNotStarted(t *testing.T) {
	s := NewSession()
	assert.Equal(t, domain.StateNotStarted, s.Status().State)
}

func TestStartEchoDeliversOutputThenExit(t *testing.T) {
	s, rec := newRecordedSession(t)

	require.NoError(t, s.Start("echo hello"))
	exit := waitExit(t, s)

	assert.True(t, exit.Success())
	assert.Contains(t, rec.output(), "hello")

	events := rec.snapshot()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, domain.EventExit, last.Kind, "exit must be the last event")
	assert.Equal(t, 0, last.Exit.Code)
	assert.Len(t, rec.exits(), 1)

	st := s.Status()
	assert.Equal(t, domain.StateExited, st.State)
	require.NotNil(t, st.Exit)
	assert.Equal(t, 0, st.Exit.Code)
}

func TestStartMissingBinaryFails(t *testing.T) {
	s, rec := newRecordedSession(t)

	err := s.Start("nonexistent-binary-xyz --flag")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSpawnFailed))
	st := s.Status()
	assert.NotEqual(t, domain.StateRunning, st.State)
	assert.Equal(t, domain.StateFailed, st.State)
	assert.Contains(t, st.Reason, "nonexistent-binary-xyz")
	assert.Empty(t, rec.snapshot())
}

func TestStartMissingShellFails(t *testing.T) {
	s, _ := newRecordedSession(t, WithShell("/nonexistent/shell"))

	err := s.Start("echo hi")

	assert.ErrorIs(t, err, domain.ErrSpawnFailed)
	assert.Equal(t, domain.StateFailed, s.Status().State)
}

func TestStartEmptyCommandFails(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Start("   "), domain.ErrSpawnFailed)
}

func TestWriteBeforeStart(t *testing.T) {
	s := NewSession()
	err := s.Write("ping")
	assert.ErrorIs(t, err, domain.ErrNotRunning)
}

func TestStartWhileRunning(t *testing.T) {
	s, _ := newRecordedSession(t)

	require.NoError(t, s.Start("cat"))
	runID := s.Status().RunID

	err := s.Start("cat")
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
	assert.Equal(t, runID, s.Status().RunID, "second start must not replace the run")
	assert.Equal(t, domain.StateRunning, s.Status().State)
}

func TestWriteEchoesThroughCat(t *testing.T) {
	s, rec := newRecordedSession(t)

	require.NoError(t, s.Start("cat"))
	require.NoError(t, s.Write("ping"))

	assert.Eventually(t, func() bool {
		return strings.Contains(rec.output(), "ping\n")
	}, 5*time.Second, 10*time.Millisecond)

	s.Stop()
	exit := waitExit(t, s)
	assert.True(t, exit.Signaled)
	assert.Equal(t, "SIGTERM", exit.Signal)
	_, hasCode := exit.ExitCode()
	assert.False(t, hasCode)
}

func TestExitNotHeldByBackgroundChild(t *testing.T) {
	s, rec := newRecordedSession(t)

	require.NoError(t, s.Start("sleep 5 & echo hi"))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	exit, err := s.Wait(ctx)
	require.NoError(t, err, "exit must not wait for the background child")

	assert.True(t, exit.Success())
	assert.Equal(t, domain.StateExited, s.Status().State)
	assert.Contains(t, rec.output(), "hi")
	assert.Len(t, rec.exits(), 1)

	events := rec.snapshot()
	assert.Equal(t, domain.EventExit, events[len(events)-1].Kind)
}

func TestWriteDoesNotWaitForReader(t *testing.T) {
	s, _ := newRecordedSession(t)

	require.NoError(t, s.Start("sleep 30"))

	done := make(chan error, 2)
	go func() {
		done <- s.Write(strings.Repeat("x", 200*1024))
		done <- s.Write("exit")
	}()

	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Write blocked on an agent that is not reading")
		}
	}

	s.Stop()
	waitExit(t, s)
}

func TestWriteReportsFullQueue(t *testing.T) {
	s, _ := newRecordedSession(t)

	require.NoError(t, s.Start("sleep 30"))

	// The first line fills the pipe and parks the writer; the rest fill the queue
	line := strings.Repeat("y", 128*1024)
	var err error
	for i := 0; i < inputQueueSize+2 && err == nil; i++ {
		err = s.Write(line)
	}
	assert.ErrorIs(t, err, domain.ErrInputFull)

	s.Stop()
	waitExit(t, s)
}

func TestStartExpandsShellWords(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	bin := filepath.Join(home, "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bin, "agent"), []byte("#!/bin/sh\necho agent-ran\n"), 0755))
	t.Setenv("HONK_TEST_AGENT", filepath.Join(bin, "agent"))

	for _, command := range []string{
		"$HOME/bin/agent",
		"~/bin/agent",
		`"$HONK_TEST_AGENT"`,
		"PATH=" + bin + ":$PATH agent",
	} {
		t.Run(command, func(t *testing.T) {
			s, rec := newRecordedSession(t)

			require.NoError(t, s.Start(command))
			exit := waitExit(t, s)

			assert.True(t, exit.Success())
			assert.Contains(t, rec.output(), "agent-ran")
		})
	}
}

func TestStartedAtIsUTC(t *testing.T) {
	s, _ := newRecordedSession(t)

	require.NoError(t, s.Start("true"))
	waitExit(t, s)

	assert.Equal(t, time.UTC, s.Status().StartedAt.Location())
}

func TestStopIsIdempotent(t *testing.T) {
	s, rec := newRecordedSession(t)

	// Never started
	s.Stop()
	s.Stop()
	assert.Equal(t, domain.StateNotStarted, s.Status().State)

	require.NoError(t, s.Start("sleep 30"))
	s.Stop()
	s.Stop()
	waitExit(t, s)
	first := s.Status()

	s.Stop()
	assert.Equal(t, first, s.Status())
	assert.Len(t, rec.exits(), 1)
}

func TestStderrIsMerged(t *testing.T) {
	s, rec := newRecordedSession(t)

	require.NoError(t, s.Start("echo to-stdout; echo to-stderr 1>&2"))
	waitExit(t, s)

	out := rec.output()
	assert.Contains(t, out, "to-stdout")
	assert.Contains(t, out, "to-stderr")
}

func TestNonZeroExitCode(t *testing.T) {
	s, rec := newRecordedSession(t)

	require.NoError(t, s.Start("exit 3"))
	exit := waitExit(t, s)

	code, ok := exit.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, 3, code)
	require.Len(t, rec.exits(), 1)
	assert.Equal(t, 3, rec.exits()[0].Exit.Code)
}

func TestNoOutputAfterExit(t *testing.T) {
	s, rec := newRecordedSession(t)

	require.NoError(t, s.Start("i=0; while [ $i -lt 500 ]; do echo line $i; echo err $i 1>&2; i=$((i+1)); done"))
	waitExit(t, s)

	events := rec.snapshot()
	require.NotEmpty(t, events)
	for i, ev := range events {
		if ev.Kind == domain.EventExit {
			assert.Equal(t, len(events)-1, i, "exit must be delivered last")
		}
	}
	assert.Contains(t, rec.output(), "line 499")
	assert.Contains(t, rec.output(), "err 499")
}

func TestWriteAfterExit(t *testing.T) {
	s, _ := newRecordedSession(t)

	require.NoError(t, s.Start("true"))
	waitExit(t, s)

	assert.ErrorIs(t, s.Write("late"), domain.ErrNotRunning)
}

func TestWritesRacingExitNeverPanic(t *testing.T) {
	s, _ := newRecordedSession(t)

	require.NoError(t, s.Start("head -n 1"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := s.Write("data")
				if err != nil {
					assert.True(t,
						errors.Is(err, domain.ErrBrokenPipe) ||
							errors.Is(err, domain.ErrNotRunning) ||
							errors.Is(err, domain.ErrInputFull),
						"unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()
	waitExit(t, s)
}

func TestRestartAfterExit(t *testing.T) {
	s, rec := newRecordedSession(t)

	require.NoError(t, s.Start("echo first"))
	waitExit(t, s)
	firstRun := s.Status().RunID

	require.NoError(t, s.Start("echo second"))
	waitExit(t, s)
	secondRun := s.Status().RunID

	assert.NotEqual(t, firstRun, secondRun)
	exits := rec.exits()
	require.Len(t, exits, 2)
	assert.Equal(t, firstRun, exits[0].RunID)
	assert.Equal(t, secondRun, exits[1].RunID)

	// Every event of the second run comes after the first run's exit
	seenFirstExit := false
	for _, ev := range rec.snapshot() {
		if ev.RunID == firstRun && ev.Kind == domain.EventExit {
			seenFirstExit = true
		}
		if ev.RunID == secondRun {
			assert.True(t, seenFirstExit)
		}
	}
}

func TestRestartFromExitListener(t *testing.T) {
	requireShell(t)
	s := NewSession()
	restarted := make(chan error, 1)
	var once sync.Once
	s.Subscribe(ports.EventListenerFunc(func(ev domain.Event) {
		if ev.Kind == domain.EventExit {
			once.Do(func() { restarted <- s.Start("echo again") })
		}
	}))

	require.NoError(t, s.Start("true"))

	select {
	case err := <-restarted:
		require.NoError(t, err, "state must be exited when the exit event is delivered")
	case <-time.After(10 * time.Second):
		t.Fatal("exit listener never ran")
	}
	waitExit(t, s)
}

func TestUnsubscribe(t *testing.T) {
	requireShell(t)
	s := NewSession()
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec)
	unsubscribe()

	require.NoError(t, s.Start("echo hi"))
	waitExit(t, s)

	assert.Empty(t, rec.snapshot())
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	s, rec := newRecordedSession(t)
	s.Subscribe(ports.EventListenerFunc(func(domain.Event) { panic("boom") }))

	require.NoError(t, s.Start("echo survived"))
	waitExit(t, s)

	assert.Contains(t, rec.output(), "survived")
	assert.Len(t, rec.exits(), 1)
}

func TestPTYMode(t *testing.T) {
	s, rec := newRecordedSession(t, WithPTY(true))

	require.NoError(t, s.Start("echo hello-from-pty"))
	exit := waitExit(t, s)

	assert.True(t, exit.Success())
	assert.Contains(t, rec.output(), "hello-from-pty")
}

func TestEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	s, rec := newRecordedSession(t, WithEnv("HONK_TEST_VALUE=quack"), WithDir(dir))

	require.NoError(t, s.Start(`echo "$HONK_TEST_VALUE"; pwd`))
	waitExit(t, s)

	assert.Contains(t, rec.output(), "quack")
	assert.Contains(t, rec.output(), filepath.Base(dir))
}

func TestWaitWithoutRun(t *testing.T) {
	s := NewSession()
	_, err := s.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotRunning)
}

func TestWaitHonoursContext(t *testing.T) {
	s, _ := newRecordedSession(t)
	require.NoError(t, s.Start("sleep 30"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
