package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"honk/domain"
	"honk/logging"
	"honk/ports"

	"github.com/creack/pty"
	"github.com/google/uuid"
)

// eventBuffer bounds how far readers may run ahead of listeners
const eventBuffer = 64

// Session owns the lifecycle of one external agent process at a time.
// Output from stdout and stderr is merged into a single ordered event stream
// delivered to subscribed listeners from one goroutine per run.
type Session struct {
	dir    string
	env    []string
	shell  string
	usePTY bool

	mu             sync.Mutex
	lastDispatched chan struct{}
	run            *run
	status         domain.Status

	listenersMu sync.RWMutex
	listeners   []listenerEntry
	nextID      int
}

type listenerEntry struct {
	id       int
	listener ports.EventListener
}

// Compile-time interface verification
var _ ports.AgentSession = (*Session)(nil)

// Option configures a Session
type Option func(*Session)

// WithShell sets the shell used to run commands (default /bin/sh, cmd on Windows)
func WithShell(shell string) Option {
	return func(s *Session) {
		if shell != "" {
			s.shell = shell
		}
	}
}

// WithDir sets the working directory of spawned processes
func WithDir(dir string) Option {
	return func(s *Session) {
		s.dir = dir
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment
func WithEnv(env ...string) Option {
	return func(s *Session) {
		s.env = append(s.env, env...)
	}
}

// WithPTY runs the agent on a pseudo-terminal instead of plain pipes.
// The terminal merges stdout and stderr and echoes input back as output.
func WithPTY(enabled bool) Option {
	return func(s *Session) {
		s.usePTY = enabled
	}
}

// NewSession creates a session in the NotStarted state
func NewSession(opts ...Option) *Session {
	done := make(chan struct{})
	close(done)

	s := &Session{
		shell:          defaultShell(),
		lastDispatched: done,
		status:         domain.Status{State: domain.StateNotStarted},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener for every subsequent event of every run
func (s *Session) Subscribe(l ports.EventListener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry{id: id, listener: l})

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Status returns a snapshot of the session state
func (s *Session) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	if st.Exit != nil {
		exit := *st.Exit
		st.Exit = &exit
	}
	return st
}

// Start spawns command through the shell. It fails with ErrAlreadyRunning while a
// run is live and with ErrSpawnFailed when the program cannot be started.
func (s *Session) Start(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State == domain.StateRunning {
		logging.Logger.Warn("Start requested while agent is running", "run_id", s.status.RunID)
		return domain.ErrAlreadyRunning
	}

	command = strings.TrimSpace(command)
	if command == "" {
		return s.failLocked(command, fmt.Errorf("command is empty"))
	}

	if err := resolveProgram(command, s.dir); err != nil {
		return s.failLocked(command, err)
	}

	cmd := exec.Command(s.shell, shellArgs(s.shell, command)...)
	cmd.Dir = s.dir
	cmd.Env = append(os.Environ(), s.env...)

	r := newRun(uuid.New().String(), cmd)

	logging.Logger.Info("Starting agent process",
		"run_id", r.id,
		"command", command,
		"shell", s.shell,
		"dir", s.dir,
		"pty", s.usePTY)

	var readers []io.Reader
	if s.usePTY {
		ptmx, err := pty.Start(cmd)
		if err != nil {
			return s.failLocked(command, err)
		}
		r.stdin = ptmx
		r.closer = ptmx
		readers = []io.Reader{ptmx}
	} else {
		setProcessGroup(cmd)

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return s.failLocked(command, err)
		}
		// One writer for both streams: the child shares a single pipe, so
		// stdout and stderr interleave in the order they were written
		out := outputWriter{r: r}
		cmd.Stdout = out
		cmd.Stderr = out
		cmd.WaitDelay = outputDrainDelay
		if err := cmd.Start(); err != nil {
			return s.failLocked(command, err)
		}
		r.stdin = stdin
	}

	prev := s.lastDispatched
	s.lastDispatched = r.dispatched
	s.run = r
	s.status = domain.Status{
		Command:   command,
		RunID:     r.id,
		StartedAt: time.Now().UTC(),
		State:     domain.StateRunning,
	}

	go s.pump(r, readers)
	go s.dispatch(r, prev)
	go r.writeLoop()

	logging.Logger.Info("Agent process started", "run_id", r.id, "pid", cmd.Process.Pid)
	return nil
}

// failLocked records a spawn failure. Caller holds s.mu.
func (s *Session) failLocked(command string, cause error) error {
	logging.Logger.Error("Failed to start agent process", "command", command, "error", cause)
	s.status = domain.Status{
		Command: command,
		Reason:  cause.Error(),
		State:   domain.StateFailed,
	}
	return fmt.Errorf("%w: %w", domain.ErrSpawnFailed, cause)
}

// Write queues text followed by a newline for the agent's input. It never
// waits for the agent to read; ErrInputFull reports an agent that stopped reading.
func (s *Session) Write(text string) error {
	s.mu.Lock()
	if s.status.State != domain.StateRunning {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	r := s.run
	s.mu.Unlock()

	if err := r.enqueue(text + "\n"); err != nil {
		logging.Logger.Warn("Write to agent failed", "run_id", r.id, "error", err)
		if errors.Is(err, errInputFull) {
			return fmt.Errorf("%w: %d lines waiting", domain.ErrInputFull, inputQueueSize)
		}
		return fmt.Errorf("%w: %w", domain.ErrBrokenPipe, err)
	}

	logging.Logger.Debug("Queued input for agent", "run_id", r.id, "bytes", len(text)+1)
	return nil
}

// Stop asks the running process to terminate. It is a no-op when nothing is
// running or a stop was already requested; the exit event confirms completion.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State != domain.StateRunning || s.run.stopping {
		return
	}
	s.run.stopping = true

	logging.Logger.Info("Stopping agent process", "run_id", s.run.id, "pid", s.run.cmd.Process.Pid)
	if err := terminate(s.run.cmd.Process); err != nil {
		logging.Logger.Warn("Failed to signal agent process", "run_id", s.run.id, "error", err)
	}
}

// Kill forcefully terminates the running process
func (s *Session) Kill() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State != domain.StateRunning {
		return
	}
	s.run.stopping = true

	logging.Logger.Warn("Killing agent process", "run_id", s.run.id, "pid", s.run.cmd.Process.Pid)
	if err := kill(s.run.cmd.Process); err != nil {
		logging.Logger.Warn("Failed to kill agent process", "run_id", s.run.id, "error", err)
	}
}

// Wait blocks until the current (or most recent) run has exited and all of its
// events were delivered. It returns ErrNotRunning if nothing was ever started.
func (s *Session) Wait(ctx context.Context) (domain.ExitStatus, error) {
	s.mu.Lock()
	r := s.run
	s.mu.Unlock()

	if r == nil {
		return domain.ExitStatus{}, domain.ErrNotRunning
	}

	select {
	case <-r.dispatched:
		return r.exit, nil
	case <-ctx.Done():
		return domain.ExitStatus{}, ctx.Err()
	}
}

// pump copies pty output into the run's event channel, waits for the process
// and emits the exit event last. Pipe output is copied by exec itself, which
// gives up on pipes held open by background children after outputDrainDelay.
func (s *Session) pump(r *run, readers []io.Reader) {
	readDone := make(chan error, 1)
	go func() {
		readDone <- r.readAll(readers)
	}()

	waitErr := r.cmd.Wait()
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		logging.Logger.Debug("Agent output held open after exit", "run_id", r.id)
	}
	exit := exitStatusOf(r.cmd.ProcessState, waitErr)

	if err := r.drain(readDone); err != nil {
		logging.Logger.Warn("Agent output stream error", "run_id", r.id, "error", err)
	}
	if r.closer != nil {
		r.closer.Close()
	}
	close(r.exited)
	r.seal()

	r.exit = exit
	s.mu.Lock()
	if s.run == r {
		s.status.State = domain.StateExited
		s.status.Exit = &exit
	}
	s.mu.Unlock()

	logging.Logger.Info("Agent process exited", "run_id", r.id, "exit", exit.String())

	r.events <- domain.ExitEvent(r.id, exit)
	close(r.events)
}

// dispatch delivers a run's events to listeners once the previous run's
// events have drained, so a restart never overtakes the previous exit event.
func (s *Session) dispatch(r *run, prev <-chan struct{}) {
	defer close(r.dispatched)
	<-prev

	for ev := range r.events {
		s.listenersMu.RLock()
		listeners := make([]ports.EventListener, len(s.listeners))
		for i, entry := range s.listeners {
			listeners[i] = entry.listener
		}
		s.listenersMu.RUnlock()

		for _, l := range listeners {
			deliver(l, ev)
		}
	}
}

// deliver isolates the session from a misbehaving listener
func deliver(l ports.EventListener, ev domain.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Logger.Error("Event listener panicked", "run_id", ev.RunID, "panic", fmt.Sprint(rec))
		}
	}()
	l.HandleEvent(ev)
}
