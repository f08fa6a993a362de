package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"honk/domain"
	"honk/logging"
	"honk/ports"
	"honk/prompt"
	"honk/relay"
	"honk/workspace"

	"github.com/google/uuid"
)

// AgentService owns the agent session for the lifetime of the application and
// exposes it to UI surfaces through a relay
type AgentService struct {
	executionID string
	options     AgentOptions
	recorder    *RunRecorder
	relay       *relay.Relay
	session     ports.AgentSession
	tracker     *workspace.Tracker
	unsubscribe func()

	mu            sync.Mutex
	pendingPrompt *scheduledPrompt
}

// scheduledPrompt is an orientation prompt waiting for the startup delay.
// done is closed once it was sent or dropped.
type scheduledPrompt struct {
	done  chan struct{}
	runID string
	timer *time.Timer
}

// cancel stops the timer, reporting whether the prompt had not fired yet
func (p *scheduledPrompt) cancel() bool {
	if p.timer.Stop() {
		close(p.done)
		return true
	}
	return false
}

// NewAgentService creates the service. runs may be nil to disable run history.
func NewAgentService(
	session ports.AgentSession,
	runs ports.RunWriter,
	tracker *workspace.Tracker,
	options AgentOptions,
) *AgentService {
	if tracker == nil {
		tracker = workspace.NewTracker("")
	}

	s := &AgentService{
		executionID: uuid.New().String(),
		options:     options.withDefaults(),
		relay:       relay.New(session),
		session:     session,
		tracker:     tracker,
		unsubscribe: func() {},
	}

	if runs != nil {
		s.recorder = NewRunRecorder(runs, s.executionID)
		s.unsubscribe = session.Subscribe(s.recorder)
	}

	logging.Logger.Info("Agent service created", "execution_id", s.executionID, "command", s.options.Command)
	return s
}

// ExecutionID identifies this application run in the history
func (s *AgentService) ExecutionID() string {
	return s.executionID
}

// Relay returns the channel UI surfaces attach to
func (s *AgentService) Relay() *relay.Relay {
	return s.relay
}

// Tracker returns the context file tracker
func (s *AgentService) Tracker() *workspace.Tracker {
	return s.tracker
}

// Status returns the agent session state
func (s *AgentService) Status() domain.Status {
	return s.session.Status()
}

// Open starts the agent unless it is already running. Once the startup delay
// elapses a blank line and the orientation prompt are sent.
func (s *AgentService) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Status().State == domain.StateRunning {
		logging.Logger.Debug("Agent already running, nothing to open")
		return nil
	}

	command := s.options.Command
	if err := s.session.Start(command); err != nil {
		if s.recorder != nil && errors.Is(err, domain.ErrSpawnFailed) {
			s.recorder.Failed(command, s.session.Status().Reason)
		}
		return err
	}

	status := s.session.Status()
	if s.recorder != nil {
		s.recorder.Started(status)
	}

	if err := s.tracker.Ensure(); err != nil {
		logging.Logger.Warn("Failed to prepare context files", "error", err)
	}

	if s.options.InitialPrompt {
		s.schedulePromptLocked(ctx, status.RunID)
	}

	logging.Logger.Info("Agent opened", "run_id", status.RunID, "command", command)
	return nil
}

// schedulePromptLocked arms the orientation prompt for runID. Caller holds s.mu.
func (s *AgentService) schedulePromptLocked(ctx context.Context, runID string) {
	if s.pendingPrompt != nil {
		s.pendingPrompt.cancel()
	}
	p := &scheduledPrompt{done: make(chan struct{}), runID: runID}
	p.timer = time.AfterFunc(s.options.StartupDelay, func() {
		defer close(p.done)
		if ctx.Err() != nil {
			return
		}
		s.sendInitialPrompt(runID)
	})
	s.pendingPrompt = p
}

// FlushPrompt sends a pending orientation prompt now instead of after the
// startup delay, or waits for one already being sent. Text submitted after
// FlushPrompt returns reaches the agent after the prompt.
func (s *AgentService) FlushPrompt() {
	s.mu.Lock()
	p := s.pendingPrompt
	s.pendingPrompt = nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	if !p.timer.Stop() {
		<-p.done
		return
	}
	defer close(p.done)
	s.sendInitialPrompt(p.runID)
}

func (s *AgentService) sendInitialPrompt(runID string) {
	st := s.session.Status()
	if st.State != domain.StateRunning || st.RunID != runID {
		logging.Logger.Debug("Skipping initial prompt, run is gone", "run_id", runID)
		return
	}

	if err := s.session.Write(""); err != nil {
		logging.Logger.Warn("Failed to wake agent", "run_id", runID, "error", err)
		return
	}

	text := prompt.Initial(s.tracker.OpenFilesPath(), s.tracker.UnsavedFilesPath())
	if err := s.relay.Submit(text); err != nil {
		logging.Logger.Warn("Failed to send initial prompt", "run_id", runID, "error", err)
		return
	}
	logging.Logger.Info("Initial prompt sent", "run_id", runID)
}

// cancelPrompt drops a pending orientation prompt
func (s *AgentService) cancelPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingPrompt != nil {
		s.pendingPrompt.cancel()
		s.pendingPrompt = nil
	}
}

// Submit sends text typed by the user
func (s *AgentService) Submit(text string) error {
	return s.relay.Submit(text)
}

// Ask sends a question, inlining the selection when it spans several lines
func (s *AgentService) Ask(question string, sel *prompt.Selection) error {
	text, err := prompt.Question(question, sel)
	if err != nil {
		return err
	}
	return s.relay.Submit(text)
}

// Stop asks the agent process to terminate
func (s *AgentService) Stop() {
	s.cancelPrompt()
	s.session.Stop()
}

// Close asks the agent to exit with the exit command, stops it once the
// grace period runs out and waits for it to go away. Nothing happens when the
// agent is not running.
func (s *AgentService) Close(ctx context.Context) (CloseResult, error) {
	s.cancelPrompt()

	if s.session.Status().State != domain.StateRunning {
		return CloseResult{}, nil
	}

	if err := s.session.Write(s.options.ExitCommand); err != nil {
		logging.Logger.Debug("Exit command not delivered", "error", err)
	}

	graceCtx, cancel := context.WithTimeout(ctx, s.options.StopGrace)
	exit, err := s.session.Wait(graceCtx)
	cancel()
	if err == nil {
		logging.Logger.Info("Agent exited", "exit", exit.String())
		return CloseResult{Exit: exit}, nil
	}
	if ctx.Err() != nil {
		s.session.Kill()
		return CloseResult{Forced: true}, ctx.Err()
	}

	logging.Logger.Info("Agent ignored exit command, stopping it", "grace", s.options.StopGrace)
	s.session.Stop()

	exit, err = s.session.Wait(ctx)
	if err != nil {
		s.session.Kill()
		return CloseResult{Forced: true}, err
	}
	return CloseResult{Exit: exit, Forced: true}, nil
}

// Shutdown releases the relay and the history recorder. The session must
// already be closed.
func (s *AgentService) Shutdown() {
	s.cancelPrompt()
	s.relay.Close()
	s.unsubscribe()
}

// Wait blocks until the current run has exited and its events were delivered
func (s *AgentService) Wait(ctx context.Context) (domain.ExitStatus, error) {
	return s.session.Wait(ctx)
}
