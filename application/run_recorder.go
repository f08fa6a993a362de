package application

import (
	"context"
	"sync"
	"time"

	"honk/domain"
	"honk/logging"
	"honk/ports"

	"github.com/google/uuid"
)

// recordTimeout bounds each history write made from the event stream
const recordTimeout = 5 * time.Second

// pendingRun accumulates what happened to a run until it can be written
type pendingRun struct {
	bytes   int64
	dropped bool
	exit    *domain.ExitStatus
	started bool
}

// RunRecorder writes run history from session events. Output bytes are
// summed in memory and stored together with the exit status.
type RunRecorder struct {
	executionID string
	runs        ports.RunWriter

	mu      sync.Mutex
	pending map[string]*pendingRun
}

// Compile-time interface verification
var _ ports.EventListener = (*RunRecorder)(nil)

// NewRunRecorder creates a recorder for runs owned by executionID
func NewRunRecorder(runs ports.RunWriter, executionID string) *RunRecorder {
	return &RunRecorder{
		executionID: executionID,
		pending:     make(map[string]*pendingRun),
		runs:        runs,
	}
}

// Started records a freshly started run. Events of the run may already have
// been handled; they are written once the run row exists.
func (r *RunRecorder) Started(status domain.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := r.runs.StartRun(ctx, domain.Run{
		Command:     status.Command,
		ExecutionID: r.executionID,
		ID:          status.RunID,
		StartedAt:   status.StartedAt,
		State:       domain.StateRunning,
	})
	if err != nil {
		logging.Logger.Warn("Failed to record run start", "run_id", status.RunID, "error", err)
		if p := r.get(status.RunID); p.exit != nil {
			delete(r.pending, status.RunID)
		} else {
			p.dropped = true
		}
		return
	}

	p := r.get(status.RunID)
	p.started = true
	if p.exit != nil {
		r.flush(ctx, status.RunID, p)
	}
}

// Failed records a start attempt that never produced a process
func (r *RunRecorder) Failed(command string, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := r.runs.FailRun(ctx, domain.Run{
		Command:     command,
		ExecutionID: r.executionID,
		ID:          uuid.New().String(),
		Reason:      reason,
		StartedAt:   time.Now().UTC(),
		State:       domain.StateFailed,
	})
	if err != nil {
		logging.Logger.Warn("Failed to record failed run", "error", err)
	}
}

// HandleEvent accumulates output and writes the run's outcome on exit
func (r *RunRecorder) HandleEvent(ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.get(ev.RunID)
	if p.dropped {
		if ev.Kind == domain.EventExit {
			delete(r.pending, ev.RunID)
		}
		return
	}

	switch ev.Kind {
	case domain.EventOutput:
		p.bytes += int64(len(ev.Chunk))
	case domain.EventExit:
		exit := ev.Exit
		p.exit = &exit
		if p.started {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()
			r.flush(ctx, ev.RunID, p)
		}
	}
}

func (r *RunRecorder) get(runID string) *pendingRun {
	p, ok := r.pending[runID]
	if !ok {
		p = &pendingRun{}
		r.pending[runID] = p
	}
	return p
}

// flush writes the totals of a finished run. Caller holds r.mu.
func (r *RunRecorder) flush(ctx context.Context, runID string, p *pendingRun) {
	delete(r.pending, runID)

	if p.bytes > 0 {
		if err := r.runs.AddOutputBytes(ctx, runID, p.bytes); err != nil {
			logging.Logger.Warn("Failed to record output size", "run_id", runID, "error", err)
		}
	}
	if err := r.runs.FinishRun(ctx, runID, *p.exit); err != nil {
		logging.Logger.Warn("Failed to record run exit", "run_id", runID, "error", err)
		return
	}
	logging.Logger.Debug("Run recorded", "run_id", runID, "bytes", p.bytes, "exit", p.exit.String())
}
