package storage

import (
	"honk/domain"
)

// runToDomain converts a stored row to domain.Run
func runToDomain(r Run) domain.Run {
	run := domain.Run{
		BytesOut:    r.BytesOut,
		Command:     r.Command,
		EndedAt:     r.EndedAt,
		ExecutionID: r.ExecutionID,
		ID:          r.ID,
		Reason:      r.Reason,
		StartedAt:   r.StartedAt,
		State:       domain.State(r.State),
	}

	if r.Signaled {
		run.Exit = &domain.ExitStatus{Signaled: true, Signal: r.Signal}
	} else if r.ExitCode != nil {
		run.Exit = &domain.ExitStatus{Code: *r.ExitCode}
	}

	return run
}

// runFromDomain converts domain.Run to a row. Times are stored in UTC so
// started_at orders correctly whatever zone the caller used.
func runFromDomain(run domain.Run) Run {
	r := Run{
		BytesOut:    run.BytesOut,
		Command:     run.Command,
		ExecutionID: run.ExecutionID,
		ID:          run.ID,
		Reason:      run.Reason,
		StartedAt:   run.StartedAt.UTC(),
		State:       string(run.State),
	}
	if run.EndedAt != nil {
		ended := run.EndedAt.UTC()
		r.EndedAt = &ended
	}
	applyExit(&r, run.Exit)
	return r
}

func applyExit(r *Run, exit *domain.ExitStatus) {
	if exit == nil {
		return
	}
	if exit.Signaled {
		r.Signaled = true
		r.Signal = exit.Signal
		r.ExitCode = nil
		return
	}
	code := exit.Code
	r.ExitCode = &code
}
