package domain

import "time"

// Run is the recorded history of one agent process lifetime
type Run struct {
	BytesOut    int64
	Command     string
	EndedAt     *time.Time
	ExecutionID string
	Exit        *ExitStatus
	ID          string
	Reason      string
	StartedAt   time.Time
	State       State
}

// Duration returns how long the run lasted, or has lasted so far
func (r Run) Duration(now time.Time) time.Duration {
	if r.EndedAt != nil {
		return r.EndedAt.Sub(r.StartedAt)
	}
	return now.Sub(r.StartedAt)
}
