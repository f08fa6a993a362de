package ports

import (
	"context"

	"honk/domain"
)

// RunReader reads recorded runs
type RunReader interface {
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

// RunWriter records the lifecycle of runs
type RunWriter interface {
	AddOutputBytes(ctx context.Context, id string, n int64) error
	FailRun(ctx context.Context, run domain.Run) error
	FinishRun(ctx context.Context, id string, exit domain.ExitStatus) error
	StartRun(ctx context.Context, run domain.Run) error
}

// RunRepository is the composite interface
type RunRepository interface {
	RunReader
	RunWriter
	Close() error
}
