package storage

import (
	"time"
)

// Run is one agent process lifetime
type Run struct {
	BytesOut    int64      `gorm:"not null;default:0"`
	Command     string     `gorm:"not null"`
	CreatedAt   time.Time
	EndedAt     *time.Time `gorm:"default:null"`
	ExecutionID string     `gorm:"not null;index:idx_runs_execution_id"`
	ExitCode    *int       `gorm:"default:null"`
	ID          string     `gorm:"primaryKey"`
	Reason      string     `gorm:"not null;default:''"`
	Signal      string     `gorm:"not null;default:''"`
	Signaled    bool       `gorm:"not null;default:false"`
	StartedAt   time.Time  `gorm:"not null;index:idx_runs_started_at"`
	State       string     `gorm:"not null;default:'running';check:state IN ('running','exited','failed')"`
	UpdatedAt   time.Time
}
