package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"honk/domain"
	"honk/logging"
	"honk/ports"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// maxRetries bounds retries on SQLITE_BUSY / SQLITE_LOCKED
const maxRetries = 3

// gormLogger wraps the honk logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

// LogMode sets the log level
func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

// Info logs info messages
func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

// Warn logs warn messages
func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

// Error logs error messages
func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL queries, only in debug mode
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	case elapsed > 200*time.Millisecond:
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	default:
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

// newGormLogger creates a GORM logger that respects honk's debug settings
func newGormLogger() logger.Interface {
	// HONK_DEBUG is exported by cmd/root.go when --debug is used
	if os.Getenv("HONK_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// Store records run history in SQLite
type Store struct {
	db *gorm.DB
}

// Compile-time interface verification
var _ ports.RunRepository = (*Store)(nil)

// NewStore opens (and migrates) the database at dbPath with WAL mode enabled
func NewStore(dbPath string) (*Store, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false, // Avoid transaction conflicts
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets the SSH server and CLI invocations read while a run is recorded
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&Run{}); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return nil, fmt.Errorf("failed to migrate Run schema: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	logging.Logger.Debug("Run history opened", "path", dbPath)
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartRun inserts a run in the running state
func (s *Store) StartRun(ctx context.Context, run domain.Run) error {
	row := runFromDomain(run)
	row.State = string(domain.StateRunning)

	return withRetry(func() error {
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to record run start: %w", err)
		}
		return nil
	}, maxRetries)
}

// FinishRun marks a run exited with its exit status
func (s *Store) FinishRun(ctx context.Context, id string, exit domain.ExitStatus) error {
	now := time.Now().UTC()
	var row Run
	applyExit(&row, &exit)

	return withRetry(func() error {
		result := s.db.WithContext(ctx).Model(&Run{}).Where("id = ?", id).Updates(map[string]interface{}{
			"state":     string(domain.StateExited),
			"exit_code": row.ExitCode,
			"signaled":  row.Signaled,
			"signal":    row.Signal,
			"ended_at":  now,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to record run exit: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
		}
		return nil
	}, maxRetries)
}

// FailRun records a run that never got a process
func (s *Store) FailRun(ctx context.Context, run domain.Run) error {
	now := time.Now().UTC()
	row := runFromDomain(run)
	row.State = string(domain.StateFailed)
	row.EndedAt = &now

	return withRetry(func() error {
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to record failed run: %w", err)
		}
		return nil
	}, maxRetries)
}

// AddOutputBytes increments the output byte counter of a run
func (s *Store) AddOutputBytes(ctx context.Context, id string, n int64) error {
	return withRetry(func() error {
		result := s.db.WithContext(ctx).Model(&Run{}).Where("id = ?", id).
			UpdateColumn("bytes_out", gorm.Expr("bytes_out + ?", n))
		if result.Error != nil {
			return fmt.Errorf("failed to update output bytes: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
		}
		return nil
	}, maxRetries)
}

// GetRun loads a run by id
func (s *Store) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	var row Run
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	}, maxRetries)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	run := runToDomain(row)
	return &run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	var rows []Run
	err := withRetry(func() error {
		query := s.db.WithContext(ctx).Order("started_at DESC, id ASC")
		if limit > 0 {
			query = query.Limit(limit)
		}
		return query.Find(&rows).Error
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]domain.Run, len(rows))
	for i, row := range rows {
		runs[i] = runToDomain(row)
	}
	return runs, nil
}

// withRetry retries fn while SQLite reports the database busy or locked
func withRetry(fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}
