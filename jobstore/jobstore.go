// Package jobstore persists import jobs with GORM so extraction progress
// survives the process that produced it.
package jobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gobeaver/importkit"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when no job has the requested ID.
var ErrNotFound = errors.New("jobstore: job not found")

// Status is the lifecycle state of an import job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// ImportJob is one archive import.
type ImportJob struct {
	ID             string   `json:"id" gorm:"type:uuid;primaryKey"`
	SourceFormat   string   `json:"source_format" gorm:"type:varchar(32);not null"`
	ArchivePath    string   `json:"archive_path" gorm:"type:text"`
	Status         Status   `json:"status" gorm:"type:varchar(32);not null;default:'pending';index"`
	Progress       int      `json:"progress" gorm:"not null;default:0"`
	ProcessedItems int      `json:"processed_items" gorm:"not null;default:0"`
	TotalItems     int      `json:"total_items" gorm:"not null;default:0"`
	Warnings       []string `json:"warnings" gorm:"serializer:json"`
	Error          string   `json:"error,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Store reads and writes ImportJob records.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) a sqlite job database at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open job database: %w", err)
	}
	return New(db, logger)
}

// New wraps an existing connection and migrates the job table.
func New(db *gorm.DB, logger zerolog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&ImportJob{}); err != nil {
		return nil, fmt.Errorf("migrate job table: %w", err)
	}
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "jobstore").Logger(),
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create records a new pending job.
func (s *Store) Create(ctx context.Context, sourceFormat, archivePath string) (*ImportJob, error) {
	job := &ImportJob{
		ID:           uuid.New().String(),
		SourceFormat: sourceFormat,
		ArchivePath:  archivePath,
		Status:       StatusPending,
		Warnings:     []string{},
	}
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	s.logger.Info().Str("job_id", job.ID).Str("archive", archivePath).Msg("import job created")
	return job, nil
}

// Get loads a job by ID.
func (s *Store) Get(ctx context.Context, id string) (*ImportJob, error) {
	job := &ImportJob{}
	if err := s.db.WithContext(ctx).First(job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return job, nil
}

// List returns all jobs, newest first.
func (s *Store) List(ctx context.Context) ([]*ImportJob, error) {
	var jobs []*ImportJob
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Start marks job as running.
func (s *Store) Start(ctx context.Context, job *ImportJob) error {
	now := time.Now()
	job.Status = StatusRunning
	job.StartedAt = &now
	return s.save(ctx, job)
}

// Finish records the outcome of a run. A nil runErr completes the job at
// 100%; an error wrapping importkit.ErrCancelled marks it cancelled.
func (s *Store) Finish(ctx context.Context, job *ImportJob, warnings []string, runErr error) error {
	now := time.Now()
	job.CompletedAt = &now
	if warnings != nil {
		job.Warnings = warnings
	}

	switch {
	case runErr == nil:
		job.Status = StatusCompleted
		job.Progress = 100
	case errors.Is(runErr, importkit.ErrCancelled):
		job.Status = StatusCancelled
		job.Error = runErr.Error()
	default:
		job.Status = StatusFailed
		job.Error = runErr.Error()
	}

	if err := s.save(ctx, job); err != nil {
		return err
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("status", string(job.Status)).
		Int("warnings", len(job.Warnings)).
		Msg("import job finished")
	return nil
}

// RecoverStale marks jobs left running by a previous process as failed and
// returns how many were changed.
func (s *Store) RecoverStale(ctx context.Context) (int, error) {
	var stale []*ImportJob
	if err := s.db.WithContext(ctx).Where("status = ?", StatusRunning).Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("find stale jobs: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	s.logger.Warn().Int("count", len(stale)).Msg("found stale import jobs from previous run")

	recovered := 0
	now := time.Now()
	for _, job := range stale {
		job.Status = StatusFailed
		job.Error = "import interrupted before completion"
		job.CompletedAt = &now
		if err := s.save(ctx, job); err != nil {
			s.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to mark stale job as failed")
			continue
		}
		recovered++
	}
	return recovered, nil
}

// Delete removes a job that is not running.
func (s *Store) Delete(ctx context.Context, id string) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == StatusRunning {
		return fmt.Errorf("cannot delete running job %s", id)
	}
	return s.db.WithContext(ctx).Delete(&ImportJob{}, "id = ?", id).Error
}

func (s *Store) save(ctx context.Context, job *ImportJob) error {
	return s.db.WithContext(ctx).Save(job).Error
}
