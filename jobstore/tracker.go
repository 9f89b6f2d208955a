package jobstore

import (
	"context"

	"github.com/gobeaver/importkit/progress"
)

// Tracker adapts a stored job to progress.Tracker and progress.Committer.
// Setters change the in-memory record only; Commit writes the progress
// columns.
type Tracker struct {
	ctx   context.Context
	store *Store
	job   *ImportJob
}

var (
	_ progress.Tracker   = (*Tracker)(nil)
	_ progress.Committer = (*Tracker)(nil)
)

// Track returns a Tracker for job. ctx bounds every Commit.
func (s *Store) Track(ctx context.Context, job *ImportJob) *Tracker {
	return &Tracker{ctx: ctx, store: s, job: job}
}

// Sink is progress.Throttled over this tracker.
func (t *Tracker) Sink(opts progress.ThrottleOptions) progress.Func {
	return progress.Throttled(t, t, opts)
}

func (t *Tracker) Progress() int { return t.job.Progress }

func (t *Tracker) SetProgress(percent int) { t.job.Progress = percent }

func (t *Tracker) SetCounts(processed, total int) {
	t.job.ProcessedItems = processed
	t.job.TotalItems = total
}

// Commit persists progress and counts.
func (t *Tracker) Commit() error {
	return t.store.db.WithContext(t.ctx).
		Model(t.job).
		Select("progress", "processed_items", "total_items").
		Updates(t.job).Error
}
