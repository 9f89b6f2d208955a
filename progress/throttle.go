package progress

// Tracker is the job record progress is written to.
type Tracker interface {
	// Progress returns the current percentage.
	Progress() int
	SetProgress(percent int)
	SetCounts(processed, total int)
}

// Committer persists the tracker's state.
type Committer interface {
	Commit() error
}

// ThrottleOptions controls how Throttled maps and batches updates.
type ThrottleOptions struct {
	// Start and End bound the percentage range this phase occupies.
	Start int
	End   int

	// CommitInterval commits after this many processed items.
	CommitInterval int

	// PercentThreshold commits after the percentage moved this much.
	PercentThreshold int
}

// DefaultThrottleOptions maps extraction onto 0-90%, leaving the rest for
// the import that follows.
func DefaultThrottleOptions() ThrottleOptions {
	return ThrottleOptions{
		Start:            0,
		End:              90,
		CommitInterval:   10,
		PercentThreshold: 5,
	}
}

// Throttled returns a sink that records every update on job but commits
// only every CommitInterval items, on a PercentThreshold move, or on
// completion. Job progress never decreases and never leaves [Start, End].
// With a zero total it commits once until a non-zero total arrives.
func Throttled(job Tracker, committer Committer, opts ThrottleOptions) Func {
	if opts.End < opts.Start {
		opts.End = opts.Start
	}
	span := opts.End - opts.Start

	lastItems := 0
	lastPercent := opts.Start
	zeroCommitted := false

	current := func() int {
		if p := job.Progress(); p > 0 {
			return p
		}
		return opts.Start
	}

	return func(processed, total int) error {
		job.SetCounts(processed, total)

		if total <= 0 {
			if zeroCommitted {
				return nil
			}
			if job.Progress() < opts.Start {
				job.SetProgress(opts.Start)
			}
			zeroCommitted = true
			return committer.Commit()
		}
		zeroCommitted = false

		calculated := opts.Start + processed*span/total
		next := max(min(calculated, opts.End), current())
		job.SetProgress(next)

		if processed-lastItems >= opts.CommitInterval ||
			next-lastPercent >= opts.PercentThreshold ||
			processed == total {
			if err := committer.Commit(); err != nil {
				return err
			}
			lastItems = processed
			lastPercent = next
		}
		return nil
	}
}
