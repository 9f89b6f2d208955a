// Package progress holds the progress-sink types the extractor reports to
// and the collaborator-side wrappers that persist progress to a job record.
package progress

import "errors"

// ErrInterrupted is returned by a sink wrapped with WithInterrupt once the
// caller has asked for the run to stop.
var ErrInterrupted = errors.New("progress: interrupted")

// Func receives (processed, total) after each unit of work. Returning a
// non-nil error asks the producer to stop.
type Func func(processed, total int) error

// Report calls f if it is non-nil.
func (f Func) Report(processed, total int) error {
	if f == nil {
		return nil
	}
	return f(processed, total)
}

// Monotonic wraps f so the processed values it sees never decrease. A
// regressing update is forwarded with the previous high-water mark.
func Monotonic(f Func) Func {
	last := 0
	return func(processed, total int) error {
		if processed < last {
			processed = last
		}
		last = processed
		return f.Report(processed, total)
	}
}

// WithInterrupt checks interrupted before forwarding each update and
// returns ErrInterrupted as soon as it reports true.
func WithInterrupt(f Func, interrupted func() bool) Func {
	return func(processed, total int) error {
		if interrupted != nil && interrupted() {
			return ErrInterrupted
		}
		return f.Report(processed, total)
	}
}

// Chain forwards each update to every sink in order and stops at the first
// error.
func Chain(sinks ...Func) Func {
	return func(processed, total int) error {
		for _, s := range sinks {
			if err := s.Report(processed, total); err != nil {
				return err
			}
		}
		return nil
	}
}
