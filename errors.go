package importkit

import (
	"errors"
	"fmt"
)

// Archive-level failures. All of them abort an extraction run.
var (
	ErrArchiveCorrupt   = errors.New("archive is corrupted")
	ErrArchiveTooLarge  = errors.New("archive too large")
	ErrUnsafePath       = errors.New("unsafe path")
	ErrDataFileMissing  = errors.New("data file missing")
	ErrInvalidArchive   = errors.New("invalid archive")
	ErrCancelled        = errors.New("extraction cancelled")
	ErrUnknownFormat    = errors.New("unknown source format")
	ErrNotSupported     = errors.New("operation not supported")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrPreflightFailed  = errors.New("preflight check failed")
)

// ExtractError records an archive-level failure together with the operation
// and the archive entry (or archive path) that caused it.
type ExtractError struct {
	Op    string
	Entry string
	Err   error
}

// Error implements the error interface
func (e *ExtractError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entry, e.Err)
}

// Unwrap returns the underlying error
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// IsUnsafePath reports whether err was caused by an entry escaping its root.
func IsUnsafePath(err error) bool {
	return errors.Is(err, ErrUnsafePath)
}

// IsArchiveTooLarge reports whether err was caused by the size ceiling.
func IsArchiveTooLarge(err error) bool {
	return errors.Is(err, ErrArchiveTooLarge)
}

// IsArchiveCorrupt reports whether err was caused by a failed integrity check.
func IsArchiveCorrupt(err error) bool {
	return errors.Is(err, ErrArchiveCorrupt)
}

// IsDataFileMissing reports whether the structured-data member was absent.
func IsDataFileMissing(err error) bool {
	return errors.Is(err, ErrDataFileMissing)
}

// FailureKind returns a short stable label for an archive-level error, or
// "internal" for anything outside the taxonomy. Used for metrics and logs.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrArchiveCorrupt):
		return "corrupt"
	case errors.Is(err, ErrArchiveTooLarge):
		return "too_large"
	case errors.Is(err, ErrUnsafePath):
		return "unsafe_path"
	case errors.Is(err, ErrDataFileMissing):
		return "data_file_missing"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrInvalidArchive):
		return "invalid"
	case errors.Is(err, ErrPreflightFailed):
		return "preflight"
	default:
		return "internal"
	}
}
