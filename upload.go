package importkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// uploadChunkSize is the read size when spooling an upload to disk.
const uploadChunkSize = 1024 * 1024

// SaveUpload spools an uploaded archive into dir and validates its
// structure. The file is stored as "<uuid>_<sanitized filename>" and its
// path returned.
//
// The upload is aborted with ErrArchiveTooLarge as soon as more than the
// policy ceiling has been read. An archive that fails ValidateArchive is
// removed and reported as ErrInvalidArchive listing the validation errors.
// No file is left behind on any error.
func SaveUpload(ctx context.Context, r io.Reader, filename, dir string, format SourceFormat, policy Policy) (string, error) {
	if filename == "" || !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return "", &ExtractError{Op: "upload", Entry: filename, Err: fmt.Errorf("%w: file must be a ZIP archive", ErrInvalidArguments)}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ExtractError{Op: "upload", Entry: dir, Err: err}
	}

	target := filepath.Join(dir, uuid.NewString()+"_"+SanitizeFilename(filename))

	if _, err := spool(ctx, r, target, policy.MaxBytes()); err != nil {
		_ = os.Remove(target)
		if errors.Is(err, ErrArchiveTooLarge) {
			return "", &ExtractError{Op: "upload", Entry: filename, Err: fmt.Errorf("%w: maximum size: %dMB", ErrArchiveTooLarge, policy.maxSizeMB())}
		}
		return "", &ExtractError{Op: "upload", Entry: filename, Err: err}
	}

	res := ValidateArchive(target, format)
	if !res.Valid {
		_ = os.Remove(target)
		return "", &ExtractError{
			Op:    "upload",
			Entry: filename,
			Err:   fmt.Errorf("%w: %s", ErrInvalidArchive, strings.Join(res.Errors, ", ")),
		}
	}

	return target, nil
}

// spool copies r to path in uploadChunkSize reads, failing once more than
// limit bytes have arrived. ctx is checked between chunks.
func spool(ctx context.Context, r io.Reader, path string, limit int64) (written int64, err error) {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	buf := make([]byte, uploadChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		n, rerr := io.ReadFull(r, buf)
		if n > 0 {
			written += int64(n)
			if written > limit {
				return written, ErrArchiveTooLarge
			}
			if _, werr := out.Write(buf[:n]); werr != nil {
				return written, werr
			}
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
