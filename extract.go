package importkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"github.com/gobeaver/importkit/filevalidator"
	"github.com/gobeaver/importkit/progress"
)

const copyBufferSize = 32 * 1024

var copyBufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, copyBufferSize)
		return &b
	},
}

func getCopyBuffer() *[]byte  { return copyBufferPool.Get().(*[]byte) }
func putCopyBuffer(b *[]byte) { copyBufferPool.Put(b) }

// ExtractOptions configures one StreamExtract run.
type ExtractOptions struct {
	// StagingDir receives the data file and every non-media entry. It is
	// created if missing. Required.
	StagingDir string

	// MediaDestDir, when set, receives media entries directly (zero-copy).
	MediaDestDir string

	Format SourceFormat

	// Policy bounds the archive size and is applied to media files when
	// ValidateMedia is set.
	Policy Policy

	ValidateMedia bool

	// Progress is called after every non-directory entry. An error from it
	// aborts the run.
	Progress progress.Func

	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

// ExtractionResult describes a completed extraction.
type ExtractionResult struct {
	DataFilePath string `json:"data_file"`
	// MediaDirectory is empty when no media directory exists.
	MediaDirectory string         `json:"media_dir,omitempty"`
	TotalSize      int64          `json:"total_size"`
	FileCount      int            `json:"file_count"`
	Ignored        int            `json:"ignored"`
	Warnings       []string       `json:"warnings"`
	WarningCounts  map[string]int `json:"warning_categories"`
	// Rejections counts the same warnings keyed by category name
	// ("format", "size", ...).
	Rejections map[string]int `json:"rejections"`
}

func (r *ExtractionResult) warn(c filevalidator.FailureCategory, msg string) {
	r.Warnings = append(r.Warnings, msg)
	r.WarningCounts[c.Label()]++
	r.Rejections[c.String()]++
}

// StreamExtract extracts the archive one entry at a time.
//
// Integrity, the size ceiling and every entry name are checked before
// anything is written.
// Each entry's target is resolved and checked against its root before the
// entry is opened. Media entries go to opts.MediaDestDir when set, all
// other entries to opts.StagingDir. Rejected media files are deleted and
// recorded as warnings; every archive-level failure aborts the run with an
// *ExtractError.
//
// ctx is checked between entries, never in the middle of one.
func StreamExtract(ctx context.Context, archivePath string, opts ExtractOptions) (*ExtractionResult, error) {
	if opts.StagingDir == "" {
		return nil, &ExtractError{Op: "extract", Entry: archivePath, Err: fmt.Errorf("%w: staging directory is required", ErrInvalidArguments)}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("archive", archivePath).Str("format", opts.Format.String()).Logger()

	ignored, err := opts.Policy.ignoreMatcher()
	if err != nil {
		return nil, &ExtractError{Op: "extract", Entry: archivePath, Err: err}
	}

	zr, err := openArchive(archivePath)
	if err != nil {
		return nil, openError(archivePath, err)
	}
	defer zr.Close()

	res := &ExtractionResult{
		Warnings:      []string{},
		WarningCounts: map[string]int{},
		Rejections:    map[string]int{},
	}

	total := 0
	for _, f := range zr.File {
		res.TotalSize += int64(f.UncompressedSize64)
		if !isDirEntry(f) {
			total++
		}
	}

	if limit := opts.Policy.MaxBytes(); res.TotalSize > limit {
		return nil, &ExtractError{
			Op:    "extract",
			Entry: archivePath,
			Err:   fmt.Errorf("%w: %.1fMB (max: %dMB)", ErrArchiveTooLarge, mib(res.TotalSize), opts.Policy.maxSizeMB()),
		}
	}

	// The ceiling is checked first so an oversized archive is never
	// decompressed.
	if name, err := verifyIntegrity(&zr.Reader); err != nil {
		return nil, &ExtractError{Op: "verify", Entry: name, Err: err}
	}

	// Every name is vetted before the first write, so a hostile entry late in
	// the archive cannot leave earlier files in a final destination.
	if name, ok := firstUnsafeName(zr.File); ok {
		return nil, &ExtractError{Op: "extract", Entry: name, Err: ErrUnsafePath}
	}

	if err := os.MkdirAll(opts.StagingDir, 0o755); err != nil {
		return nil, &ExtractError{Op: "mkdir", Entry: opts.StagingDir, Err: err}
	}

	logger.Debug().Int("entries", total).Int64("total_size", res.TotalSize).Msg("extraction started")

	buf := getCopyBuffer()
	defer putCopyBuffer(buf)

	var extracted []string
	processed := 0

	for _, f := range zr.File {
		if isDirEntry(f) {
			continue
		}
		name := f.Name

		if err := ctx.Err(); err != nil {
			return nil, cancelled(name, err)
		}

		if ignored(name) {
			res.Ignored++
		} else {
			if err := extractEntry(ctx, f, opts, res, *buf, logger); err != nil {
				return nil, err
			}
			extracted = append(extracted, name)
		}

		processed++
		if err := opts.Progress.Report(processed, total); err != nil {
			return nil, cancelled(name, err)
		}
	}

	if total == 0 {
		if err := opts.Progress.Report(0, 0); err != nil {
			return nil, cancelled("", err)
		}
	}

	dataFile := opts.Format.locateDataFile(opts.StagingDir, extracted)
	if dataFile == "" {
		return nil, &ExtractError{Op: "extract", Entry: archivePath, Err: fmt.Errorf("%w: %s", ErrDataFileMissing, opts.Format.rule().dataFileDesc)}
	}
	if info, err := os.Stat(dataFile); err != nil || info.IsDir() {
		return nil, &ExtractError{Op: "extract", Entry: dataFile, Err: fmt.Errorf("%w: not present after extraction", ErrDataFileMissing)}
	}
	res.DataFilePath = dataFile
	res.MediaDirectory = resolveMediaDirectory(opts)

	logger.Info().
		Int("files", res.FileCount).
		Int("ignored", res.Ignored).
		Int("warnings", len(res.Warnings)).
		Int64("total_size", res.TotalSize).
		Msg("extraction completed")

	return res, nil
}

// extractEntry writes one file entry and, for media, validates it.
func extractEntry(ctx context.Context, f *zip.File, opts ExtractOptions, res *ExtractionResult, buf []byte, logger zerolog.Logger) error {
	name := f.Name
	isMedia := opts.Format.IsMedia(name)

	root, rel := opts.StagingDir, name
	if isMedia && opts.MediaDestDir != "" {
		root, rel = opts.MediaDestDir, opts.Format.mediaRelativePath(name)
	}

	target, err := ResolveTarget(root, rel)
	if err != nil {
		if IsUnsafePath(err) {
			return &ExtractError{Op: "extract", Entry: name, Err: ErrUnsafePath}
		}
		return &ExtractError{Op: "extract", Entry: name, Err: errors.Unwrap(err)}
	}

	if err := writeEntry(f, target, buf); err != nil {
		return &ExtractError{Op: "write", Entry: name, Err: err}
	}

	// Cancellation during the copy: the file is complete but not yet
	// accepted, so it must not stay behind.
	if err := ctx.Err(); err != nil {
		removeFile(target, logger)
		return cancelled(name, err)
	}

	res.FileCount++

	if !isMedia || !opts.ValidateMedia {
		return nil
	}

	p := opts.Policy
	out := filevalidator.ValidateMedia(target, p.maxSizeMB(), p.AllowedMimeTypes, p.AllowedExtensions)
	if out.Valid {
		return nil
	}

	msg := fmt.Sprintf("Media validation failed for %s: %s", name, out.Message)
	logger.Warn().
		Str("filename", name).
		Str("mime_type", out.DetectedMIME).
		Str("category", out.Category.String()).
		Msg(msg)
	res.warn(out.Category, msg)
	removeFile(target, logger)
	return nil
}

// writeEntry streams one entry to target through buf. A partially written
// file is removed on failure.
func writeEntry(f *zip.File, target string, buf []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(target)
		}
	}()

	for {
		nr, rerr := rc.Read(buf)
		if nr > 0 {
			if _, werr := out.Write(buf[:nr]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			if isZipFormatError(rerr) {
				return fmt.Errorf("%w: %v", ErrArchiveCorrupt, rerr)
			}
			return rerr
		}
	}
}

// firstUnsafeName returns the first entry, in archive order, whose name is
// lexically unsafe. Ignored and directory entries are included.
func firstUnsafeName(files []*zip.File) (string, bool) {
	for _, f := range files {
		if IsUnsafeName(f.Name) {
			return f.Name, true
		}
	}
	return "", false
}

func removeFile(path string, logger zerolog.Logger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error().Err(err).Str("path", path).Msg("failed to delete rejected file")
		return
	}
	logger.Debug().Str("path", path).Msg("deleted rejected file")
}

// resolveMediaDirectory applies the media directory convention: the
// zero-copy destination if it exists, else the format's staging media
// directory if it exists, else none.
func resolveMediaDirectory(opts ExtractOptions) string {
	if opts.MediaDestDir != "" && dirExists(opts.MediaDestDir) {
		return opts.MediaDestDir
	}
	if staged := opts.Format.stagingMediaDir(opts.StagingDir); dirExists(staged) {
		return staged
	}
	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func cancelled(entry string, cause error) error {
	return &ExtractError{Op: "extract", Entry: entry, Err: fmt.Errorf("%w: %w", ErrCancelled, cause)}
}
