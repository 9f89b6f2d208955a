package importkit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// ArchiveValidationResult is the outcome of a table-of-contents inspection.
// FileCount and TotalUncompressedSize are filled in whenever the archive
// could be read, even if Valid is false.
type ArchiveValidationResult struct {
	Valid                 bool     `json:"valid"`
	HasDataFile           bool     `json:"has_data_file"`
	HasMedia              bool     `json:"has_media"`
	FileCount             int      `json:"file_count"`
	TotalUncompressedSize int64    `json:"total_size"`
	Errors                []string `json:"errors"`
}

func (r *ArchiveValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ArchiveEntry is a read-only view of one central directory record.
type ArchiveEntry struct {
	DeclaredPath     string `json:"path"`
	IsDir            bool   `json:"is_dir"`
	UncompressedSize int64  `json:"size"`
}

// ValidateArchive inspects the archive at path without extracting it. No
// size ceiling is applied. It never returns an error: every problem,
// including I/O failures, is reported in Errors.
func ValidateArchive(path string, format SourceFormat) ArchiveValidationResult {
	return validateArchive(path, format, 0)
}

// ValidateArchiveWithPolicy is ValidateArchive that additionally flags an
// archive whose total uncompressed size exceeds the policy ceiling.
func ValidateArchiveWithPolicy(path string, format SourceFormat, policy Policy) ArchiveValidationResult {
	return validateArchive(path, format, policy.MaxBytes())
}

func validateArchive(path string, format SourceFormat, maxBytes int64) ArchiveValidationResult {
	res := ArchiveValidationResult{Valid: true, Errors: []string{}}

	zr, err := openArchive(path)
	if err != nil {
		if isZipFormatError(err) {
			res.fail("invalid archive: %v", err)
		} else {
			res.fail("file system error: %v", err)
		}
		return res
	}
	defer zr.Close()

	if name, err := verifyIntegrity(&zr.Reader); err != nil {
		if errors.Is(err, ErrArchiveCorrupt) {
			res.fail("corrupted file in archive: %s", name)
		} else {
			res.fail("file system error: %v", err)
		}
		return res
	}

	entries := listEntries(&zr.Reader)
	var names []string
	for _, e := range entries {
		res.TotalUncompressedSize += e.UncompressedSize
		if e.IsDir {
			continue
		}
		res.FileCount++
		names = append(names, e.DeclaredPath)
		if format.IsMedia(e.DeclaredPath) {
			res.HasMedia = true
		}
	}

	if maxBytes > 0 && res.TotalUncompressedSize > maxBytes {
		res.fail("archive too large: %.1fMB (max: %dMB)", mib(res.TotalUncompressedSize), maxBytes/(1024*1024))
	}

	if _, ok := format.findDataFile(names); ok {
		res.HasDataFile = true
	} else {
		res.fail("missing %s", format.rule().dataFileDesc)
	}

	for _, e := range entries {
		if IsUnsafeName(e.DeclaredPath) {
			res.fail("unsafe path in archive: %s", e.DeclaredPath)
		}
	}

	return res
}

// ListEntries returns the central directory of the archive at path in
// archive order.
func ListEntries(path string) ([]ArchiveEntry, error) {
	zr, err := openArchive(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer zr.Close()

	return listEntries(&zr.Reader), nil
}

// openArchive opens a zip for reading. The reader reports non-local entry
// names as an error alongside a usable reader; names are checked per entry
// by this package instead.
func openArchive(path string) (*zip.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil && zr == nil {
		return nil, err
	}
	return zr, nil
}

func listEntries(r *zip.Reader) []ArchiveEntry {
	entries := make([]ArchiveEntry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, ArchiveEntry{
			DeclaredPath:     f.Name,
			IsDir:            isDirEntry(f),
			UncompressedSize: int64(f.UncompressedSize64),
		})
	}
	return entries
}

func isDirEntry(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
}

// verifyIntegrity decompresses every member to io.Discard so the reader
// checks its CRC-32 and declared size. It returns the first member that
// fails, with an error wrapping ErrArchiveCorrupt.
func verifyIntegrity(r *zip.Reader) (string, error) {
	buf := getCopyBuffer()
	defer putCopyBuffer(buf)

	for _, f := range r.File {
		if isDirEntry(f) {
			continue
		}
		if err := drain(f, *buf); err != nil {
			if isZipFormatError(err) || errors.Is(err, io.ErrUnexpectedEOF) {
				return f.Name, fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
			}
			return f.Name, err
		}
	}
	return "", nil
}

func drain(f *zip.File, buf []byte) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.CopyBuffer(struct{ io.Writer }{io.Discard}, struct{ io.Reader }{rc}, buf)
	return err
}

// isZipFormatError reports errors the zip reader raises for malformed or
// tampered data, including decompressor failures.
func isZipFormatError(err error) bool {
	if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrAlgorithm) {
		return true
	}
	var corrupt flate.CorruptInputError
	return errors.As(err, &corrupt)
}

func openError(path string, err error) error {
	if isZipFormatError(err) {
		return &ExtractError{Op: "open", Entry: path, Err: fmt.Errorf("%w: %v", ErrInvalidArchive, err)}
	}
	return &ExtractError{Op: "open", Entry: path, Err: err}
}

func mib(n int64) float64 {
	return float64(n) / (1024 * 1024)
}
