package importkit

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSpaceMultiplier covers the extracted files plus room for the
// database and media processing that follow an import.
const DefaultSpaceMultiplier = 2.5

// PreflightCheck is the outcome of one pre-flight check.
type PreflightCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// PreflightResult collects the checks run before an extraction.
type PreflightResult struct {
	Archive          string           `json:"archive"`
	Passed           bool             `json:"passed"`
	UncompressedSize int64            `json:"uncompressed_size"`
	RequiredBytes    int64            `json:"required_bytes"`
	Checks           []PreflightCheck `json:"checks"`
}

func (r *PreflightResult) add(name string, passed bool, format string, args ...any) {
	r.Checks = append(r.Checks, PreflightCheck{Name: name, Passed: passed, Message: fmt.Sprintf(format, args...)})
	if !passed {
		r.Passed = false
	}
}

// Err returns nil when every check passed, otherwise an *ExtractError
// wrapping ErrPreflightFailed with the failed checks' messages.
func (r PreflightResult) Err() error {
	if r.Passed {
		return nil
	}
	var failed []string
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c.Message)
		}
	}
	return &ExtractError{Op: "preflight", Entry: r.Archive, Err: fmt.Errorf("%w: %s", ErrPreflightFailed, strings.Join(failed, "; "))}
}

// diskFree reports the bytes available to an unprivileged user on the
// filesystem holding path.
var diskFree = freeSpace

// Preflight checks that an extraction of archivePath with opts can
// complete: every destination root must have Policy.SpaceMultiplier times
// the uncompressed archive size free, and must be writable. Missing roots
// are created by the write check, as extraction would.
func Preflight(archivePath string, opts ExtractOptions) PreflightResult {
	res := PreflightResult{Archive: archivePath, Passed: true}

	roots := preflightRoots(opts)
	if len(roots) == 0 {
		res.add("write access", false, "staging directory is required")
		return res
	}

	zr, err := openArchive(archivePath)
	if err != nil {
		res.add("disk space", false, "could not read archive: %v", err)
	} else {
		for _, f := range zr.File {
			res.UncompressedSize += int64(f.UncompressedSize64)
		}
		zr.Close()

		required := float64(res.UncompressedSize) * opts.Policy.spaceMultiplier()
		if required > math.MaxInt64 {
			res.RequiredBytes = math.MaxInt64
		} else {
			res.RequiredBytes = int64(required)
		}
		for _, root := range roots {
			checkDiskSpace(&res, root)
		}
	}

	for _, root := range roots {
		checkWritable(&res, root)
	}
	return res
}

func preflightRoots(opts ExtractOptions) []string {
	var roots []string
	for _, r := range []string{opts.StagingDir, opts.MediaDestDir} {
		if r == "" {
			continue
		}
		r = filepath.Clean(r)
		if len(roots) == 0 || roots[0] != r {
			roots = append(roots, r)
		}
	}
	return roots
}

func checkDiskSpace(res *PreflightResult, root string) {
	dir := existingAncestor(root)
	free, err := diskFree(dir)
	switch {
	case errors.Is(err, ErrNotSupported):
		res.add("disk space", true, "free space of %s unknown on this platform", root)
	case err != nil:
		res.add("disk space", false, "could not stat %s: %v", root, err)
	case free > math.MaxInt64 || int64(free) >= res.RequiredBytes:
		res.add("disk space", true, "%s: %s available", root, formatGB(free))
	default:
		res.add("disk space", false, "insufficient disk space in %s: need %s, have %s available",
			root, formatGB(uint64(res.RequiredBytes)), formatGB(free))
	}
}

func checkWritable(res *PreflightResult, root string) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		res.add("write access", false, "no write access to %s: %v", root, err)
		return
	}
	f, err := os.CreateTemp(root, ".write_test_*")
	if err != nil {
		res.add("write access", false, "no write access to %s: %v", root, err)
		return
	}
	_, werr := f.WriteString("test")
	cerr := f.Close()
	_ = os.Remove(f.Name())
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		res.add("write access", false, "no write access to %s: %v", root, werr)
		return
	}
	res.add("write access", true, "%s is writable", root)
}

// existingAncestor returns path or its nearest existing parent.
func existingAncestor(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

func formatGB(n uint64) string {
	return fmt.Sprintf("%.2fGB", float64(n)/(1024*1024*1024))
}
