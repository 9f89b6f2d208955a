package importkit

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IsUnsafeName reports whether an archive entry name is lexically unsafe:
// it contains a parent-directory segment, is absolute (leading separator or
// drive letter), or contains a NUL byte. Both slash styles are treated as
// separators because archives built on Windows may use backslashes.
func IsUnsafeName(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsRune(name, 0) {
		return true
	}
	if name[0] == '/' || name[0] == '\\' {
		return true
	}
	if len(name) >= 2 && name[1] == ':' && isDriveLetter(name[0]) {
		return true
	}
	for _, seg := range strings.FieldsFunc(name, isSeparator) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ResolveTarget returns the absolute path at which declared should be written
// below root, or an *ExtractError wrapping ErrUnsafePath when it would land
// outside root.
//
// Containment is decided on canonical paths: root and the deepest existing
// ancestor of the target are both symlink-evaluated and compared with
// filepath.Rel, so a sibling sharing a string prefix with root never passes.
func ResolveTarget(root, declared string) (string, error) {
	unsafe := &ExtractError{Op: "resolve", Entry: declared, Err: ErrUnsafePath}

	if declared == "" || IsUnsafeName(declared) {
		return "", unsafe
	}

	canonicalRoot, err := canonicalize(root)
	if err != nil {
		return "", &ExtractError{Op: "resolve", Entry: declared, Err: err}
	}

	target := filepath.Join(canonicalRoot, filepath.FromSlash(declared))
	if !isDescendant(canonicalRoot, target) {
		return "", unsafe
	}

	// A symlink already present below root could redirect the write.
	resolved, err := canonicalize(target)
	if err != nil {
		return "", &ExtractError{Op: "resolve", Entry: declared, Err: err}
	}
	if !isDescendant(canonicalRoot, resolved) {
		return "", unsafe
	}

	return target, nil
}

// isDescendant reports whether target is strictly below root. Both paths
// must be absolute and clean.
func isDescendant(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// canonicalize makes p absolute and evaluates symlinks on its longest
// existing prefix. The non-existent remainder is appended unchanged.
func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	existing := abs
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Join(parts...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}
}
