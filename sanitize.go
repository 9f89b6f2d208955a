package importkit

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	maxFilenameBytes = 255

	// Extensions longer than this are treated as part of the stem when
	// truncating, so the stem cannot be squeezed to nothing.
	maxKeptExtBytes = 32

	unnamedFilename = "unnamed"
)

var filenameReplacer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "|", "_",
	"?", "_", "*", "_", `\`, "_", "/", "_", "\x00", "_",
)

// SanitizeFilename makes name safe to use as a single path element on
// common filesystems. Directory components are dropped, reserved
// characters become '_', leading and trailing dots and spaces are trimmed,
// and the result is capped at 255 bytes with the extension preserved.
// Applying it to its own output is a no-op.
func SanitizeFilename(name string) string {
	name = strings.TrimRight(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	name = filenameReplacer.Replace(name)
	name = strings.Trim(name, ". ")
	if name == "" {
		return unnamedFilename
	}

	if len(name) <= maxFilenameBytes {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) > maxKeptExtBytes {
		ext = ""
	}
	stem := truncateUTF8(strings.TrimSuffix(name, ext), maxFilenameBytes-len(ext))

	name = stem + ext
	if ext == "" {
		name = strings.TrimRight(name, ". ")
	}
	return name
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
