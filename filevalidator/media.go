package filevalidator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// Outcome is the verdict on one media file. Validation failures are carried
// here as data; ValidateMedia never returns an error or panics.
type Outcome struct {
	Valid        bool
	DetectedMIME string
	Strategy     DetectionStrategy
	Category     FailureCategory
	Message      string
}

func reject(category FailureCategory, mime, msg string) Outcome {
	return Outcome{DetectedMIME: mime, Category: category, Message: msg}
}

// ValidateMedia checks a file on disk in order: existence, size against
// maxSizeMB, true content type against allowedTypes, extension against
// allowedExts. The first failing check decides the outcome.
//
// allowedTypes entries may be exact types, "type/*" wildcards or "*/*".
// allowedExts is ignored when empty.
func ValidateMedia(path string, maxSizeMB int64, allowedTypes, allowedExts []string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = reject(InternalError, "unknown", fmt.Sprintf("Validation failed: %v", r))
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reject(NotFound, "unknown", fmt.Sprintf("File not found: %s", path))
		}
		return reject(InternalError, "unknown", fmt.Sprintf("Validation failed: %v", err))
	}
	if info.IsDir() {
		return reject(InternalError, "unknown", fmt.Sprintf("Validation failed: %s is a directory", path))
	}

	if info.Size() > maxSizeMB*MB {
		return reject(SizeExceeded, "unknown", fmt.Sprintf("File size exceeds maximum limit of %dMB", maxSizeMB))
	}

	det, err := DetectFile(path)
	if err != nil {
		return reject(InternalError, "unknown", fmt.Sprintf("Validation failed: %v", err))
	}

	if !MatchMIME(det.MIME, allowedTypes) {
		out = reject(FormatRejected, det.MIME, fmt.Sprintf("Mime type %s not allowed", det.MIME))
		out.Strategy = det.Strategy
		return out
	}

	if !MatchExtension(path, allowedExts) {
		ext := strings.ToLower(filepath.Ext(path))
		out = reject(ExtensionRejected, det.MIME, fmt.Sprintf("File extension %s not allowed", ext))
		out.Strategy = det.Strategy
		return out
	}

	return Outcome{
		Valid:        true,
		DetectedMIME: det.MIME,
		Strategy:     det.Strategy,
		Category:     None,
		Message:      "File is valid",
	}
}
