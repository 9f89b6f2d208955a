package filevalidator

import (
	"path/filepath"
	"strings"
)

// AllowAll matches every MIME type in an allow-list.
const AllowAll = "*/*"

var extensionToMimeType = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".bmp":  "image/bmp",
	".heic": "image/heic",
	".heif": "image/heif",
	".avif": "image/avif",
	".svg":  "image/svg+xml",

	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",

	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".3gp":  "video/3gpp",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",

	".pdf":  "application/pdf",
	".json": "application/json",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".zip":  "application/zip",
}

// MIMETypeForExtension returns the MIME type for a given file extension.
// The lookup is case-insensitive and the leading dot is optional.
// Returns empty string if the extension is not recognized.
func MIMETypeForExtension(ext string) string {
	return extensionToMimeType[NormalizeExtension(ext)]
}

// NormalizeExtension lowercases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// GuessMediaType guesses a MIME type and extension from a filename alone.
// Either result may be nil independently: an unknown extension yields a nil
// MIME type with a non-nil extension, and a name without extension yields
// two nils.
func GuessMediaType(filename string) (mime *string, ext *string) {
	e := strings.ToLower(filepath.Ext(filename))
	if e == "" || e == "." {
		return nil, nil
	}
	ext = &e
	if m, ok := extensionToMimeType[e]; ok {
		mime = &m
	}
	return mime, ext
}

// MatchMIME reports whether mime is admitted by the allow-list. Entries
// match exactly (case-insensitive), as a type wildcard ("image/*"), or as
// AllowAll. An empty list admits nothing.
func MatchMIME(mime string, allowed []string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "" {
		return false
	}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == AllowAll || a == mime {
			return true
		}
		if strings.HasSuffix(a, "/*") {
			prefix := strings.TrimSuffix(a, "*")
			if strings.HasPrefix(mime, prefix) {
				return true
			}
		}
	}
	return false
}

// MatchExtension reports whether the extension of filename is in allowed.
// An empty list admits everything. Entries may be given with or without the
// leading dot.
func MatchExtension(filename string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if NormalizeExtension(a) == ext && ext != "" {
			return true
		}
	}
	return false
}
