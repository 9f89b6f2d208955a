package filevalidator

// FailureCategory classifies why a media file was rejected.
type FailureCategory int

const (
	None FailureCategory = iota
	NotFound
	SizeExceeded
	FormatRejected
	ExtensionRejected
	InternalError
)

var categoryNames = map[FailureCategory]string{
	None:              "none",
	NotFound:          "not_found",
	SizeExceeded:      "size",
	FormatRejected:    "format",
	ExtensionRejected: "extension",
	InternalError:     "error",
}

// Warning labels are stable: callers aggregate on them.
var categoryLabels = map[FailureCategory]string{
	NotFound:          "Skipped (not found)",
	SizeExceeded:      "Skipped due to size",
	FormatRejected:    "Skipped due to format",
	ExtensionRejected: "Skipped due to extension",
	InternalError:     "Skipped (error)",
}

// String returns the short machine name, e.g. "format".
func (c FailureCategory) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "error"
}

// Label returns the warning-histogram label for a rejection, or "" for None.
func (c FailureCategory) Label() string {
	if c == None {
		return ""
	}
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[InternalError]
}
