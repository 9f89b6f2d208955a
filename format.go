package importkit

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// SourceFormat identifies the layout of an export archive.
type SourceFormat int

const (
	// FormatJourniv is the primary layout: data.json at the root and media
	// under media/.
	FormatJourniv SourceFormat = iota
	// FormatDayOne is the alternate layout: one or more JournalName.json files
	// at the root and media under photos/, videos/, audios/ or pdfs/.
	FormatDayOne
)

// String returns the tag used in configuration and on the command line
func (f SourceFormat) String() string {
	if r, ok := formatRules[f]; ok {
		return r.tag
	}
	return fmt.Sprintf("SourceFormat(%d)", int(f))
}

// ParseSourceFormat maps a tag to a SourceFormat. The empty tag selects the
// primary format.
func ParseSourceFormat(tag string) (SourceFormat, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return FormatJourniv, nil
	}
	for f, r := range formatRules {
		if r.tag == tag {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, tag)
}

// formatRule holds the per-format path layout rules.
type formatRule struct {
	tag string

	// dataFileDesc is used in error messages.
	dataFileDesc string

	// isDataFile reports whether an archive entry name is the structured-data
	// member.
	isDataFile func(name string) bool

	// mediaPrefixes are matched against entry names to classify media.
	mediaPrefixes []string

	// foldPrefixCase makes media prefix matching case-insensitive.
	foldPrefixCase bool

	// stripMediaPrefix drops the matched prefix when writing into a
	// zero-copy destination.
	stripMediaPrefix bool

	// stagingMediaDir is the media directory relative to the staging root
	// when no zero-copy destination is used.
	stagingMediaDir string
}

var formatRules = map[SourceFormat]formatRule{
	FormatJourniv: {
		tag:              "journiv",
		dataFileDesc:     "data.json file",
		isDataFile:       func(name string) bool { return name == "data.json" },
		mediaPrefixes:    []string{"media/"},
		stripMediaPrefix: true,
		stagingMediaDir:  "media",
	},
	FormatDayOne: {
		tag:          "dayone",
		dataFileDesc: "JSON file at root (expected JournalName.json)",
		isDataFile: func(name string) bool {
			return !strings.Contains(name, "/") && strings.HasSuffix(strings.ToLower(name), ".json")
		},
		mediaPrefixes:   []string{"photos/", "videos/", "audios/", "pdfs/"},
		foldPrefixCase:  true,
		stagingMediaDir: "",
	},
}

func (f SourceFormat) rule() formatRule {
	if r, ok := formatRules[f]; ok {
		return r
	}
	return formatRules[FormatJourniv]
}

// IsDataFile reports whether name is the structured-data member for f.
func (f SourceFormat) IsDataFile(name string) bool {
	return f.rule().isDataFile(name)
}

// IsMedia reports whether an archive entry belongs to the media area.
func (f SourceFormat) IsMedia(name string) bool {
	_, ok := f.mediaPrefix(name)
	return ok
}

// mediaPrefix returns the matching prefix as it appears in name.
func (f SourceFormat) mediaPrefix(name string) (string, bool) {
	r := f.rule()
	for _, p := range r.mediaPrefixes {
		if len(name) < len(p) {
			continue
		}
		head := name[:len(p)]
		if head == p || (r.foldPrefixCase && strings.EqualFold(head, p)) {
			return head, true
		}
	}
	return "", false
}

// mediaRelativePath returns the path a media entry takes below a zero-copy
// destination root.
func (f SourceFormat) mediaRelativePath(name string) string {
	if !f.rule().stripMediaPrefix {
		return name
	}
	if prefix, ok := f.mediaPrefix(name); ok {
		// "media//x.jpg" must land where the staging route puts it.
		return strings.TrimLeft(strings.TrimPrefix(name, prefix), "/")
	}
	return name
}

// stagingMediaDir returns the media directory below the staging root.
func (f SourceFormat) stagingMediaDir(stagingDir string) string {
	return filepath.Join(stagingDir, filepath.FromSlash(f.rule().stagingMediaDir))
}

// findDataFile returns the first entry in archive order that satisfies the
// data-member rule.
func (f SourceFormat) findDataFile(names []string) (string, bool) {
	for _, n := range names {
		if f.IsDataFile(n) {
			return n, true
		}
	}
	return "", false
}

// locateDataFile finds the data member on disk after extraction.
func (f SourceFormat) locateDataFile(stagingDir string, names []string) string {
	if name, ok := f.findDataFile(names); ok {
		return filepath.Join(stagingDir, filepath.FromSlash(path.Clean(name)))
	}
	return ""
}
