package filevalidator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DetectionStrategy records which mechanism produced a detected MIME type.
type DetectionStrategy int

const (
	// StrategyNone means nothing could classify the file.
	StrategyNone DetectionStrategy = iota
	// StrategyContent means the type came from the file's bytes.
	StrategyContent
	// StrategyExtension means the type was guessed from the filename. Treat
	// it as low confidence.
	StrategyExtension
)

func (s DetectionStrategy) String() string {
	switch s {
	case StrategyContent:
		return "content"
	case StrategyExtension:
		return "extension"
	default:
		return "none"
	}
}

// Detection is the result of DetectFile.
type Detection struct {
	MIME     string
	Strategy DetectionStrategy
}

// DetectFile determines the MIME type of the file at path. Content
// sniffing runs first; the extension guess is used only when the file
// yields no header bytes to inspect. Read failures are returned, not
// papered over with a guess.
func DetectFile(path string) (Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Detection{}, err
	}
	defer f.Close()

	return DetectReader(f, filepath.Base(path))
}

// DetectReader is DetectFile for an already open stream. Only the first
// headerSize bytes are consumed.
func DetectReader(r io.Reader, filename string) (Detection, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Detection{}, fmt.Errorf("failed to read file for MIME detection: %w", err)
	}
	header = header[:n]

	if n > 0 {
		return Detection{MIME: sniff(header), Strategy: StrategyContent}, nil
	}

	if m := MIMETypeForExtension(filepath.Ext(filename)); m != "" {
		return Detection{MIME: m, Strategy: StrategyExtension}, nil
	}
	return Detection{MIME: OctetStream, Strategy: StrategyNone}, nil
}
