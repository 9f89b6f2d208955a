package importkit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

// member is one archive entry for buildArchive. A name ending in "/" is
// written as a directory entry.
type member struct {
	name  string
	data  []byte
	store bool
}

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func buildArchiveBytes(t *testing.T, members []member) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, m := range members {
		method := zip.Deflate
		if m.store {
			method = zip.Store
		}
		f, err := w.CreateHeader(&zip.FileHeader{Name: m.name, Method: method})
		if err != nil {
			t.Fatalf("create %s: %v", m.name, err)
		}
		if len(m.data) > 0 {
			if _, err := f.Write(m.data); err != nil {
				t.Fatalf("write %s: %v", m.name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func buildArchive(t *testing.T, members []member) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "export.zip")
	if err := os.WriteFile(p, buildArchiveBytes(t, members), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return p
}

// buildCorruptArchive stores payload uncompressed and flips one of its
// bytes so the member fails its CRC check.
func buildCorruptArchive(t *testing.T, members []member, payload []byte) string {
	t.Helper()

	data := buildArchiveBytes(t, members)
	i := bytes.Index(data, payload)
	if i < 0 {
		t.Fatal("payload not found in archive bytes")
	}
	data[i+len(payload)/2] ^= 0xFF

	p := filepath.Join(t.TempDir(), "corrupt.zip")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return p
}

// sampleArchive is the primary-format archive used throughout the tests.
func sampleArchive() []member {
	return []member{
		{name: "data.json", data: []byte(`{"journals": []}`)},
		{name: "media/e1/a.jpg", data: []byte("aaaaaaaa")},
		{name: "media/e1/b.jpg", data: []byte("bbbbbbbbb")},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// dirIsEmptyOrMissing reports whether nothing was written under dir.
func dirIsEmptyOrMissing(t *testing.T, dir string) bool {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	return len(entries) == 0
}
