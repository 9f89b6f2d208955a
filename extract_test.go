package importkit

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gobeaver/importkit/progress"
)

// recorder captures every progress call.
type recorder struct {
	calls [][2]int
}

func (r *recorder) sink(processed, total int) error {
	r.calls = append(r.calls, [2]int{processed, total})
	return nil
}

func TestStreamExtract_Scenario(t *testing.T) {
	archive := buildArchive(t, sampleArchive())
	staging := filepath.Join(t.TempDir(), "stage")
	rec := &recorder{}

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir: staging,
		Format:     FormatJourniv,
		Policy:     DefaultPolicy(),
		Progress:   rec.sink,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}

	if res.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", res.FileCount)
	}
	if filepath.Base(res.DataFilePath) != "data.json" {
		t.Errorf("DataFilePath = %q, want basename data.json", res.DataFilePath)
	}
	if res.TotalSize != 16+8+9 {
		t.Errorf("TotalSize = %d, want %d", res.TotalSize, 16+8+9)
	}
	if res.MediaDirectory != filepath.Join(staging, "media") {
		t.Errorf("MediaDirectory = %q, want %q", res.MediaDirectory, filepath.Join(staging, "media"))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none with validation off", res.Warnings)
	}

	got, err := os.ReadFile(filepath.Join(staging, "media", "e1", "b.jpg"))
	if err != nil || string(got) != "bbbbbbbbb" {
		t.Errorf("media/e1/b.jpg = %q, %v", got, err)
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(rec.calls) != len(want) {
		t.Fatalf("progress calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("progress call %d = %v, want %v", i, rec.calls[i], want[i])
		}
	}
}

func TestStreamExtract_TotalSizeMatchesEntries(t *testing.T) {
	members := []member{
		{name: "data.json", data: []byte(`{"journals":[{"id":1}]}`)},
		{name: "media/"},
		{name: "media/x/"},
		{name: "media/x/one.bin", data: bytes.Repeat([]byte{1}, 4096)},
		{name: "media/x/two.bin", data: bytes.Repeat([]byte{2}, 70_000)},
		{name: "notes/readme.txt", data: []byte("hello")},
	}
	archive := buildArchive(t, members)

	entries, err := ListEntries(archive)
	if err != nil {
		t.Fatal(err)
	}
	var sum int64
	for _, e := range entries {
		sum += e.UncompressedSize
	}

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{StagingDir: t.TempDir(), Policy: DefaultPolicy()})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}
	if res.TotalSize != sum {
		t.Errorf("TotalSize = %d, want %d", res.TotalSize, sum)
	}
	if res.FileCount != 4 {
		t.Errorf("FileCount = %d, want 4 (directories excluded)", res.FileCount)
	}
}

func TestStreamExtract_TooLargeWritesNothing(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/big.bin", data: bytes.Repeat([]byte{0}, 2<<20)},
	})
	staging := filepath.Join(t.TempDir(), "stage")
	media := filepath.Join(t.TempDir(), "media")

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:   staging,
		MediaDestDir: media,
		Policy:       Policy{MaxSizeMB: 1},
	})
	if !IsArchiveTooLarge(err) {
		t.Fatalf("error = %v, want ErrArchiveTooLarge", err)
	}
	if !strings.Contains(err.Error(), "2.0MB (max: 1MB)") {
		t.Errorf("error %q should carry the sizes", err)
	}
	if !dirIsEmptyOrMissing(t, staging) || !dirIsEmptyOrMissing(t, media) {
		t.Error("bytes were written for an oversized archive")
	}
}

func TestStreamExtract_UnsafePath(t *testing.T) {
	members := sampleArchive()
	members[2].name = "../../etc/passwd"
	archive := buildArchive(t, members)

	base := t.TempDir()
	staging := filepath.Join(base, "a", "b", "stage")

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{StagingDir: staging, Policy: DefaultPolicy()})
	if !IsUnsafePath(err) {
		t.Fatalf("error = %v, want ErrUnsafePath", err)
	}
	if !strings.Contains(err.Error(), "../../etc/passwd") {
		t.Errorf("error %q should name the entry", err)
	}
	var ee *ExtractError
	if !errors.As(err, &ee) || ee.Entry != "../../etc/passwd" {
		t.Errorf("ExtractError.Entry = %v", ee)
	}
	if fileExists(filepath.Join(base, "a", "etc", "passwd")) {
		t.Error("entry escaped the staging root")
	}
}

func TestStreamExtract_UnsafeFirstEntryWritesNothing(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "/etc/cron.d/evil", data: []byte("* * * * * root sh")},
		{name: "data.json", data: []byte("{}")},
	})
	staging := filepath.Join(t.TempDir(), "stage")

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{StagingDir: staging, Policy: DefaultPolicy()})
	if !IsUnsafePath(err) {
		t.Fatalf("error = %v, want ErrUnsafePath", err)
	}
	if !dirIsEmptyOrMissing(t, staging) {
		t.Error("staging directory is not empty")
	}
}

func TestStreamExtract_IgnoredUnsafeStillFails(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "junk/../../x.tmp", data: []byte("x")},
	})

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir: t.TempDir(),
		Policy:     Policy{IgnorePatterns: []string{"**.tmp"}},
	})
	if !IsUnsafePath(err) {
		t.Errorf("error = %v, want ErrUnsafePath", err)
	}
}

func TestStreamExtract_UnsafeLastEntryWritesNothing(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/a.jpg", data: jpegBytes},
		{name: "../../etc/passwd", data: []byte("root:x:0:0")},
	})
	base := t.TempDir()
	staging := filepath.Join(base, "stage")
	media := filepath.Join(base, "library")
	if err := os.MkdirAll(media, 0o755); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:   staging,
		MediaDestDir: media,
		Policy:       DefaultPolicy(),
		Progress:     rec.sink,
	})
	if !IsUnsafePath(err) {
		t.Fatalf("error = %v, want ErrUnsafePath", err)
	}
	var ee *ExtractError
	if !errors.As(err, &ee) || ee.Entry != "../../etc/passwd" {
		t.Errorf("ExtractError.Entry = %v", ee)
	}
	if !dirIsEmptyOrMissing(t, media) {
		t.Error("media destination is not empty")
	}
	if !dirIsEmptyOrMissing(t, staging) {
		t.Error("staging directory is not empty")
	}
	if len(rec.calls) != 0 {
		t.Errorf("progress calls = %v, want none", rec.calls)
	}
}

func TestStreamExtract_ZeroCopyDoubleSlash(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media//x.jpg", data: jpegBytes},
	})
	base := t.TempDir()
	media := filepath.Join(base, "library")

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:   filepath.Join(base, "stage"),
		MediaDestDir: media,
		Policy:       DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}
	if !fileExists(filepath.Join(media, "x.jpg")) {
		t.Error("media//x.jpg was not written to <media>/x.jpg")
	}
}

func TestStreamExtract_ProgressMonotonic(t *testing.T) {
	members := []member{{name: "data.json", data: []byte("{}")}}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		members = append(members, member{name: "media/" + n + ".jpg", data: jpegBytes})
	}
	members = append(members, member{name: "media/sub/"})
	rec := &recorder{}

	_, err := StreamExtract(context.Background(), buildArchive(t, members), ExtractOptions{
		StagingDir: t.TempDir(),
		Policy:     Policy{IgnorePatterns: []string{"media/c.jpg"}},
		Progress:   rec.sink,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}

	const n = 8
	if len(rec.calls) != n {
		t.Fatalf("got %d progress calls, want %d", len(rec.calls), n)
	}
	for i, c := range rec.calls {
		if c[1] != n {
			t.Errorf("call %d total = %d, want %d", i, c[1], n)
		}
		if i > 0 && c[0] < rec.calls[i-1][0] {
			t.Errorf("progress went backwards at call %d: %v", i, rec.calls)
		}
	}
	if last := rec.calls[len(rec.calls)-1]; last != [2]int{n, n} {
		t.Errorf("final call = %v, want (%d, %d)", last, n, n)
	}
}

func TestStreamExtract_RejectedMedia(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/photo.jpg", data: jpegBytes},
		{name: "media/e1/fake.jpg", data: []byte("plain text pretending to be a photo")},
	})
	staging := t.TempDir()

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:    staging,
		Format:        FormatJourniv,
		Policy:        Policy{AllowedMimeTypes: []string{"image/jpeg"}},
		ValidateMedia: true,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}

	if fileExists(filepath.Join(staging, "media", "e1", "fake.jpg")) {
		t.Error("rejected file still on disk")
	}
	if !fileExists(filepath.Join(staging, "media", "e1", "photo.jpg")) {
		t.Error("accepted file missing")
	}
	if got := res.WarningCounts["Skipped due to format"]; got != 1 {
		t.Errorf(`WarningCounts["Skipped due to format"] = %d, want 1 (%v)`, got, res.WarningCounts)
	}
	if got := res.Rejections["format"]; got != 1 || len(res.Rejections) != 1 {
		t.Errorf("Rejections = %v, want map[format:1]", res.Rejections)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "media/e1/fake.jpg") {
		t.Errorf("Warnings = %v", res.Warnings)
	}
	if res.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", res.FileCount)
	}
}

func TestStreamExtract_OctetStreamRejected(t *testing.T) {
	binary := []byte{0x00, 0x01, 0x02, 0x03, 0xFE, 0xFD, 0x00, 0x7F, 0x10, 0x00}
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/blob.jpg", data: binary},
	})

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:    t.TempDir(),
		Policy:        Policy{AllowedMimeTypes: []string{"image/jpeg"}},
		ValidateMedia: true,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}
	if got := res.WarningCounts["Skipped due to format"]; got != 1 {
		t.Errorf(`WarningCounts["Skipped due to format"] = %d, want 1`, got)
	}
	if !strings.Contains(res.Warnings[0], "application/octet-stream") {
		t.Errorf("warning %q should name the detected type", res.Warnings[0])
	}
}

func TestStreamExtract_ExtensionRejected(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/photo.jpeg", data: jpegBytes},
	})

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:    t.TempDir(),
		Policy:        Policy{AllowedMimeTypes: []string{"image/*"}, AllowedExtensions: []string{".png"}},
		ValidateMedia: true,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}
	if got := res.WarningCounts["Skipped due to extension"]; got != 1 {
		t.Errorf("WarningCounts = %v", res.WarningCounts)
	}
}

func TestStreamExtract_MissingDataFile(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "media/e1/a.jpg", data: jpegBytes},
	})

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{StagingDir: t.TempDir(), Policy: DefaultPolicy()})
	if !IsDataFileMissing(err) {
		t.Errorf("error = %v, want ErrDataFileMissing", err)
	}
}

func TestStreamExtract_IgnoredDataFileIsMissing(t *testing.T) {
	archive := buildArchive(t, sampleArchive())

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir: t.TempDir(),
		Policy:     Policy{IgnorePatterns: []string{"*.json"}},
	})
	if !IsDataFileMissing(err) {
		t.Errorf("error = %v, want ErrDataFileMissing", err)
	}
}

func TestStreamExtract_ZeroCopy(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/a.jpg", data: jpegBytes},
		{name: "media/e2/b.jpg", data: jpegBytes},
	})
	staging := t.TempDir()
	dest := filepath.Join(t.TempDir(), "user-7")

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:    staging,
		MediaDestDir:  dest,
		Format:        FormatJourniv,
		Policy:        DefaultPolicy(),
		ValidateMedia: true,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}

	for _, rel := range []string{"e1/a.jpg", "e2/b.jpg"} {
		if !fileExists(filepath.Join(dest, filepath.FromSlash(rel))) {
			t.Errorf("%s not written to the destination", rel)
		}
	}
	if fileExists(filepath.Join(staging, "media")) {
		t.Error("media was staged despite a zero-copy destination")
	}
	if res.MediaDirectory != dest {
		t.Errorf("MediaDirectory = %q, want %q", res.MediaDirectory, dest)
	}
	if res.DataFilePath != filepath.Join(staging, "data.json") {
		t.Errorf("DataFilePath = %q", res.DataFilePath)
	}
}

func TestStreamExtract_AlternateFormat(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "Travel.json", data: []byte(`{"entries": []}`)},
		{name: "PHOTOS/abc.jpeg", data: jpegBytes},
		{name: "videos/clip.mov", data: []byte("not really a movie")},
	})

	t.Run("zero-copy keeps the prefix", func(t *testing.T) {
		staging := t.TempDir()
		dest := t.TempDir()

		res, err := StreamExtract(context.Background(), archive, ExtractOptions{
			StagingDir:    staging,
			MediaDestDir:  dest,
			Format:        FormatDayOne,
			Policy:        DefaultPolicy(),
			ValidateMedia: true,
		})
		if err != nil {
			t.Fatalf("StreamExtract() error = %v", err)
		}
		if !fileExists(filepath.Join(dest, "PHOTOS", "abc.jpeg")) {
			t.Error("case-folded media prefix not routed to the destination")
		}
		if fileExists(filepath.Join(dest, "videos", "clip.mov")) {
			t.Error("rejected video still on disk")
		}
		if res.WarningCounts["Skipped due to format"] != 1 {
			t.Errorf("WarningCounts = %v", res.WarningCounts)
		}
		if filepath.Base(res.DataFilePath) != "Travel.json" {
			t.Errorf("DataFilePath = %q", res.DataFilePath)
		}
	})

	t.Run("staged media directory is the staging root", func(t *testing.T) {
		staging := t.TempDir()

		res, err := StreamExtract(context.Background(), archive, ExtractOptions{
			StagingDir: staging,
			Format:     FormatDayOne,
			Policy:     DefaultPolicy(),
		})
		if err != nil {
			t.Fatalf("StreamExtract() error = %v", err)
		}
		if res.MediaDirectory != staging {
			t.Errorf("MediaDirectory = %q, want %q", res.MediaDirectory, staging)
		}
		if !fileExists(filepath.Join(staging, "PHOTOS", "abc.jpeg")) {
			t.Error("media not staged")
		}
	})
}

func TestStreamExtract_NoMediaDirectory(t *testing.T) {
	archive := buildArchive(t, []member{{name: "data.json", data: []byte("{}")}})

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:   t.TempDir(),
		MediaDestDir: filepath.Join(t.TempDir(), "never-created"),
		Policy:       DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}
	if res.MediaDirectory != "" {
		t.Errorf("MediaDirectory = %q, want empty", res.MediaDirectory)
	}
}

func TestStreamExtract_EmptyArchive(t *testing.T) {
	rec := &recorder{}
	_, err := StreamExtract(context.Background(), buildArchive(t, nil), ExtractOptions{
		StagingDir: t.TempDir(),
		Progress:   rec.sink,
	})
	if !IsDataFileMissing(err) {
		t.Errorf("error = %v, want ErrDataFileMissing", err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != [2]int{0, 0} {
		t.Errorf("progress calls = %v, want one (0, 0)", rec.calls)
	}
}

func TestStreamExtract_IgnorePatterns(t *testing.T) {
	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/.DS_Store", data: []byte("junk")},
		{name: "__MACOSX/media/._a.jpg", data: []byte("junk")},
		{name: "media/e1/a.jpg", data: jpegBytes},
	})
	staging := t.TempDir()

	res, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:    staging,
		Policy:        Policy{AllowedMimeTypes: []string{"image/*"}, IgnorePatterns: []string{"**/.DS_Store", "__MACOSX/**"}},
		ValidateMedia: true,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}
	if res.Ignored != 2 {
		t.Errorf("Ignored = %d, want 2", res.Ignored)
	}
	if res.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", res.FileCount)
	}
	if fileExists(filepath.Join(staging, "media", "e1", ".DS_Store")) || fileExists(filepath.Join(staging, "__MACOSX")) {
		t.Error("ignored entry was written")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("ignored entries must not warn: %v", res.Warnings)
	}
}

func TestStreamExtract_ProgressAbort(t *testing.T) {
	staging := t.TempDir()
	stop := errors.New("operator requested stop")
	calls := 0

	_, err := StreamExtract(context.Background(), buildArchive(t, sampleArchive()), ExtractOptions{
		StagingDir: staging,
		Policy:     DefaultPolicy(),
		Progress: func(processed, total int) error {
			calls++
			if processed == 2 {
				return stop
			}
			return nil
		},
	})
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, stop) {
		t.Fatalf("error = %v, want ErrCancelled wrapping the callback error", err)
	}
	if calls != 2 {
		t.Errorf("progress called %d times, want 2", calls)
	}
	if fileExists(filepath.Join(staging, "media", "e1", "b.jpg")) {
		t.Error("entry after the abort was written")
	}
}

func TestStreamExtract_InterruptFlag(t *testing.T) {
	interrupted := false
	sink := progress.WithInterrupt(func(processed, total int) error {
		if processed == 1 {
			interrupted = true
		}
		return nil
	}, func() bool { return interrupted })

	_, err := StreamExtract(context.Background(), buildArchive(t, sampleArchive()), ExtractOptions{
		StagingDir: t.TempDir(),
		Policy:     DefaultPolicy(),
		Progress:   sink,
	})
	if !errors.Is(err, progress.ErrInterrupted) || !errors.Is(err, ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled wrapping ErrInterrupted", err)
	}
}

func TestStreamExtract_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	staging := t.TempDir()

	_, err := StreamExtract(ctx, buildArchive(t, sampleArchive()), ExtractOptions{
		StagingDir: staging,
		Policy:     DefaultPolicy(),
		Progress: func(processed, total int) error {
			if processed == 1 {
				cancel()
			}
			return nil
		},
	})
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want ErrCancelled wrapping context.Canceled", err)
	}
	if FailureKind(err) != "cancelled" {
		t.Errorf("FailureKind = %q", FailureKind(err))
	}
	if fileExists(filepath.Join(staging, "media", "e1", "a.jpg")) {
		t.Error("entry after cancellation was written")
	}
}

func TestStreamExtract_Corrupt(t *testing.T) {
	payload := bytes.Repeat([]byte("video-frame-"), 50)
	archive := buildCorruptArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/clip.mov", data: payload, store: true},
	}, payload)
	staging := filepath.Join(t.TempDir(), "stage")

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{StagingDir: staging, Policy: DefaultPolicy()})
	if !IsArchiveCorrupt(err) {
		t.Fatalf("error = %v, want ErrArchiveCorrupt", err)
	}
	if !strings.Contains(err.Error(), "media/e1/clip.mov") {
		t.Errorf("error %q should name the member", err)
	}
	if !dirIsEmptyOrMissing(t, staging) {
		t.Error("corrupt archive produced output")
	}
}

func TestStreamExtract_InvalidArguments(t *testing.T) {
	archive := buildArchive(t, sampleArchive())

	if _, err := StreamExtract(context.Background(), archive, ExtractOptions{}); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("empty staging dir: error = %v", err)
	}

	_, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir: t.TempDir(),
		Policy:     Policy{IgnorePatterns: []string{"[unclosed"}},
	})
	if !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("bad glob: error = %v", err)
	}

	_, err = StreamExtract(context.Background(), filepath.Join(t.TempDir(), "none.zip"), ExtractOptions{StagingDir: t.TempDir()})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing archive: error = %v", err)
	}
}

func TestStreamExtract_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	archive := buildArchive(t, []member{
		{name: "data.json", data: []byte("{}")},
		{name: "media/e1/fake.jpg", data: []byte("text")},
	})
	_, err := StreamExtract(context.Background(), archive, ExtractOptions{
		StagingDir:    t.TempDir(),
		Policy:        DefaultPolicy(),
		ValidateMedia: true,
		Logger:        &logger,
	})
	if err != nil {
		t.Fatalf("StreamExtract() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"category":"format"`, `"filename":"media/e1/fake.jpg"`, `"message":"extraction completed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
