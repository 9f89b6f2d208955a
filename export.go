package importkit

import (
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
)

// WriteExportArchive writes an archive in the primary layout to out:
// dataPath is stored as data.json and every media source as
// media/<relative path>. Media sources that do not exist are logged and
// skipped. It returns the size of the written archive.
//
// Media entries are written in sorted order so the same input always
// yields the same member order.
func WriteExportArchive(out, dataPath string, media map[string]string) (size int64, err error) {
	rels := make([]string, 0, len(media))
	for rel := range media {
		clean := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(rel, `\`, "/")), "/")
		if rel == "" || IsUnsafeName(rel) || clean == "" {
			return 0, &ExtractError{Op: "export", Entry: rel, Err: ErrUnsafePath}
		}
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	f, err := os.Create(out)
	if err != nil {
		return 0, &ExtractError{Op: "export", Entry: out, Err: err}
	}
	defer func() {
		if err != nil {
			_ = os.Remove(out)
		}
	}()

	zw := zip.NewWriter(f)

	if err = addFile(zw, "data.json", dataPath); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return 0, &ExtractError{Op: "export", Entry: dataPath, Err: err}
	}

	for _, rel := range rels {
		src := media[rel]
		if _, statErr := os.Stat(src); statErr != nil {
			log.Warn().Err(statErr).Str("source_path", src).Msg("media file not found, skipping")
			continue
		}
		name := "media/" + strings.TrimPrefix(path.Clean(strings.ReplaceAll(rel, `\`, "/")), "/")
		if err = addFile(zw, name, src); err != nil {
			_ = zw.Close()
			_ = f.Close()
			return 0, &ExtractError{Op: "export", Entry: src, Err: err}
		}
	}

	if err = zw.Close(); err != nil {
		_ = f.Close()
		return 0, &ExtractError{Op: "export", Entry: out, Err: err}
	}
	if err = f.Close(); err != nil {
		return 0, &ExtractError{Op: "export", Entry: out, Err: err}
	}

	info, err := os.Stat(out)
	if err != nil {
		return 0, &ExtractError{Op: "export", Entry: out, Err: err}
	}
	return info.Size(), nil
}

func addFile(zw *zip.Writer, name, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	})
	if err != nil {
		return err
	}

	buf := getCopyBuffer()
	defer putCopyBuffer(buf)
	_, err = io.CopyBuffer(w, struct{ io.Reader }{in}, *buf)
	return err
}
