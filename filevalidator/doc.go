// Package filevalidator decides whether a media file extracted from an
// import archive may be kept.
//
// Type detection reads only the first 512 bytes of a file. Magic-byte
// signatures are tried first, then http.DetectContentType; the filename
// extension is consulted only when the file is empty. Every Detection is
// tagged with the strategy that produced it.
//
// ValidateMedia runs the ordered checks and returns an Outcome:
//
//	out := filevalidator.ValidateMedia(path, 50, []string{"image/*", "video/mp4"}, nil)
//	if !out.Valid {
//	    log.Printf("%s: %s", out.Category.Label(), out.Message)
//	}
//
// Allow-lists accept exact MIME types, "type/*" wildcards and "*/*". They
// are matched by prefix, never expanded into a fixed list of known types.
package filevalidator
