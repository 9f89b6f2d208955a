package filevalidator

import (
	"bytes"
	"encoding/binary"
	"net/http"
	"strings"
)

// headerSize is how much of a file is read for sniffing. 512 bytes covers
// every signature below and is what http.DetectContentType considers.
const headerSize = 512

// OctetStream is the MIME type reported when content cannot be classified.
const OctetStream = "application/octet-stream"

// MagicSignature defines a file type signature
type MagicSignature struct {
	MIME   string
	Offset int    // Offset from start of file
	Magic  []byte // Magic bytes to match
}

// magicSignatures is ordered by specificity, most specific first. It covers
// what journal exports carry (photos, video, audio, pdf) plus the types an
// import should be able to name when it rejects them.
var magicSignatures = []MagicSignature{
	// Images
	{MIME: "image/jpeg", Offset: 0, Magic: []byte{0xFF, 0xD8, 0xFF}},
	{MIME: "image/png", Offset: 0, Magic: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{MIME: "image/gif", Offset: 0, Magic: []byte("GIF87a")},
	{MIME: "image/gif", Offset: 0, Magic: []byte("GIF89a")},
	{MIME: "image/webp", Offset: 8, Magic: []byte("WEBP")},
	{MIME: "image/bmp", Offset: 0, Magic: []byte("BM")},
	{MIME: "image/tiff", Offset: 0, Magic: []byte{0x49, 0x49, 0x2A, 0x00}},
	{MIME: "image/tiff", Offset: 0, Magic: []byte{0x4D, 0x4D, 0x00, 0x2A}},
	{MIME: "image/heic", Offset: 4, Magic: []byte("ftypheic")},
	{MIME: "image/heic", Offset: 4, Magic: []byte("ftypheix")},
	{MIME: "image/heif", Offset: 4, Magic: []byte("ftypmif1")},
	{MIME: "image/avif", Offset: 4, Magic: []byte("ftypavif")},

	{MIME: "application/pdf", Offset: 0, Magic: []byte("%PDF-")},

	// Audio
	{MIME: "audio/mpeg", Offset: 0, Magic: []byte("ID3")},
	{MIME: "audio/mpeg", Offset: 0, Magic: []byte{0xFF, 0xFB}},
	{MIME: "audio/mpeg", Offset: 0, Magic: []byte{0xFF, 0xF3}},
	{MIME: "audio/mpeg", Offset: 0, Magic: []byte{0xFF, 0xF2}},
	{MIME: "audio/flac", Offset: 0, Magic: []byte("fLaC")},
	{MIME: "audio/ogg", Offset: 0, Magic: []byte("OggS")},
	{MIME: "audio/aac", Offset: 0, Magic: []byte{0xFF, 0xF1}},
	{MIME: "audio/aac", Offset: 0, Magic: []byte{0xFF, 0xF9}},
	{MIME: "audio/wav", Offset: 0, Magic: []byte("RIFF")}, // refined at offset 8

	// Video
	{MIME: "video/3gpp", Offset: 4, Magic: []byte("ftyp3g")},
	{MIME: "video/quicktime", Offset: 4, Magic: []byte("ftypqt")},
	{MIME: "video/mp4", Offset: 4, Magic: []byte("ftyp")}, // refined by brand
	{MIME: "video/quicktime", Offset: 4, Magic: []byte("moov")},
	{MIME: "video/quicktime", Offset: 4, Magic: []byte("mdat")},
	{MIME: "video/quicktime", Offset: 4, Magic: []byte("wide")},
	{MIME: "video/webm", Offset: 0, Magic: []byte{0x1A, 0x45, 0xDF, 0xA3}},

	// Containers and executables, named so rejections are informative
	{MIME: "application/zip", Offset: 0, Magic: []byte{0x50, 0x4B, 0x03, 0x04}},
	{MIME: "application/gzip", Offset: 0, Magic: []byte{0x1F, 0x8B}},
	{MIME: "application/x-msdownload", Offset: 0, Magic: []byte("MZ")},
	{MIME: "application/x-executable", Offset: 0, Magic: []byte{0x7F, 'E', 'L', 'F'}},
	{MIME: "application/x-mach-binary", Offset: 0, Magic: []byte{0xCF, 0xFA, 0xED, 0xFE}},
}

// sniff classifies a file header against the signature table, then
// http.DetectContentType. Unrecognised binary is OctetStream.
func sniff(header []byte) string {
	if len(header) == 0 {
		return OctetStream
	}

	if m := detectByMagic(header); m != "" {
		return refineDetection(header, m)
	}

	contentType := http.DetectContentType(header)
	if idx := strings.Index(contentType, ";"); idx > 0 {
		contentType = contentType[:idx]
	}
	return contentType
}

// DetectMIMEFromBytes detects the MIME type of a header or whole payload.
func DetectMIMEFromBytes(data []byte) string {
	if len(data) > headerSize {
		data = data[:headerSize]
	}
	return sniff(data)
}

func detectByMagic(data []byte) string {
	for _, sig := range magicSignatures {
		if sig.Offset+len(sig.Magic) > len(data) {
			continue
		}
		if bytes.Equal(data[sig.Offset:sig.Offset+len(sig.Magic)], sig.Magic) {
			return sig.MIME
		}
	}
	return ""
}

// refineDetection handles formats that share a container signature.
func refineDetection(data []byte, initial string) string {
	switch initial {
	case "audio/wav":
		if len(data) >= 12 {
			switch string(data[8:12]) {
			case "WAVE":
				return "audio/wav"
			case "AVI ":
				return "video/x-msvideo"
			case "WEBP":
				return "image/webp"
			}
		}
		return initial

	case "video/mp4":
		if len(data) >= 12 {
			switch string(data[8:12]) {
			case "M4A ":
				return "audio/mp4"
			case "M4V ":
				return "video/x-m4v"
			case "qt  ":
				return "video/quicktime"
			case "3gp4", "3gp5", "3gp6":
				return "video/3gpp"
			case "heic", "heix":
				return "image/heic"
			}
		}
		return initial

	case "image/bmp":
		if isBMPHeader(data) {
			return initial
		}
		// "BM" alone is two letters of text.
		return textOrBinary(data)

	default:
		return initial
	}
}

// bmpDIBHeaderSizes are the known BITMAPINFOHEADER variants.
var bmpDIBHeaderSizes = map[uint32]bool{12: true, 40: true, 52: true, 56: true, 108: true, 124: true}

// isBMPHeader checks the file header's size field and the DIB header size.
func isBMPHeader(data []byte) bool {
	if len(data) < 18 {
		return false
	}
	if binary.LittleEndian.Uint32(data[2:6]) < 14+12 {
		return false
	}
	return bmpDIBHeaderSizes[binary.LittleEndian.Uint32(data[14:18])]
}

// textOrBinary classifies a header that matched no signature the way
// http.DetectContentType does for unknown content.
func textOrBinary(data []byte) string {
	for _, b := range data {
		switch {
		case b <= 0x08, b == 0x0B, b >= 0x0E && b <= 0x1A, b >= 0x1C && b <= 0x1F:
			return OctetStream
		}
	}
	return "text/plain"
}
