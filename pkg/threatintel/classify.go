package threatintel

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format is how a feed body gets parsed.
type Format int

const (
	LineText Format = iota
	Archive
)

func (f Format) String() string {
	if f == Archive {
		return "archive"
	}
	return "text"
}

type ArchiveFormat int

const (
	UnknownArchive ArchiveFormat = iota
	ZipArchive
	GzipArchive
	TarArchive
)

var archiveContentTypes = map[string]struct{}{
	"application/zip":              {},
	"application/x-zip-compressed": {},
	"application/gzip":             {},
	"application/x-gzip":           {},
	"application/x-tar":            {},
	"application/x-gtar":           {},
	"application/x-compressed-tar": {},
}

// Classify picks the parser for a response. An explicit hint wins, then the
// declared content type. Bodies served without a useful type are sniffed and
// only treated as archives when their magic bytes say so.
func Classify(kind ContentKind, contentType string, body []byte) Format {
	switch kind {
	case KindText:
		return LineText
	case KindArchive:
		return Archive
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	if _, ok := archiveContentTypes[mediaType]; ok {
		return Archive
	}
	if mediaType == "" || mediaType == "application/octet-stream" || mediaType == "binary/octet-stream" {
		if DetectArchive(body) != UnknownArchive {
			return Archive
		}
	}
	return LineText
}

// DetectArchive sniffs the archive container from magic bytes.
func DetectArchive(content []byte) ArchiveFormat {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		switch {
		case m.Is("application/zip"):
			return ZipArchive
		case m.Is("application/gzip"):
			return GzipArchive
		case m.Is("application/x-tar"):
			return TarArchive
		}
	}
	return UnknownArchive
}
