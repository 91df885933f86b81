package threatintel

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// EntryFunc receives one archive member. The reader is only valid for the
// duration of the call.
type EntryFunc func(name string, r io.Reader) error

// WalkArchive yields every regular member of content, in archive order. The
// container is sniffed from content. A gzip stream that does not hold a tar
// is yielded as a single member named after its gzip header.
// Errors returned by fn are passed through untouched.
func WalkArchive(content []byte, fn EntryFunc) error {
	switch DetectArchive(content) {
	case ZipArchive:
		return walkZip(content, fn)
	case GzipArchive:
		return walkGzip(content, fn)
	case TarArchive:
		return walkTar(bytes.NewReader(content), fn)
	default:
		return fmt.Errorf("%w: unrecognized archive format", ErrArchive)
	}
}

func walkGzip(content []byte, fn EntryFunc) error {
	gzipReader, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%w: failed to create gzip reader: %w", ErrArchive, err)
	}
	defer gzipReader.Close()

	plain, err := io.ReadAll(gzipReader)
	if err != nil {
		return fmt.Errorf("%w: failed to decompress: %w", ErrArchive, err)
	}

	if DetectArchive(plain) == TarArchive {
		return walkTar(bytes.NewReader(plain), fn)
	}
	return fn(gzipReader.Name, bytes.NewReader(plain))
}

func walkZip(content []byte, fn EntryFunc) error {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return fmt.Errorf("%w: failed to open zip: %w", ErrArchive, err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("%w: failed to open %s: %w", ErrArchive, f.Name, err)
		}
		err = fn(f.Name, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func walkTar(r io.Reader, fn EntryFunc) error {
	tarReader := tar.NewReader(r)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to read tar file: %w", ErrArchive, err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		if err := fn(header.Name, tarReader); err != nil {
			return err
		}
	}
}
