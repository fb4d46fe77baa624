package fastx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// ErrFormat is returned for files whose name does not carry a sequence extension.
var ErrFormat = errors.New("unrecognized sequence file format")

var extensions = []string{".fastq", ".fq"}

// IsCompressed reports whether path names a gzip-compressed sequence file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// CheckExtension accepts .fastq/.fq, optionally gzipped.
func CheckExtension(path string) error {
	base := strings.TrimSuffix(path, ".gz")
	for _, ext := range extensions {
		if strings.HasSuffix(base, ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFormat, path)
}

// File is a Reader bound to an open sequence file.
type File struct {
	*Reader
	f  *os.File
	gz *pgzip.Reader
}

// Open opens a plain or gzip-compressed FASTQ file for one pass of reading.
func Open(path string) (*File, error) {
	if err := CheckExtension(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return &File{Reader: NewReader(f), f: f}, nil
	}
	gz, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open gzip reader: %w", err)
	}
	return &File{Reader: NewReader(gz), f: f, gz: gz}, nil
}

func (f *File) Close() error {
	if f.gz != nil {
		f.gz.Close()
	}
	return f.f.Close()
}

// Each opens path and calls fn for every record until fn fails or the file ends.
func Each(path string, fn func(*Record) error) error {
	f, err := Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for {
		rec, err := f.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
