// Common package contains commonly used functions that benefit multiple tools
// Exporting these functions from the Common package reduces redundant code
package common

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shenwei356/xopen"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type TSVHandler func(fields []string) error

// StreamTSV reads a delimited text file (plain or compressed) and calls handler
// once per data line. Lines are trimmed; empty lines and lines starting with '#'
// are skipped. An empty sep splits on runs of whitespace. An empty file has no
// data lines.
func StreamTSV(file string, sep string, handler TSVHandler) error {
	fh, err := xopen.Ropen(file)
	if errors.Is(err, xopen.ErrNoContent) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer fh.Close()

	for {
		line, err := fh.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "#") {
				var fields []string
				if sep == "" {
					fields = strings.Fields(line)
				} else {
					fields = strings.Split(line, sep)
				}
				if herr := handler(fields); herr != nil {
					return herr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
	}
}

// ReadColumn returns the first field of every data line (fofn-style lists).
func ReadColumn(file string) ([]string, error) {
	var out []string
	err := StreamTSV(file, "\t", func(fields []string) error {
		out = append(out, fields[0])
		return nil
	})
	return out, err
}

// WriteLines writes one entry per line, creating or truncating file.
func WriteLines(file string, lines []string) error {
	fh, err := xopen.Wopen(file)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	for _, l := range lines {
		if _, err := fh.WriteString(l + "\n"); err != nil {
			fh.Close()
			return fmt.Errorf("write %s: %w", file, err)
		}
	}
	return fh.Close()
}

// CheckPath returns the absolute form of path, failing when it does not exist.
func CheckPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("file not found %q: %w", abs, err)
	}
	return abs, nil
}

// Mkdir creates d (and parents) when missing and returns its absolute path.
func Mkdir(d string) (string, error) {
	abs, err := filepath.Abs(d)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

var printer = message.NewPrinter(language.English)

// Comma formats n with thousands separators, e.g. 1234567 -> "1,234,567".
func Comma(n int64) string {
	return printer.Sprintf("%d", n)
}
