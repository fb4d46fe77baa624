package barcode

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	common "ontbc_go/utils"
)

// File lists written to the work dir by a scan
const (
	FastqFofn   = "fastq.fofn"
	SummaryFofn = "summary.fofn"
	Fast5Fofn   = "fast5.fofn"
)

// scanKey records a finished scan in the status store.
const scanKey = "scan_cell"

// Cell lists the run files found under one sequencing cell directory.
type Cell struct {
	Fastqs    []string
	Summaries []string
	Fast5s    []string
}

// ScanCell walks dir, following directory symlinks, and sorts files by
// extension. Members of .tar archives count as fast5 files next to the archive.
func ScanCell(dir string) (*Cell, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cell %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cell %q is not a directory", dir)
	}
	c := &Cell{}
	if err := c.walk(dir, make(map[string]bool)); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cell) walk(dir string, seen map[string]bool) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	// linked back into a visited directory
	if seen[resolved] {
		return nil
	}
	seen[resolved] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				log.Warnf("skip broken link %q", path)
				continue
			}
			isDir = info.IsDir()
		}
		if isDir {
			if err := c.walk(path, seen); err != nil {
				return err
			}
			continue
		}
		if err := c.add(path); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cell) add(path string) error {
	switch {
	case strings.HasSuffix(path, ".fastq"):
		c.Fastqs = append(c.Fastqs, path)
	case strings.HasSuffix(path, ".txt"):
		c.Summaries = append(c.Summaries, path)
	case strings.HasSuffix(path, ".fast5"):
		c.Fast5s = append(c.Fast5s, path)
	case strings.HasSuffix(path, ".tar"):
		members, err := tarMembers(path)
		if err != nil {
			return err
		}
		c.Fast5s = append(c.Fast5s, members...)
	}
	return nil
}

// tarMembers lists the regular files of a tar archive as paths beside it.
func tarMembers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var out []string
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read tar %s: %w", path, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			out = append(out, filepath.Join(dir, hdr.Name))
		}
	}
}

// WriteFofns stores the three lists under workDir.
func (c *Cell) WriteFofns(workDir string) error {
	for name, list := range map[string][]string{
		FastqFofn:   c.Fastqs,
		SummaryFofn: c.Summaries,
		Fast5Fofn:   c.Fast5s,
	} {
		if err := common.WriteLines(filepath.Join(workDir, name), list); err != nil {
			return err
		}
	}
	return nil
}

// LoadCell reads back the lists written by WriteFofns.
func LoadCell(workDir string) (*Cell, error) {
	c := &Cell{}
	for _, f := range []struct {
		name string
		dst  *[]string
	}{
		{FastqFofn, &c.Fastqs},
		{SummaryFofn, &c.Summaries},
		{Fast5Fofn, &c.Fast5s},
	} {
		list, err := common.ReadColumn(filepath.Join(workDir, f.name))
		if err != nil {
			return nil, err
		}
		*f.dst = list
	}
	return c, nil
}

// ScanOnce scans cellDir unless the store says this cell was already scanned
// into workDir and the lists are still there.
func ScanOnce(store *Store, cellDir, workDir string) (*Cell, error) {
	log.Infof("find fastq, summary and fast5 files in %q", cellDir)
	abs, err := filepath.Abs(cellDir)
	if err != nil {
		return nil, err
	}
	digest := Digest(abs)

	done, err := store.Done(scanKey, digest)
	if err != nil {
		return nil, err
	}
	var c *Cell
	if done {
		if c, err = LoadCell(workDir); err != nil {
			log.Warnf("rescan %q: %v", cellDir, err)
		}
	}
	if c == nil {
		if c, err = ScanCell(abs); err != nil {
			return nil, err
		}
		if err := c.WriteFofns(workDir); err != nil {
			return nil, err
		}
		if err := store.MarkDone(scanKey, digest); err != nil {
			return nil, err
		}
	}
	log.Infof("%d fastq, %d summary and %d fast5 files found", len(c.Fastqs), len(c.Summaries), len(c.Fast5s))
	return c, nil
}
