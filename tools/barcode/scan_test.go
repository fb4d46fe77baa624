package barcode

import (
	"archive/tar"
	"os"
	"path/filepath"

	check "gopkg.in/check.v1"
)

func touch(c *check.C, path, data string) {
	c.Assert(os.MkdirAll(filepath.Dir(path), 0o755), check.IsNil)
	c.Assert(os.WriteFile(path, []byte(data), 0o644), check.IsNil)
}

func writeTar(c *check.C, path string, members ...string) {
	f, err := os.Create(path)
	c.Assert(err, check.IsNil)
	tw := tar.NewWriter(f)
	c.Assert(tw.WriteHeader(&tar.Header{Name: "batch/", Typeflag: tar.TypeDir, Mode: 0o755}), check.IsNil)
	for _, m := range members {
		c.Assert(tw.WriteHeader(&tar.Header{Name: m, Typeflag: tar.TypeReg, Mode: 0o644, Size: 1}), check.IsNil)
		_, err := tw.Write([]byte("x"))
		c.Assert(err, check.IsNil)
	}
	c.Assert(tw.Close(), check.IsNil)
	c.Assert(f.Close(), check.IsNil)
}

// makeCell lays out a small run directory with a linked fast5 dir and a tar.
func makeCell(c *check.C) string {
	root := c.MkDir()
	cell := filepath.Join(root, "cell")
	touch(c, filepath.Join(cell, "a.fastq"), "@r1\nACGT\n+\nIIII\n")
	touch(c, filepath.Join(cell, "sub", "b.fastq"), "@r2\nGG\n+\nII\n")
	touch(c, filepath.Join(cell, "sequencing_summary.txt"), "filename\tread_id\tmean_qscore_template\nx.fast5\tr1\t9\n")
	touch(c, filepath.Join(cell, "notes.md"), "ignored")
	touch(c, filepath.Join(root, "elsewhere", "c.fast5"), "x")
	c.Assert(os.Symlink(filepath.Join(root, "elsewhere"), filepath.Join(cell, "link")), check.IsNil)
	// loops back to the cell itself
	c.Assert(os.Symlink(cell, filepath.Join(cell, "sub", "up")), check.IsNil)
	writeTar(c, filepath.Join(cell, "reads.tar"), "batch/x.fast5", "batch/y.fast5")
	return cell
}

func (s *S) TestScanCell(c *check.C) {
	cell := makeCell(c)
	got, err := ScanCell(cell)
	c.Assert(err, check.IsNil)
	c.Check(got.Fastqs, check.DeepEquals, []string{
		filepath.Join(cell, "a.fastq"),
		filepath.Join(cell, "sub", "b.fastq"),
	})
	c.Check(got.Summaries, check.DeepEquals, []string{filepath.Join(cell, "sequencing_summary.txt")})
	c.Check(got.Fast5s, check.DeepEquals, []string{
		filepath.Join(cell, "link", "c.fast5"),
		filepath.Join(cell, "batch", "x.fast5"),
		filepath.Join(cell, "batch", "y.fast5"),
	})
}

func (s *S) TestScanCellNotDir(c *check.C) {
	dir := c.MkDir()
	touch(c, filepath.Join(dir, "f.txt"), "")
	_, err := ScanCell(filepath.Join(dir, "f.txt"))
	c.Check(err, check.ErrorMatches, `cell ".*f.txt" is not a directory`)
	_, err = ScanCell(filepath.Join(dir, "missing"))
	c.Check(err, check.NotNil)
}

func (s *S) TestScanOnce(c *check.C) {
	cell := makeCell(c)
	work := c.MkDir()
	st, err := OpenStore(work)
	c.Assert(err, check.IsNil)
	defer st.Close()

	first, err := ScanOnce(st, cell, work)
	c.Assert(err, check.IsNil)
	c.Check(first.Fastqs, check.HasLen, 2)

	loaded, err := LoadCell(work)
	c.Assert(err, check.IsNil)
	c.Check(loaded, check.DeepEquals, first)

	// a new fastq is not picked up while the recorded scan stands
	touch(c, filepath.Join(cell, "late.fastq"), "@r3\nA\n+\nI\n")
	again, err := ScanOnce(st, cell, work)
	c.Assert(err, check.IsNil)
	c.Check(again.Fastqs, check.HasLen, 2)

	// losing a list forces a rescan
	c.Assert(os.Remove(filepath.Join(work, FastqFofn)), check.IsNil)
	again, err = ScanOnce(st, cell, work)
	c.Assert(err, check.IsNil)
	c.Check(again.Fastqs, check.HasLen, 3)
}
