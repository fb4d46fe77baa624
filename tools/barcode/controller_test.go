package barcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	check "gopkg.in/check.v1"
)

// fakeOntbc stands in for the ontbc binary inside task scripts.
const fakeOntbc = `#!/bin/sh
case "$1" in
clean) cat "$2" ;;
filter)
  while [ $# -gt 0 ]; do
    if [ "$1" = "--out" ]; then out=$2; fi
    shift
  done
  cp "$out.fastq" "$out.filtered.fastq"
  echo "read_id" > "$out.filtered.summary.txt"
  ;;
esac
`

// fakePorechop bins every read into BC01.
const fakePorechop = `#!/bin/sh
cp clean.fastq BC01.fastq
`

func script(c *check.C, dir, name, body string) string {
	path := filepath.Join(dir, name)
	c.Assert(os.WriteFile(path, []byte(body), 0o755), check.IsNil)
	return path
}

func (s *S) TestRunEndToEnd(c *check.C) {
	cell := makeCell(c)
	bin := c.MkDir()
	base := c.MkDir()
	opts := Options{
		Cell:     cell,
		Barcodes: []string{"BC01", "BC02"},
		JobType:  "local",
		Threads:  2,
		WorkDir:  filepath.Join(base, "work"),
		OutDir:   filepath.Join(base, "out"),
		Settings: []string{
			"ontbc_bin=" + script(c, bin, "ontbc", fakeOntbc),
			"porechop_bin=" + script(c, bin, "porechop", fakePorechop),
		},
		Quiet: true,
	}
	c.Assert(Run(context.Background(), opts), check.IsNil)

	out := filepath.Join(base, "out")
	work := filepath.Join(base, "work")
	c.Check(readFile(c, filepath.Join(out, "BC01", "BC01.fastq")), check.Equals,
		"@r1\nACGT\n+\nIIII\n@r2\nGG\n+\nII\n")
	c.Check(readFile(c, filepath.Join(out, "BC01", "BC01.summary.txt")), check.Equals, "read_id\n")
	_, err := os.Stat(filepath.Join(out, "BC01", "BC01.filtered.fastq"))
	c.Check(os.IsNotExist(err), check.Equals, true)

	// no reads landed in BC02, so it is not filtered
	c.Check(readFile(c, filepath.Join(out, "BC02", "BC02.fastq")), check.Equals, "")
	_, err = os.Stat(filepath.Join(out, "BC02", "BC02.summary.txt"))
	c.Check(os.IsNotExist(err), check.Equals, true)

	c.Check(readFile(c, filepath.Join(work, AllSummary)), check.Equals,
		readFile(c, filepath.Join(cell, "sequencing_summary.txt")))
	_, err = os.Stat(filepath.Join(work, "bc_1", "BC01.fastq"))
	c.Check(os.IsNotExist(err), check.Equals, true)
	_, err = os.Stat(filepath.Join(work, "bc_1", "clean.fastq"))
	c.Check(os.IsNotExist(err), check.Equals, true)

	// a rerun finds everything done
	c.Assert(Run(context.Background(), opts), check.IsNil)

	// a forced rerun redoes the named task
	summary := filepath.Join(out, "BC01", "BC01.summary.txt")
	c.Assert(os.Remove(summary), check.IsNil)
	c.Assert(Run(context.Background(), opts), check.IsNil)
	_, err = os.Stat(summary)
	c.Check(os.IsNotExist(err), check.Equals, true)
	opts.Rerun = []string{"join_BC01"}
	c.Assert(Run(context.Background(), opts), check.IsNil)
	c.Check(readFile(c, summary), check.Equals, "read_id\n")

	opts.Rerun = []string{"scan_cell"}
	c.Assert(os.Remove(summary), check.IsNil)
	c.Assert(Run(context.Background(), opts), check.IsNil)
	c.Check(readFile(c, summary), check.Equals, "read_id\n")

	opts.Rerun = []string{"join_BC09"}
	c.Check(errors.Is(Run(context.Background(), opts), ErrConfig), check.Equals, true)
}

func (s *S) TestRunRejectsSettings(c *check.C) {
	base := c.MkDir()
	opts := Options{Cell: base, Barcodes: []string{"BC01"}, JobType: "sge", Threads: 1,
		WorkDir: filepath.Join(base, "w"), OutDir: filepath.Join(base, "o")}
	c.Check(errors.Is(Run(context.Background(), opts), ErrConfig), check.Equals, true)

	opts.JobType = "local"
	opts.Threads = 0
	c.Check(errors.Is(Run(context.Background(), opts), ErrConfig), check.Equals, true)

	opts.Threads = 1
	opts.Settings = []string{"porechop_bin_typo=x"}
	c.Check(errors.Is(Run(context.Background(), opts), ErrConfig), check.Equals, true)

	opts.Settings = []string{"porechop_threads=0"}
	c.Check(errors.Is(Run(context.Background(), opts), ErrConfig), check.Equals, true)
}

func (s *S) TestCommandRequiresBarcode(c *check.C) {
	cmd := Command()
	cmd.SilenceUsage, cmd.SilenceErrors = true, true
	cmd.SetArgs([]string{c.MkDir()})
	c.Check(cmd.Execute(), check.ErrorMatches, `required flag\(s\) "barcode" not set`)
}

func (s *S) TestCommandBarcodeList(c *check.C) {
	cell := makeCell(c)
	bin := c.MkDir()
	base := c.MkDir()
	cmd := Command()
	c.Check(cmd.Flags().Lookup("threads").DefValue, check.Equals, "1")

	cmd.SilenceUsage, cmd.SilenceErrors = true, true
	cmd.SetArgs([]string{cell, "--barcode", "BC01", "BC02",
		"--work_dir", filepath.Join(base, "work"),
		"--out_dir", filepath.Join(base, "out"),
		"--set", "ontbc_bin=" + script(c, bin, "ontbc", fakeOntbc),
		"--set", "porechop_bin=" + script(c, bin, "porechop", fakePorechop),
		"--quiet"})
	c.Assert(cmd.Execute(), check.IsNil)
	c.Check(readFile(c, filepath.Join(base, "out", "BC01", "BC01.summary.txt")), check.Equals, "read_id\n")
	c.Check(readFile(c, filepath.Join(base, "out", "BC02", "BC02.fastq")), check.Equals, "")
}

func readFile(c *check.C, path string) string {
	b, err := os.ReadFile(path)
	c.Assert(err, check.IsNil)
	return string(b)
}
