package barcode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrConfig marks unusable barcode settings.
var ErrConfig = errors.New("invalid barcode configuration")

// AllSummary is the concatenated sequencing summary in the work dir.
const AllSummary = "all.summary.txt"

// Settings describe one demultiplexing run. Dirs must be absolute.
type Settings struct {
	Barcodes        []string
	WorkDir         string
	OutDir          string
	Ontbc           string
	Porechop        string
	PorechopThreads int
}

// BuildPipeline lays out the demultiplexing tasks for a scanned cell:
// bc_<i> trims and bins each fastq, join_summary merges the summaries,
// cat_<BC> gathers one barcode's bins and join_<BC> filters it against the
// merged summary.
func BuildPipeline(c *Cell, s Settings) (*Pipeline, error) {
	if len(s.Barcodes) == 0 {
		return nil, fmt.Errorf("%w: no barcode given", ErrConfig)
	}
	if len(c.Fastqs) == 0 {
		return nil, fmt.Errorf("%w: no fastq found in cell", ErrConfig)
	}
	if len(c.Summaries) == 0 {
		return nil, fmt.Errorf("%w: no sequencing summary found in cell", ErrConfig)
	}
	for _, bc := range s.Barcodes {
		if bc == "" || strings.ContainsAny(bc, "/*?[ \t") {
			return nil, fmt.Errorf("%w: bad barcode name %q", ErrConfig, bc)
		}
	}

	p := NewPipeline()
	var bins []*Task
	for i, fq := range c.Fastqs {
		name := fmt.Sprintf("bc_%d", i+1)
		t, err := p.Add(name, filepath.Join(s.WorkDir, name), porechopScript(fq, s))
		if err != nil {
			return nil, err
		}
		bins = append(bins, t)
	}

	joinSummary, err := p.Add("join_summary", s.WorkDir, joinSummaryScript(c.Summaries))
	if err != nil {
		return nil, err
	}

	for _, bc := range s.Barcodes {
		cat, err := p.Add("cat_"+bc, s.WorkDir, catScript(bc, s))
		if err != nil {
			return nil, err
		}
		if err := p.After(cat, bins...); err != nil {
			return nil, err
		}
		join, err := p.Add("join_"+bc, filepath.Join(s.OutDir, bc), joinScript(bc, s))
		if err != nil {
			return nil, err
		}
		if err := p.After(join, cat, joinSummary); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func porechopScript(fastq string, s Settings) string {
	return fmt.Sprintf(`%s clean %s > clean.fastq
%s -i clean.fastq -b . -t %d --verbosity 2 --no_split > porechop.log
rm -f clean.fastq
`, quote(s.Ontbc), quote(fastq), quote(s.Porechop), s.PorechopThreads)
}

func joinSummaryScript(summaries []string) string {
	quoted := make([]string, len(summaries))
	for i, f := range summaries {
		quoted[i] = quote(f)
	}
	return fmt.Sprintf("cat %s > %s\n", strings.Join(quoted, " "), AllSummary)
}

func catScript(bc string, s Settings) string {
	dest := quote(filepath.Join(s.OutDir, bc, bc+".fastq"))
	return fmt.Sprintf(`mkdir -p %s
: > %s
for f in bc_*/%s.fastq; do
  if [ -e "$f" ]; then cat "$f" >> %s; fi
done
rm -f bc_*/%s.fastq
`, quote(filepath.Join(s.OutDir, bc)), dest, bc, dest, bc)
}

func joinScript(bc string, s Settings) string {
	return fmt.Sprintf(`if [ ! -s %[1]s.fastq ]; then
  echo "no reads for %[1]s"
  exit 0
fi
%[2]s filter --fastq %[1]s.fastq --summary %[3]s --fast5 %[4]s \
  --min_score -100 --min_length 0 --out %[1]s
rm -f %[1]s.filtered.fastq
mv %[1]s.filtered.summary.txt %[1]s.summary.txt
`, bc, quote(s.Ontbc), quote(filepath.Join(s.WorkDir, AllSummary)), quote(filepath.Join(s.WorkDir, Fast5Fofn)))
}

// quote makes s a single shell word.
func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
