package read_filter

import (
	"fmt"
	"io"
	"strings"

	"github.com/shenwei356/xopen"
	log "github.com/sirupsen/logrus"

	"ontbc_go/tools/fastx"
	common "ontbc_go/utils"
)

const statsHeader = "#Type\tBases (bp)\tReads number\tReads mean length (bp)\tReads N50 (bp)\tLongest Reads (bp)\n"

func statsRow(label string, b ReadStats) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\n", label,
		common.Comma(b.Bases),
		common.Comma(b.Reads),
		common.Comma(b.MeanLength),
		common.Comma(b.N50),
		common.Comma(b.MaxLength),
	)
}

// FormatStatsTable renders the raw/filtered comparison table.
func FormatStatsTable(raw, filtered ReadStats) string {
	return statsHeader + statsRow("Raw Reads", raw) + statsRow("Filtered Reads", filtered)
}

// WriteStatsTable writes <out>.reads_stat.tsv.
func WriteStatsTable(out string, raw, filtered ReadStats) error {
	return writeFile(out+".reads_stat.tsv", func(w io.Writer) error {
		_, err := io.WriteString(w, FormatStatsTable(raw, filtered))
		return err
	})
}

func writeFile(path string, fill func(io.Writer) error) error {
	fh, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fill(fh); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}

// outputs holds the writers of one filtered-output pass.
type outputs struct {
	fastq   *fastx.Writer
	summary io.Writer
	fast5   []string
}

// WriteFiltered re-reads fastq and writes the retained reads to
// <out>.filtered.fastq, their summary rows to <out>.filtered.summary.txt (with
// a summary only) and their fast5 paths to <out>.fast5.list (when any is known).
func WriteFiltered(out, fastq string, retained *LengthMap, summary *SummaryTable, fast5 map[string]string) error {
	log.Info("Output results")

	var fqh, sh *xopen.Writer
	defer func() {
		// only reached with open handles on an error path
		if fqh != nil {
			fqh.Close()
		}
		if sh != nil {
			sh.Close()
		}
	}()

	fqh, err := xopen.Wopen(out + ".filtered.fastq")
	if err != nil {
		return fmt.Errorf("failed to create %s.filtered.fastq: %w", out, err)
	}
	o := outputs{fastq: fastx.NewWriter(fqh)}

	withSummary := !summary.Empty()
	if withSummary {
		sh, err = xopen.Wopen(out + ".filtered.summary.txt")
		if err != nil {
			return fmt.Errorf("failed to create %s.filtered.summary.txt: %w", out, err)
		}
		if _, err := io.WriteString(sh, strings.Join(summary.Header(), "\t")+"\n"); err != nil {
			return err
		}
		o.summary = sh
	}

	err = fastx.Each(fastq, func(rec *fastx.Record) error {
		if !retained.Has(rec.Name) {
			return nil
		}
		if err := o.fastq.Write(rec); err != nil {
			return err
		}
		if !withSummary {
			return nil
		}
		row, ok := summary.Get(ReadID(rec.Name))
		if !ok {
			return nil
		}
		if _, err := io.WriteString(o.summary, strings.Join(row, "\t")+"\n"); err != nil {
			return err
		}
		if p, ok := fast5[row[0]]; ok {
			o.fast5 = append(o.fast5, p)
		} else if fast5 != nil {
			log.Debugf("read %q: no fast5 entry for %q", rec.Name, row[0])
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := o.fastq.Flush(); err != nil {
		return err
	}
	err, fqh = fqh.Close(), nil
	if err != nil {
		return err
	}
	if sh != nil {
		err, sh = sh.Close(), nil
		if err != nil {
			return err
		}
	}

	if len(o.fast5) > 0 {
		return common.WriteLines(out+".fast5.list", o.fast5)
	}
	return nil
}
