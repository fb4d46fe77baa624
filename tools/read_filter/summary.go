package read_filter

import (
	"fmt"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"

	common "ontbc_go/utils"
)

const (
	// HeaderKey is the read-id column value of the summary header row
	HeaderKey = "read_id"
	// ScoreColumn holds the per-read mean quality score
	ScoreColumn = "mean_qscore_template"
)

// SummaryTable is a sequencing summary keyed by read id (column 1). The header
// row is kept apart and never returned by Get.
type SummaryTable struct {
	header []string
	rows   map[string][]string
}

func NewSummaryTable() *SummaryTable {
	return &SummaryTable{rows: make(map[string][]string)}
}

// Add stores a row under its read id; the row whose id is "read_id" becomes the header.
func (t *SummaryTable) Add(fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("summary row has %d field(s), need at least 2: %q", len(fields), fields)
	}
	if fields[1] == HeaderKey {
		t.header = fields
		return nil
	}
	t.rows[fields[1]] = fields
	return nil
}

// LoadSummary reads a summary file; an empty sep splits on whitespace.
func LoadSummary(path, sep string) (*SummaryTable, error) {
	log.Infof("Parse ont summary from %q", path)
	t := NewSummaryTable()
	if err := common.StreamTSV(path, sep, t.Add); err != nil {
		return nil, err
	}
	return t, nil
}

// Header returns the column names, nil when the file had no header row.
func (t *SummaryTable) Header() []string { return t.header }

func (t *SummaryTable) Get(readID string) ([]string, bool) {
	row, ok := t.rows[readID]
	return row, ok
}

// Len is the number of reads, header excluded.
func (t *SummaryTable) Len() int { return len(t.rows) }

// Empty reports whether nothing, not even a header, was loaded.
func (t *SummaryTable) Empty() bool {
	return t == nil || (t.header == nil && len(t.rows) == 0)
}

// ColumnIndex resolves a header column by name.
func (t *SummaryTable) ColumnIndex(name string) (int, error) {
	if t.header == nil {
		return 0, fmt.Errorf("%w: summary has no %q header row", ErrMissingColumn, HeaderKey)
	}
	for i, col := range t.header {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

// ScoreFunc looks up the quality score of a read. found is false for reads the
// summary does not know.
type ScoreFunc func(readID string) (score float64, found bool, err error)

// Scorer returns a ScoreFunc reading the mean_qscore_template column.
func (t *SummaryTable) Scorer() (ScoreFunc, error) {
	idx, err := t.ColumnIndex(ScoreColumn)
	if err != nil {
		return nil, err
	}
	return func(readID string) (float64, bool, error) {
		row, ok := t.rows[readID]
		if !ok {
			return 0, false, nil
		}
		if idx >= len(row) {
			return 0, true, fmt.Errorf("read %q: summary row has no %s field", readID, ScoreColumn)
		}
		score, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return 0, true, fmt.Errorf("read %q: bad %s: %w", readID, ScoreColumn, err)
		}
		return score, true, nil
	}, nil
}

// LoadFast5List maps the basename of each listed fast5 path to the path.
func LoadFast5List(path string) (map[string]string, error) {
	if _, err := common.CheckPath(path); err != nil {
		return nil, err
	}
	log.Infof("Parse fast5 from %q", path)
	r := make(map[string]string)
	err := common.StreamTSV(path, "\t", func(fields []string) error {
		r[filepath.Base(fields[0])] = fields[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
