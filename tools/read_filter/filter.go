package read_filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrConfig marks invalid filter settings.
	ErrConfig = errors.New("invalid filter configuration")
	// ErrMissingColumn is returned when the summary lacks a required column.
	ErrMissingColumn = fmt.Errorf("%w: missing summary column", ErrConfig)
)

// Policy selects reads. MaxBases of 0 means no cap. HasMinScore must be set
// exactly when a summary is supplied.
type Policy struct {
	MinScore    float64
	HasMinScore bool
	MinLength   int
	MaxBases    int64
}

// ReadID is the part of a read name before the first whitespace.
func ReadID(name string) string {
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		return name[:i]
	}
	return name
}

// Filter checks that scoring and summary agree, then runs FilterReads.
func Filter(lengths *LengthMap, summary *SummaryTable, p Policy) (*LengthMap, error) {
	hasSummary := !summary.Empty()
	if p.HasMinScore != hasSummary {
		return nil, fmt.Errorf("%w: --min_score and --summary must be defined together", ErrConfig)
	}
	var score ScoreFunc
	if hasSummary {
		var err error
		if score, err = summary.Scorer(); err != nil {
			return nil, err
		}
	}
	return FilterReads(lengths, score, p)
}

// FilterReads keeps reads longest first. A nil score accepts every read.
//
// Reads scoring below MinScore are skipped without ending the scan, since
// score is unrelated to the length order. The first read shorter than
// MinLength ends it, and so does the read that pushes the accepted total
// past MaxBases (that read is kept).
func FilterReads(lengths *LengthMap, score ScoreFunc, p Policy) (*LengthMap, error) {
	if p.MinLength > 0 || p.MaxBases == 0 {
		log.Infof("Filter sequences with score >= %s, length >= %d", scoreLabel(p), p.MinLength)
	} else {
		log.Infof("Filter sequences with score >= %s, total bases >= %d", scoreLabel(p), p.MaxBases)
	}

	order := make([]int, lengths.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return lengths.lengths[order[i]] > lengths.lengths[order[j]]
	})

	r := NewLengthMap()
	var sumBases int64
	for _, i := range order {
		name, length := lengths.names[i], lengths.lengths[i]

		if score != nil {
			id := ReadID(name)
			s, found, err := score(id)
			if err != nil {
				return nil, err
			}
			if !found {
				log.Warnf("read %q not in summary", name)
				continue
			}
			if s < p.MinScore {
				log.Debugf("read %q score < %v", id, p.MinScore)
				continue
			}
		}

		if length < p.MinLength {
			break
		}

		sumBases += int64(length)
		r.Set(name, length)

		if p.MaxBases > 0 && sumBases > p.MaxBases {
			break
		}
	}
	return r, nil
}

func scoreLabel(p Policy) string {
	if !p.HasMinScore {
		return "None"
	}
	return fmt.Sprint(p.MinScore)
}
