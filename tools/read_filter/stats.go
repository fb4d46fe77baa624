package read_filter

import (
	"errors"
	"sort"
)

// ErrEmptyPopulation is returned when statistics are asked of no reads.
var ErrEmptyPopulation = errors.New("no reads to compute statistics over")

// ReadStats summarises a set of read lengths, in bases.
type ReadStats struct {
	Bases      int64
	Reads      int64
	MeanLength int64 // truncated
	N50        int64
	MaxLength  int64
}

// ComputeStats sums, counts and ranks lengths. The N50 is the length of the
// read, in descending order, at which the running total first reaches half of
// all bases.
func ComputeStats(lengths []int) (ReadStats, error) {
	if len(lengths) == 0 {
		return ReadStats{}, ErrEmptyPopulation
	}
	sorted := append([]int(nil), lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	var b ReadStats
	for _, l := range sorted {
		b.Bases += int64(l)
	}
	b.Reads = int64(len(sorted))
	b.MeanLength = b.Bases / b.Reads
	b.MaxLength = int64(sorted[0])

	// csum stores the cumulative sequence length
	var csum int64
	for _, l := range sorted {
		csum += int64(l)
		if 2*csum >= b.Bases {
			b.N50 = int64(l)
			break
		}
	}
	return b, nil
}
