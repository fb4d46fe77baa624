package read_filter

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// QScoreSummary describes the mean_qscore_template values of a read set.
type QScoreSummary struct {
	Reads  int
	Mean   float64
	StdDev float64
	Min    float64
}

// SummarizeScores collects the score of every named read the summary knows.
// Reads missing from the summary are left out.
func SummarizeScores(names []string, score ScoreFunc) (QScoreSummary, error) {
	var scores []float64
	for _, name := range names {
		s, found, err := score(ReadID(name))
		if err != nil {
			return QScoreSummary{}, err
		}
		if found {
			scores = append(scores, s)
		}
	}
	if len(scores) == 0 {
		return QScoreSummary{}, nil
	}
	mean, std := stat.MeanStdDev(scores, nil)
	if len(scores) < 2 || math.IsNaN(std) {
		std = 0
	}
	return QScoreSummary{
		Reads:  len(scores),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(scores),
	}, nil
}
