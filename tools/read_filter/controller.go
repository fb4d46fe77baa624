package read_filter

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Options are the inputs of one filter run.
type Options struct {
	Fastq   string
	Summary string
	Sep     string // summary separator, "" for whitespace
	Fast5   string
	Out     string
	Policy  Policy
}

// Result is what a run computed, returned for callers that want more than files.
type Result struct {
	Retained *LengthMap
	Raw      ReadStats
	Filtered ReadStats
}

// Command builds the "filter" subcommand.
func Command() *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter ont reads with length or qscore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Policy.HasMinScore = cmd.Flags().Changed("min_score")
			_, err := Run(opts)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.Fastq, "fastq", "", "Input .fastq (or .fq, optionally .gz)")
	fs.StringVar(&opts.Summary, "summary", "", "Ont summary file")
	fs.Float64Var(&opts.Policy.MinScore, "min_score", 0, "Minimum read Q score, use with --summary")
	fs.StringVar(&opts.Fast5, "fast5", "", "fast5 path file")
	fs.IntVar(&opts.Policy.MinLength, "min_length", 0, "Minimum read length")
	fs.Int64Var(&opts.Policy.MaxBases, "max_bases", 0, "Maximum number of total bases")
	fs.StringVar(&opts.Sep, "sep", "", "Summary field separator (default: whitespace)")
	fs.StringVar(&opts.Out, "out", "out", "Out prefix")
	cmd.MarkFlagRequired("fastq")
	cmd.MarkFlagsMutuallyExclusive("min_length", "max_bases")
	return cmd
}

// Run filters opts.Fastq and writes every output file.
func Run(opts Options) (*Result, error) {
	if opts.Policy.HasMinScore != (opts.Summary != "") {
		return nil, fmt.Errorf("%w: --min_score and --summary must be defined together", ErrConfig)
	}
	if opts.Policy.MinLength < 0 || opts.Policy.MaxBases < 0 {
		return nil, fmt.Errorf("%w: --min_length and --max_bases must not be negative", ErrConfig)
	}

	raw, err := GetLengths(opts.Fastq)
	if err != nil {
		return nil, err
	}

	var summary *SummaryTable
	if opts.Summary != "" {
		if summary, err = LoadSummary(opts.Summary, opts.Sep); err != nil {
			return nil, err
		}
	}

	retained, err := Filter(raw, summary, opts.Policy)
	if err != nil {
		return nil, err
	}

	res := &Result{Retained: retained}
	if res.Raw, err = ComputeStats(raw.Lengths()); err != nil {
		return nil, fmt.Errorf("raw reads: %w", err)
	}
	if res.Filtered, err = ComputeStats(retained.Lengths()); err != nil {
		return nil, fmt.Errorf("filtered reads: %w", err)
	}
	log.Infof("Kept %d of %d reads (%d of %d bases)",
		res.Filtered.Reads, res.Raw.Reads, res.Filtered.Bases, res.Raw.Bases)

	if summary != nil {
		score, err := summary.Scorer()
		if err != nil {
			return nil, err
		}
		q, err := SummarizeScores(retained.Names(), score)
		if err != nil {
			return nil, err
		}
		log.Infof("Filtered reads mean qscore %.2f (sd %.2f, min %.2f, n=%d)", q.Mean, q.StdDev, q.Min, q.Reads)
	}

	if err := WriteStatsTable(opts.Out, res.Raw, res.Filtered); err != nil {
		return nil, err
	}

	var fast5 map[string]string
	if opts.Fast5 != "" {
		if fast5, err = LoadFast5List(opts.Fast5); err != nil {
			return nil, err
		}
	}

	if err := WriteFiltered(opts.Out, opts.Fastq, retained, summary, fast5); err != nil {
		return nil, err
	}
	return res, nil
}
