package barcode

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ontbc_go/config"
	common "ontbc_go/utils"
)

// Options are the command-line inputs of a barcode run.
type Options struct {
	Cell     string
	Barcodes []string
	JobType  string
	Threads  int
	WorkDir  string
	OutDir   string
	Settings []string // key=value pairs for config.Load
	Rerun    []string // tasks to redo with their downstream, or "scan_cell"
	Quiet    bool     // no progress bar
}

// Command builds the "barcode" subcommand.
func Command() *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:   "barcode CELL --barcode BC01 [BC02 ...]",
		Short: "Split barcode for ONT data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// words after --barcode land here as positionals
			opts.Cell = args[0]
			opts.Barcodes = append(opts.Barcodes, args[1:]...)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringSliceVar(&opts.Barcodes, "barcode", nil, "Barcodes to keep, e.g. --barcode BC01 BC02")
	fs.StringVar(&opts.JobType, "job_type", "local", "Job type, only local is supported")
	fs.IntVar(&opts.Threads, "threads", 1, "Concurrent tasks")
	fs.StringVar(&opts.WorkDir, "work_dir", "work", "Work directory")
	fs.StringVar(&opts.OutDir, "out_dir", "out", "Output directory")
	fs.StringArrayVar(&opts.Settings, "set", nil, "Tool setting key=value (porechop_bin, porechop_threads, ontbc_bin)")
	fs.StringArrayVar(&opts.Rerun, "rerun", nil, "Redo a task and everything after it (task name or scan_cell)")
	fs.BoolVar(&opts.Quiet, "quiet", false, "Hide the progress bar")
	cmd.MarkFlagRequired("barcode")
	return cmd
}

// Run scans the cell, builds the task graph and runs it.
func Run(ctx context.Context, opts Options) error {
	if opts.JobType != "local" {
		return fmt.Errorf("%w: job type %q is not supported", ErrConfig, opts.JobType)
	}
	if opts.Threads < 1 {
		return fmt.Errorf("%w: --threads must be >= 1", ErrConfig)
	}
	cfg, err := config.Load("barcode", opts.Settings)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	porechopThreads, err := cfg.GetInt(config.PorechopThreads)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	cell, err := common.CheckPath(opts.Cell)
	if err != nil {
		return err
	}
	work, err := common.Mkdir(opts.WorkDir)
	if err != nil {
		return err
	}
	out, err := common.Mkdir(opts.OutDir)
	if err != nil {
		return err
	}

	store, err := OpenStore(work)
	if err != nil {
		return err
	}
	defer store.Close()

	var rerun []string
	rescan := false
	for _, name := range opts.Rerun {
		if name == scanKey {
			rescan = true
			continue
		}
		rerun = append(rerun, name)
	}
	if rescan {
		if err := store.Forget(scanKey); err != nil {
			return err
		}
	}

	c, err := ScanOnce(store, cell, work)
	if err != nil {
		return err
	}
	p, err := BuildPipeline(c, Settings{
		Barcodes:        opts.Barcodes,
		WorkDir:         work,
		OutDir:          out,
		Ontbc:           cfg.Get(config.OntbcBin),
		Porechop:        cfg.Get(config.PorechopBin),
		PorechopThreads: porechopThreads,
	})
	if err != nil {
		return err
	}
	if rescan {
		rerun = rerun[:0]
		for _, t := range p.Tasks() {
			rerun = append(rerun, t.Name)
		}
	}
	if err := ForgetFrom(store, p, rerun); err != nil {
		return err
	}
	log.Infof("%d tasks, %d at a time", p.Len(), opts.Threads)

	r := &Runner{Store: store, WorkDir: work, Threads: opts.Threads}
	if !opts.Quiet {
		r.Progress = os.Stderr
	}
	if err := r.Run(ctx, p); err != nil {
		return err
	}
	log.Infof("barcode results in %s", out)
	return nil
}
