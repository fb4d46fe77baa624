package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ontbc_go/benchmark"
	"ontbc_go/config"
	"ontbc_go/tools/barcode"
	"ontbc_go/tools/clean"
	"ontbc_go/tools/read_filter"
	"ontbc_go/tools/sanity_check"
	common "ontbc_go/utils"
)

func versionTable() string {
	var b strings.Builder
	fmt.Fprintln(&b, "ontbc - Version Information Menu")
	fmt.Fprintln(&b, "Central Executable:")
	fmt.Fprintf(&b, "\tontbc:\t\t\t%s\n", config.Main_version)
	fmt.Fprintf(&b, "\nModular tools:\n")
	fmt.Fprintf(&b, "\tRead Filter:\t\t%s\n", config.Filter)
	fmt.Fprintf(&b, "\tBarcode Split:\t\t%s\n", config.Barcode)
	fmt.Fprintf(&b, "\tClean:\t\t\t%s\n", config.Clean)
	fmt.Fprintf(&b, "\tSanity Check:\t\t%s\n", config.Sanity_check)
	fmt.Fprintf(&b, "\tBenchmark:\t\t%s\n", config.Benchmark)
	return b.String()
}

// withBenchmark lets --benchmark wrap the command's run in benchmark.Run.
func withBenchmark(cmd *cobra.Command, enabled *bool) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		if !*enabled {
			return run(c, args)
		}
		label := strings.TrimSpace(fmt.Sprintf("ontbc %s %s", c.Name(), strings.Join(args, " ")))
		_, err := benchmark.Run(label, func() error { return run(c, args) })
		return err
	}
}

func newRootCmd() *cobra.Command {
	var benchmarking, verbose bool
	root := &cobra.Command{
		Use:           "ontbc",
		Short:         "Tools for ONT reads: length/quality filtering and barcode splitting",
		Version:       config.Main_version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			common.SetupLogging(verbose)
		},
	}
	root.SetVersionTemplate(versionTable())
	root.PersistentFlags().BoolVar(&benchmarking, "benchmark", false,
		"Display computational resource usage of the command")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug logging")

	root.AddCommand(
		read_filter.Command(),
		barcode.Command(),
		clean.Command(),
		sanity_check.Command(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprint(cmd.OutOrStdout(), versionTable())
			},
		},
	)
	for _, sub := range root.Commands() {
		withBenchmark(sub, &benchmarking)
	}
	return root
}

// Main controller
func main() {
	common.SetupLogging(false)
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
