package sanity_check

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ontbc_go/config"
)

// ErrMissingTool is returned when a configured external program cannot be run.
var ErrMissingTool = errors.New("external tool not found")

var (
	found   = color.New(color.FgHiGreen).SprintFunc()
	missing = color.New(color.FgHiRed).SprintFunc()
)

// Run prints the ontbc version and whether every external program the
// barcode pipeline calls resolves.
func Run(w io.Writer, opts config.Options) error {
	fmt.Fprintf(w, "Successfully running ontbc! (%s)\n", config.Main_version)

	var failed []string
	for _, key := range []string{config.PorechopBin, config.OntbcBin} {
		bin := opts.Get(key)
		path, err := exec.LookPath(bin)
		if err != nil {
			fmt.Fprintf(w, "%-14s %s %s\n", key, missing("missing"), bin)
			failed = append(failed, bin)
			continue
		}
		fmt.Fprintf(w, "%-14s %s %s\n", key, found("found"), path)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %q", ErrMissingTool, failed)
	}
	return nil
}

// Command builds the "check" subcommand.
func Command() *cobra.Command {
	var settings []string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that ontbc and its external tools are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load("check", settings)
			if err != nil {
				return err
			}
			return Run(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringArrayVar(&settings, "set", nil, "Tool setting key=value")
	return cmd
}
