package clean

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Command builds the "clean" subcommand, writing to the command's stdout.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "clean FASTQ",
		Short: "Keep only complete fastq records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := Clean(args[0], cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if st.Dropped > 0 {
				log.Warnf("%s: dropped %d record(s) without quality", args[0], st.Dropped)
			}
			return nil
		},
	}
}
