package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/naotimes/naotimes-cli/internal/config"
	"github.com/naotimes/naotimes-cli/internal/logtail"
)

func newLogsCmd(opts *Options) *cobra.Command {
	var lines int
	var level string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the client log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			minLevel, err := config.ParseLevel(level)
			if err != nil {
				return err
			}
			tail, err := logtail.Read(cfg.LogFile, lines, minLevel)
			if err != nil {
				return err
			}
			return writeOut(cmd, opts, tail, func(w io.Writer) {
				for _, line := range tail {
					fmt.Fprintln(w, line)
				}
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of matching lines to print")
	cmd.Flags().StringVar(&level, "level", "debug", "Minimum level (debug|info|warn|error)")
	return cmd
}
