package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naotimes/naotimes-cli/internal/app"
)

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	PrefsPath  string
	PollEvery  int
	JSON       bool
}

// NewRootCmd builds the naotimes command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:          "naotimes",
		Short:        "naoTimes project tracker (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  naotimes

  # Show a project and its episodes
  naotimes show 1234

  # Mark translation and timing done for episode 3
  naotimes progress 1234 3 --done TL,TM

  # Flip the released flag of episode 3
  naotimes release 1234 3
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default ~/.config/naotimes/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "Prefs file (default ~/.config/naotimes/prefs.toml)")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Print JSON instead of text")
	cmd.Flags().IntVar(&opts.PollEvery, "poll", 0, "Dashboard refresh interval in seconds (default from config)")

	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newProgressCmd(opts))
	cmd.AddCommand(newReleaseCmd(opts))
	cmd.AddCommand(newRemoveCmd(opts))
	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newStaffCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newLogsCmd(opts))

	return cmd
}

func (o *Options) appOptions() app.Options {
	return app.Options{ConfigPath: o.ConfigPath, PrefsPath: o.PrefsPath, PollEvery: o.PollEvery}
}

// bootstrap wires the client for a headless command; logs go to stderr.
func bootstrap(cmd *cobra.Command, opts *Options) (*app.Env, error) {
	return app.Bootstrap(opts.appOptions(), cmd.ErrOrStderr())
}

// writeOut prints v as JSON with --json, otherwise calls text.
func writeOut(cmd *cobra.Command, opts *Options, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

// parseEpisode reads a positive episode number argument.
func parseEpisode(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid episode %q", arg)
	}
	return n, nil
}
