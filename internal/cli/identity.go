package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/prefs"
)

func newWhoamiCmd(opts *Options) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account and remember it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if offline {
				id := prefs.Load(opts.PrefsPath).Identity
				if !id.Known() {
					return fmt.Errorf("no identity stored, run whoami while online")
				}
				return printIdentity(cmd, opts, id)
			}

			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			me, err := env.Client.FetchIdentity(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", naotimes.Describe(err, naotimes.Params{}), err)
			}
			id := prefs.IdentityFrom(*me)
			if err := prefs.Update(env.PrefsPath, func(p *prefs.Prefs) { p.Identity = id }); err != nil {
				env.Logger.Warn("save identity failed", "error", err)
			}
			return printIdentity(cmd, opts, id)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Print the last stored identity without contacting the server")
	return cmd
}

func printIdentity(cmd *cobra.Command, opts *Options, id prefs.Identity) error {
	return writeOut(cmd, opts, id, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s), %s\n", id.Username, id.ID, id.Privilege)
	})
}
