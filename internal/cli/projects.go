package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/project"
)

func newShowCmd(opts *Options) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its staff and episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			detail, err := env.Coordinator.LoadProject(cmd.Context(), args[0], refresh)
			if err != nil {
				return fmt.Errorf("%s: %w", project.LoadFailureMessage(args[0], err), err)
			}
			return writeOut(cmd, opts, detail, func(w io.Writer) {
				printProject(w, detail, time.Now())
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the project cache")
	return cmd
}

func printProject(w io.Writer, detail *naotimes.ProjectDetail, now time.Time) {
	fmt.Fprintf(w, "%s (%s)\n\n", detail.Title, detail.ID)
	for _, role := range naotimes.Roles() {
		name := "-"
		if member := detail.Assignee(role); member != nil {
			name = member.Name
		}
		fmt.Fprintf(w, "  %-20s %s\n", role.Label(), name)
	}
	fmt.Fprintln(w)
	for _, ep := range detail.Episodes {
		fmt.Fprintf(w, "  #%-4d %-10s %-28s %s\n", ep.Number, releaseLabel(ep), progressLabel(ep.Progress), airedLabel(ep, now))
	}
}

func releaseLabel(ep naotimes.EpisodeStatus) string {
	if ep.Released {
		return "released"
	}
	return "pending"
}

func progressLabel(p naotimes.Progress) string {
	parts := make([]string, 0, len(naotimes.Roles()))
	for _, role := range naotimes.Roles() {
		if p.Get(role) {
			parts = append(parts, string(role))
		} else {
			parts = append(parts, strings.ToLower(string(role)))
		}
	}
	return strings.Join(parts, " ")
}

func airedLabel(ep naotimes.EpisodeStatus, now time.Time) string {
	aired := ep.AiredAt()
	if aired.IsZero() {
		return ""
	}
	return humanize.RelTime(aired, now, "ago", "from now")
}

func newAddCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <project-id> <episodes>",
		Short: "Add episodes to a project (e.g. 13 or 13-24)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := project.ParseEpisodes(args[1])
			if err != nil {
				return err
			}
			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			board := project.NewBoard(&naotimes.ProjectDetail{ID: args[0]}, nil)
			if err := outcomeErr(env.Coordinator.AddEpisodes(cmd.Context(), board, numbers)); err != nil {
				return err
			}
			return writeOut(cmd, opts, board.Episodes(), func(w io.Writer) {
				fmt.Fprintf(w, "Added %d episode(s) to %s\n", len(board.Episodes()), args[0])
			})
		},
	}
}

func newStaffCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "staff <project-id> <role> <user-id>",
		Short: "Assign a user to a role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := naotimes.ParseRole(args[1])
			if !ok {
				return fmt.Errorf("%s: %q", naotimes.RenderError(naotimes.KindInvalidRole, naotimes.Params{}), args[1])
			}
			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			detail, err := env.Coordinator.LoadProject(cmd.Context(), args[0], false)
			if err != nil {
				return fmt.Errorf("%s: %w", project.LoadFailureMessage(args[0], err), err)
			}

			editor := project.NewStaffEditor(env.Coordinator, detail)
			if err := outcomeErr(editor.Assign(cmd.Context(), role, args[2])); err != nil {
				return err
			}
			member := editor.Detail().Assignee(role)
			return writeOut(cmd, opts, member, func(w io.Writer) {
				name := "nobody"
				if member != nil {
					name = member.Name
				}
				fmt.Fprintf(w, "%s of %s is now %s\n", role.Label(), editor.Detail().Title, name)
			})
		},
	}
}

func newSearchCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search projects by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			projects, err := env.Client.SearchProjects(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("%s: %w", naotimes.TransportMessage, err)
			}
			return writeOut(cmd, opts, projects, func(w io.Writer) {
				if len(projects) == 0 {
					fmt.Fprintf(w, "No projects match %q\n", query)
					return
				}
				for _, p := range projects {
					fmt.Fprintf(w, "%-8s %s\n", p.ID, p.Title)
				}
			})
		},
	}
}
