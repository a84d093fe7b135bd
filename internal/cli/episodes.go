package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naotimes/naotimes-cli/internal/app"
	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/project"
)

// loadCard fetches a fresh copy of the project and builds the card of one
// episode.
func loadCard(ctx context.Context, env *app.Env, projectID, episodeArg string) (*project.Board, *project.Card, error) {
	number, err := parseEpisode(episodeArg)
	if err != nil {
		return nil, nil, err
	}
	detail, err := env.Coordinator.LoadProject(ctx, projectID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", project.LoadFailureMessage(projectID, err), err)
	}
	board := env.Coordinator.OpenBoard(detail, nil)
	ep, ok := board.Episode(number)
	if !ok {
		return nil, nil, errors.New(naotimes.RenderError(naotimes.KindEpisodeNotFound, naotimes.Params{ProjectID: projectID, Episode: number}))
	}
	return board, board.NewCard(ep), nil
}

func parseRoles(values []string) ([]naotimes.Role, error) {
	var out []naotimes.Role
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			role, ok := naotimes.ParseRole(part)
			if !ok {
				return nil, fmt.Errorf("unknown role %q", part)
			}
			out = append(out, role)
		}
	}
	return out, nil
}

func newProgressCmd(opts *Options) *cobra.Command {
	var done []string
	var undo []string

	cmd := &cobra.Command{
		Use:   "progress <project-id> <episode>",
		Short: "Mark roles of an episode as done or not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doneRoles, err := parseRoles(done)
			if err != nil {
				return err
			}
			undoRoles, err := parseRoles(undo)
			if err != nil {
				return err
			}
			if len(doneRoles)+len(undoRoles) == 0 {
				return errors.New("pass --done and/or --undo")
			}

			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			_, card, err := loadCard(cmd.Context(), env, args[0], args[1])
			if err != nil {
				return err
			}

			if err := card.Edit.BeginEdit(); err != nil {
				return err
			}
			for _, role := range doneRoles {
				if err := card.Edit.Set(role, true); err != nil {
					return err
				}
			}
			for _, role := range undoRoles {
				if err := card.Edit.Set(role, false); err != nil {
					return err
				}
			}

			out := card.Edit.Submit(cmd.Context(), env.Client)
			if out.Kind == project.OutcomeNoop {
				return errNothingToDo
			}
			if err := outcomeErr(out); err != nil {
				return err
			}
			return writeOut(cmd, opts, out.Episode, func(w io.Writer) {
				fmt.Fprintf(w, "Episode %d: %s\n", out.Episode.Number, progressLabel(out.Episode.Progress))
			})
		},
	}

	cmd.Flags().StringSliceVar(&done, "done", nil, "Roles to mark done (e.g. TL,TLC)")
	cmd.Flags().StringSliceVar(&undo, "undo", nil, "Roles to mark not done")
	return cmd
}

func newReleaseCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "release <project-id> <episode>",
		Short: "Toggle the released flag of an episode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			_, card, err := loadCard(cmd.Context(), env, args[0], args[1])
			if err != nil {
				return err
			}
			out := card.Release.Toggle(cmd.Context(), env.Client)
			if err := outcomeErr(out); err != nil {
				return err
			}
			return writeOut(cmd, opts, out.Episode, func(w io.Writer) {
				fmt.Fprintf(w, "Episode %d is now %s\n", out.Episode.Number, releaseLabel(out.Episode))
			})
		},
	}
}

func newRemoveCmd(opts *Options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <project-id> <episode>",
		Short: "Remove an episode from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			board, card, err := loadCard(cmd.Context(), env, args[0], args[1])
			if err != nil {
				return err
			}

			removal := card.Removal
			if err := removal.Request(!yes); err != nil {
				return err
			}
			input := ""
			if removal.RequiresPhrase() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Type %q to remove episode %d: ", removal.Phrase(), card.Number)
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				input = line
				if !removal.CanConfirm(input) {
					removal.Cancel()
					return project.ErrPhraseMismatch
				}
			}

			if err := outcomeErr(removal.Remove(cmd.Context(), env.Client, input)); err != nil {
				return err
			}
			return writeOut(cmd, opts, board.Episodes(), func(w io.Writer) {
				fmt.Fprintf(w, "Episode %d removed, %d left\n", card.Number, len(board.Episodes()))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the verification phrase")
	return cmd
}
