package project

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// RemovalState is the state of a Removal dialog.
type RemovalState int

const (
	// RemovalIdle means no dialog is open.
	RemovalIdle RemovalState = iota
	// RemovalConfirming shows the dialog and waits for confirmation.
	RemovalConfirming
	// RemovalRemoving waits for the delete call; the dialog cannot be dismissed.
	RemovalRemoving
)

const phraseWords = 3

var verificationWords = []string{
	"apple", "banner", "candle", "dragon", "ember", "falcon", "garden", "harbor",
	"island", "jasmine", "kettle", "lantern", "meadow", "nectar", "orchid", "pepper",
	"quartz", "river", "sakura", "thunder", "umbrella", "violet", "willow", "yonder",
	"zephyr", "autumn", "breeze", "comet", "dusk", "echo", "frost", "glacier",
}

// Removal is the confirm-then-commit flow for deleting one episode.
type Removal struct {
	projectID     string
	number        int
	state         RemovalState
	phrase        string
	requirePhrase bool
	onRemoved     func(number int)
	pick          func(n int) int
}

// NewRemoval builds a removal flow for episode number. onRemoved may be nil.
func NewRemoval(projectID string, number int, onRemoved func(number int)) *Removal {
	return &Removal{
		projectID: projectID,
		number:    number,
		onRemoved: onRemoved,
		pick:      rand.IntN,
	}
}

// State returns the dialog state.
func (r *Removal) State() RemovalState { return r.state }

// Phrase returns the verification phrase of the open dialog, if any.
func (r *Removal) Phrase() string { return r.phrase }

// RequiresPhrase reports whether confirm needs the phrase typed.
func (r *Removal) RequiresPhrase() bool { return r.requirePhrase }

// Request opens the confirmation dialog. With requirePhrase a random phrase
// is drawn that must be typed back before Confirm succeeds.
func (r *Removal) Request(requirePhrase bool) error {
	if r.state == RemovalRemoving {
		return ErrSubmitInFlight
	}
	r.state = RemovalConfirming
	r.requirePhrase = requirePhrase
	r.phrase = ""
	if requirePhrase {
		words := make([]string, phraseWords)
		for i := range words {
			words[i] = verificationWords[r.pick(len(verificationWords))]
		}
		r.phrase = strings.Join(words, " ")
	}
	return nil
}

// CanConfirm reports whether the confirm action is enabled for input.
func (r *Removal) CanConfirm(input string) bool {
	if r.state != RemovalConfirming {
		return false
	}
	return !r.requirePhrase || strings.TrimSpace(input) == r.phrase
}

// Confirm moves the dialog into Removing. The caller then issues the delete.
func (r *Removal) Confirm(input string) error {
	switch r.state {
	case RemovalRemoving:
		return ErrSubmitInFlight
	case RemovalIdle:
		return ErrNotConfirming
	}
	if !r.CanConfirm(input) {
		return ErrPhraseMismatch
	}
	r.state = RemovalRemoving
	return nil
}

// Cancel closes the dialog. It is ignored while the delete is in flight.
func (r *Removal) Cancel() {
	if r.state == RemovalRemoving {
		return
	}
	r.state = RemovalIdle
	r.phrase = ""
}

// Resolve applies the server's answer for a pending delete and closes the
// dialog.
func (r *Removal) Resolve(res naotimes.MutationResult, err error) Outcome {
	ep := naotimes.EpisodeStatus{Number: r.number}
	if r.state != RemovalRemoving {
		return Outcome{Kind: OutcomeNoop, Episode: ep}
	}
	r.state = RemovalIdle
	r.phrase = ""

	params := naotimes.Params{ProjectID: r.projectID, Episode: r.number}
	if err != nil {
		return failed(ep, naotimes.Describe(err, params), err)
	}
	if !res.Success {
		return failed(ep, naotimes.RenderError(res.Code.Kind(), params), nil)
	}
	if r.onRemoved != nil {
		r.onRemoved(r.number)
	}
	return Outcome{Kind: OutcomeCommitted, Episode: ep}
}

// Remove confirms with input and sends the delete through gw.
func (r *Removal) Remove(ctx context.Context, gw naotimes.Gateway, input string) Outcome {
	if err := r.Confirm(input); err != nil {
		return Outcome{Kind: OutcomeNoop, Episode: naotimes.EpisodeStatus{Number: r.number}, Err: err}
	}
	res, err := gw.RemoveEpisode(ctx, r.projectID, []int{r.number})
	return r.Resolve(res, err)
}
