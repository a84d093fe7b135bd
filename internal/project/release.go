package project

import (
	"context"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// ReleaseToggle flips the released flag of one episode. The flag only
// changes once the server confirms.
type ReleaseToggle struct {
	projectID  string
	number     int
	released   bool
	submitting bool
	onChange   func(number int, released bool)
}

// NewReleaseToggle builds a toggle for ep. onChange may be nil.
func NewReleaseToggle(projectID string, ep naotimes.EpisodeStatus, onChange func(number int, released bool)) *ReleaseToggle {
	return &ReleaseToggle{
		projectID: projectID,
		number:    ep.Number,
		released:  ep.Released,
		onChange:  onChange,
	}
}

// Released returns the confirmed flag.
func (t *ReleaseToggle) Released() bool { return t.released }

// Submitting reports whether a request is pending.
func (t *ReleaseToggle) Submitting() bool { return t.submitting }

// Begin marks the toggle as submitting and returns the value to request.
func (t *ReleaseToggle) Begin() (bool, error) {
	if t.submitting {
		return false, ErrSubmitInFlight
	}
	t.submitting = true
	return !t.released, nil
}

// Resolve applies the server's answer for a pending toggle.
func (t *ReleaseToggle) Resolve(res naotimes.MutationResult, err error) Outcome {
	ep := naotimes.EpisodeStatus{Number: t.number, Released: t.released}
	if !t.submitting {
		return Outcome{Kind: OutcomeNoop, Episode: ep}
	}
	t.submitting = false

	params := naotimes.Params{ProjectID: t.projectID, Episode: t.number}
	if err != nil {
		return failed(ep, naotimes.Describe(err, params), err)
	}
	if !res.Success {
		return failed(ep, naotimes.RenderError(res.Code.Kind(), params), nil)
	}

	t.released = !t.released
	ep.Released = t.released
	if t.onChange != nil {
		t.onChange(t.number, t.released)
	}
	return Outcome{Kind: OutcomeCommitted, Episode: ep}
}

// Toggle requests the flipped value through gw and resolves the answer.
func (t *ReleaseToggle) Toggle(ctx context.Context, gw naotimes.Gateway) Outcome {
	target, err := t.Begin()
	if err != nil {
		return Outcome{Kind: OutcomeNoop, Episode: naotimes.EpisodeStatus{Number: t.number, Released: t.released}, Err: err}
	}
	res, err := gw.UpdateReleaseStatus(ctx, t.projectID, t.number, target)
	return t.Resolve(res, err)
}

// Refresh takes a newer released flag from the server unless a toggle is
// pending.
func (t *ReleaseToggle) Refresh(released bool) {
	if t.submitting {
		return
	}
	t.released = released
}
