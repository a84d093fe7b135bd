package project

import (
	"context"
	"fmt"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// EditState is the state of an EditSession.
type EditState int

const (
	// Viewing shows the confirmed progress; toggles are rejected.
	Viewing EditState = iota
	// Editing routes toggles into the detached buffer.
	Editing
	// Submitting waits for the server; every mutation is blocked.
	Submitting
)

func (s EditState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	default:
		return "viewing"
	}
}

// StatusRequest is the progress mutation an EditSession wants sent.
type StatusRequest struct {
	ProjectID string
	Episode   int
	Roles     []naotimes.RoleUpdate
}

// EditSession tracks role completion edits for one episode card. Toggles
// land in a detached buffer; the confirmed record only changes when the
// server answers with the new progress.
type EditSession struct {
	projectID string
	confirmed naotimes.EpisodeStatus
	buffer    naotimes.Progress
	state     EditState
	onCommit  func(naotimes.EpisodeStatus)
}

// NewEditSession starts a session in Viewing for ep. onCommit may be nil.
func NewEditSession(projectID string, ep naotimes.EpisodeStatus, onCommit func(naotimes.EpisodeStatus)) *EditSession {
	return &EditSession{
		projectID: projectID,
		confirmed: ep,
		buffer:    ep.Progress,
		state:     Viewing,
		onCommit:  onCommit,
	}
}

// State returns the current state.
func (s *EditSession) State() EditState { return s.state }

// Episode returns the last confirmed record.
func (s *EditSession) Episode() naotimes.EpisodeStatus { return s.confirmed }

// Buffer returns the detached progress being edited.
func (s *EditSession) Buffer() naotimes.Progress { return s.buffer }

// AllDone is derived from the confirmed progress on every call.
func (s *EditSession) AllDone() bool { return s.confirmed.Progress.AllDone() }

// Dirty reports whether the buffer differs from the confirmed progress.
func (s *EditSession) Dirty() bool { return s.buffer != s.confirmed.Progress }

// BeginEdit enters Editing with the buffer equal to the confirmed progress.
func (s *EditSession) BeginEdit() error {
	switch s.state {
	case Submitting:
		return ErrSubmitInFlight
	case Editing:
		return nil
	}
	s.buffer = s.confirmed.Progress
	s.state = Editing
	return nil
}

// Toggle flips role in the buffer.
func (s *EditSession) Toggle(role naotimes.Role) error {
	return s.Set(role, !s.buffer.Get(role))
}

// Set writes role into the buffer.
func (s *EditSession) Set(role naotimes.Role, done bool) error {
	switch s.state {
	case Submitting:
		return ErrSubmitInFlight
	case Viewing:
		return ErrNotEditing
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	s.buffer = s.buffer.With(role, done)
	return nil
}

// Cancel abandons the edit and returns to Viewing.
func (s *EditSession) Cancel() {
	if s.state != Editing {
		return
	}
	s.buffer = s.confirmed.Progress
	s.state = Viewing
}

// Finish ends editing. When the buffer is unchanged it returns to Viewing
// and reports false. Otherwise it enters Submitting and returns the request
// to send, covering all seven roles.
func (s *EditSession) Finish() (StatusRequest, bool) {
	if s.state != Editing {
		return StatusRequest{}, false
	}
	if !s.Dirty() {
		s.state = Viewing
		return StatusRequest{}, false
	}
	roles := make([]naotimes.RoleUpdate, 0, len(naotimes.Roles()))
	for _, role := range naotimes.Roles() {
		roles = append(roles, naotimes.RoleUpdate{Role: role, IsDone: s.buffer.Get(role)})
	}
	s.state = Submitting
	return StatusRequest{ProjectID: s.projectID, Episode: s.confirmed.Number, Roles: roles}, true
}

// Resolve applies the server's answer to a pending submission. Only a
// non-nil result commits; anything else reverts the buffer.
func (s *EditSession) Resolve(res *naotimes.ProgressResult, err error) Outcome {
	if s.state != Submitting {
		return Outcome{Kind: OutcomeNoop, Episode: s.confirmed}
	}
	s.state = Viewing

	params := naotimes.Params{ProjectID: s.projectID, Episode: s.confirmed.Number}
	if err != nil {
		s.buffer = s.confirmed.Progress
		return failed(s.confirmed, naotimes.Describe(err, params), err)
	}
	if res == nil {
		s.buffer = s.confirmed.Progress
		return failed(s.confirmed, fmt.Sprintf("Episode %d was not updated, the server sent no progress", s.confirmed.Number), nil)
	}

	s.confirmed.Progress = res.Progress
	s.buffer = s.confirmed.Progress
	if s.onCommit != nil {
		s.onCommit(s.confirmed)
	}
	return Outcome{Kind: OutcomeCommitted, Episode: s.confirmed}
}

// Submit finishes the edit and, when needed, sends it through gw and
// resolves the answer.
func (s *EditSession) Submit(ctx context.Context, gw naotimes.Gateway) Outcome {
	req, ok := s.Finish()
	if !ok {
		return Outcome{Kind: OutcomeNoop, Episode: s.confirmed}
	}
	res, err := gw.UpdateEpisodeStatus(ctx, req.ProjectID, req.Episode, req.Roles)
	return s.Resolve(res, err)
}

// Refresh replaces the confirmed record with a newer one from the server.
// A buffer being edited is kept as is.
func (s *EditSession) Refresh(ep naotimes.EpisodeStatus) {
	if s.state == Submitting {
		return
	}
	s.confirmed = ep
	if s.state == Viewing {
		s.buffer = ep.Progress
	}
}
