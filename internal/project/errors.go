package project

import "errors"

var (
	// ErrProjectUnavailable means the project could not be fetched.
	ErrProjectUnavailable = errors.New("project unavailable")
	// ErrNotEditing is returned when a role is toggled outside edit mode.
	ErrNotEditing = errors.New("episode is not being edited")
	// ErrSubmitInFlight blocks mutations while a request is pending.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrNotConfirming is returned when confirming a removal that was never requested.
	ErrNotConfirming = errors.New("removal was not requested")
	// ErrPhraseMismatch is returned when the verification phrase does not match.
	ErrPhraseMismatch = errors.New("verification phrase does not match")
)
