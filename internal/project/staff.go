package project

import (
	"context"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// StaffEditor changes role assignments of one open project. Only one change
// may be in flight at a time.
type StaffEditor struct {
	coord      *Coordinator
	detail     *naotimes.ProjectDetail
	submitting bool
}

// NewStaffEditor builds an editor for detail.
func NewStaffEditor(coord *Coordinator, detail *naotimes.ProjectDetail) *StaffEditor {
	return &StaffEditor{coord: coord, detail: detail}
}

// Detail returns the confirmed project detail.
func (e *StaffEditor) Detail() *naotimes.ProjectDetail { return e.detail }

// Submitting reports whether a change is pending.
func (e *StaffEditor) Submitting() bool { return e.submitting }

// Begin marks a change as pending.
func (e *StaffEditor) Begin() error {
	if e.submitting {
		return ErrSubmitInFlight
	}
	e.submitting = true
	return nil
}

// Resolve applies the result of Coordinator.AssignStaff.
func (e *StaffEditor) Resolve(updated *naotimes.ProjectDetail, out Outcome) Outcome {
	e.submitting = false
	if out.Kind == OutcomeCommitted && updated != nil {
		e.detail = updated
	}
	return out
}

// Assign sends a change for role and applies the answer.
func (e *StaffEditor) Assign(ctx context.Context, role naotimes.Role, userID string) Outcome {
	if err := e.Begin(); err != nil {
		return Outcome{Kind: OutcomeNoop, Err: err}
	}
	return e.Resolve(e.coord.AssignStaff(ctx, e.detail, role, userID))
}
