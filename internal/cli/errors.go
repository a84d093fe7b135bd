package cli

import (
	"errors"

	"github.com/naotimes/naotimes-cli/internal/project"
)

// errNothingToDo is returned when a command would not change anything.
var errNothingToDo = errors.New("nothing to update")

// outcomeErr converts a failed or skipped outcome into a command error.
func outcomeErr(out project.Outcome) error {
	switch {
	case out.Failed():
		return errors.New(out.Message)
	case out.Err != nil:
		return out.Err
	}
	return nil
}
