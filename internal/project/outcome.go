package project

import "github.com/naotimes/naotimes-cli/internal/naotimes"

// OutcomeKind classifies the result of a card action.
type OutcomeKind int

const (
	// OutcomeNoop means nothing was sent to the server.
	OutcomeNoop OutcomeKind = iota
	// OutcomeCommitted means the server confirmed the change.
	OutcomeCommitted
	// OutcomeFailed means the change was rolled back.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCommitted:
		return "committed"
	case OutcomeFailed:
		return "failed"
	default:
		return "noop"
	}
}

// Outcome is what a card action reports to its caller. Message is set for
// failures and is meant for a transient notification.
type Outcome struct {
	Kind    OutcomeKind
	Episode naotimes.EpisodeStatus
	Message string
	Err     error
}

// Failed reports whether the action was rolled back.
func (o Outcome) Failed() bool { return o.Kind == OutcomeFailed }

func failed(ep naotimes.EpisodeStatus, msg string, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Episode: ep, Message: msg, Err: err}
}
