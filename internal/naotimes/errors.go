package naotimes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is the structured error code carried by failed responses.
type ErrorCode string

// Error codes sent by the server.
const (
	CodeProjectNotFound   ErrorCode = "project_not_found"
	CodeEpisodeNotFound   ErrorCode = "episode_not_found"
	CodeMissingPermission ErrorCode = "missing_permission"
	CodeUserNotFound      ErrorCode = "user_not_found"
	CodeInvalidRole       ErrorCode = "invalid_role"
	CodeServerError       ErrorCode = "server_error"
)

// ErrorKind is the closed set of error categories the client can render.
type ErrorKind int

// Error kinds. KindUnknown covers absent and unrecognised codes.
const (
	KindUnknown ErrorKind = iota
	KindProjectNotFound
	KindEpisodeNotFound
	KindMissingPermission
	KindUserNotFound
	KindInvalidRole
	KindServerError
)

// Kind maps a wire code to its ErrorKind. Unknown or empty codes map to
// KindUnknown.
func (c ErrorCode) Kind() ErrorKind {
	switch ErrorCode(strings.ToLower(strings.TrimSpace(string(c)))) {
	case CodeProjectNotFound:
		return KindProjectNotFound
	case CodeEpisodeNotFound:
		return KindEpisodeNotFound
	case CodeMissingPermission:
		return KindMissingPermission
	case CodeUserNotFound:
		return KindUserNotFound
	case CodeInvalidRole:
		return KindInvalidRole
	case CodeServerError:
		return KindServerError
	default:
		return KindUnknown
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindProjectNotFound:
		return "ProjectNotFound"
	case KindEpisodeNotFound:
		return "EpisodeNotFound"
	case KindMissingPermission:
		return "MissingPermission"
	case KindUserNotFound:
		return "UserNotFound"
	case KindInvalidRole:
		return "InvalidRole"
	case KindServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// Params are the substitution values some error templates accept.
type Params struct {
	ProjectID string
	Episode   int
}

// RenderError returns the user-facing text for kind.
func RenderError(kind ErrorKind, p Params) string {
	switch kind {
	case KindProjectNotFound:
		return fmt.Sprintf("Project %s could not be found", p.ProjectID)
	case KindEpisodeNotFound:
		return fmt.Sprintf("Episode %d could not be found", p.Episode)
	case KindMissingPermission:
		return "You do not have permission to change this project"
	case KindUserNotFound:
		return "The selected user could not be found"
	case KindInvalidRole:
		return "The selected role is not valid"
	case KindServerError:
		return "The server failed to process the request"
	case KindUnknown:
		return "An unknown error occurred"
	}
	return "An unknown error occurred"
}

// TransportMessage is shown when a request never completed.
const TransportMessage = "Could not reach the naoTimes server, please try again"

// APIError is returned when the server answered with success=false.
type APIError struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = e.Code.Kind().String()
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

// Describe renders any gateway error for display. Application errors use the
// code templates, everything else is treated as a transport failure.
func Describe(err error, p Params) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return RenderError(apiErr.Code.Kind(), p)
	}
	return TransportMessage
}
