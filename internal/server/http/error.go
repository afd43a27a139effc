package http

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ErrorBody is the error payload of every endpoint: {"error": "..."}.
type ErrorBody struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

// Error implements error.
func (e *ErrorBody) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorBody) GetStatus() int {
	return e.Status
}

// newError replaces huma's problem+json errors with ErrorBody.
// Detail errors are appended to the message.
func newError(status int, msg string, errs ...error) huma.StatusError {
	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}
	if len(details) > 0 {
		msg += ": " + strings.Join(details, "; ")
	}

	return &ErrorBody{Status: status, Message: msg}
}

func init() {
	huma.NewError = newError
}
