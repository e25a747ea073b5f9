package client

import (
	"errors"
	"fmt"
)

// APIError is a rejected REST call: a non-2xx response or an envelope whose
// status is not "success". The failure stays local to the call site; prior
// client state is left intact.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (http %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (http %d)", e.StatusCode)
}

// IsAuthError reports whether the failure was an authentication rejection.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsAuthError reports whether err is an API authentication rejection.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsAuthError()
}
