package codeforces

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a request the API answered but refused, either with a
// FAILED envelope or a non-200 status.
type APIError struct {
	Method     string
	StatusCode int
	Comment    string
}

func (e *APIError) Error() string {
	if e.Comment == "" {
		return fmt.Sprintf("codeforces %s returned %d", e.Method, e.StatusCode)
	}
	return fmt.Sprintf("codeforces %s returned %d: %s", e.Method, e.StatusCode, e.Comment)
}

// NotFound reports whether the API rejected an unknown handle.
func (e *APIError) NotFound() bool {
	return strings.Contains(strings.ToLower(e.Comment), "not found")
}

// IsNotFound reports whether err wraps an APIError for an unknown handle.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
