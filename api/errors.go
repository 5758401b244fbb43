package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// FieldError is a single rejected field reported by the backend.
type FieldError struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejectedValue,omitempty"`
	Message       string `json:"message"`
}

// Error is a non-2xx response from the storefront backend.
type Error struct {
	StatusCode       int          `json:"status"`
	Code             string       `json:"error"`
	Message          string       `json:"message"`
	Path             string       `json:"path"`
	Timestamp        time.Time    `json:"timestamp"`
	ValidationErrors []FieldError `json:"validationErrors,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Path, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Path)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
