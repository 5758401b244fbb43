package devserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-storefront/api"
)

// statusError carries the HTTP status a handler failed with.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%d: %s", e.status, e.message)
}

func notFound(entity string) error {
	return &statusError{status: http.StatusNotFound, message: entity + " not found"}
}

func badRequest(format string, args ...any) error {
	return &statusError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &statusError{status: http.StatusConflict, message: fmt.Sprintf(format, args...)}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn(context.Background(), "failed to encode response", err)
	}
}

// writeError renders err in the backend's error body format.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := api.Error{
		StatusCode: http.StatusInternalServerError,
		Message:    "unexpected error",
		Path:       r.URL.Path,
		Timestamp:  s.now().UTC(),
	}

	var se *statusError
	var verrs validation.Errors
	switch {
	case errors.As(err, &se):
		body.StatusCode = se.status
		body.Message = se.message
	case errors.Is(err, sql.ErrNoRows):
		body.StatusCode = http.StatusNotFound
		body.Message = "resource not found"
	case errors.As(err, &verrs):
		body.StatusCode = http.StatusBadRequest
		body.Message = "validation failed"
		body.ValidationErrors = fieldErrors(verrs)
	}
	body.Code = http.StatusText(body.StatusCode)

	if body.StatusCode >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", err)
	}
	s.writeJSON(w, body.StatusCode, body)
}

func fieldErrors(verrs validation.Errors) []api.FieldError {
	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]api.FieldError, 0, len(fields))
	for _, field := range fields {
		out = append(out, api.FieldError{Field: field, Message: verrs[field].Error()})
	}
	return out
}

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return badRequest("request body required")
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}
