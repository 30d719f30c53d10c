package models

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorNotFound is returned when the primary resource of a request does not exist.
type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

// ErrorConflict is returned when a unique name or slug is already taken.
type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

// ErrorBadRequest covers request-level failures that are not schema errors,
// such as a referenced category that does not exist.
type ErrorBadRequest struct {
	Message string
}

func (e ErrorBadRequest) Error() string { return e.Message }

// ErrorValidation carries field-level schema errors keyed by JSON field path.
type ErrorValidation struct {
	Fields map[string][]string
}

func (e ErrorValidation) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewNotFound(format string, args ...interface{}) error {
	return ErrorNotFound{Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) error {
	return ErrorConflict{Message: fmt.Sprintf(format, args...)}
}

func NewBadRequest(format string, args ...interface{}) error {
	return ErrorBadRequest{Message: fmt.Sprintf(format, args...)}
}
