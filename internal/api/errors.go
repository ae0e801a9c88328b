// In file: internal/api/errors.go

// Package api defines the wire-level request/response types shared between
// the HTTP layer and the core services, along with the tagged error taxonomy
// every failure path in the core is classified into before it reaches a caller.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind tags a failure with its category. Every error the core returns
// carries exactly one of these kinds; nothing escapes unclassified.
type ErrorKind string

const (
	// KindUnknownOperation means the requested operation name is not registered.
	KindUnknownOperation ErrorKind = "unknown_operation"
	// KindInvalidOperand means an operand was missing or not a finite number.
	KindInvalidOperand ErrorKind = "invalid_operand"
	// KindDomainError means the operation is mathematically undefined for the
	// given operands (e.g. division by zero).
	KindDomainError ErrorKind = "domain_error"
	// KindUnresolvedSuggestion means the model answered, but its answer could
	// not be mapped to a registered operation. Retrying the same query is
	// unlikely to help; the user should clarify or pick explicitly.
	KindUnresolvedSuggestion ErrorKind = "unresolved_suggestion"
	// KindSuggestionUnavailable means the model capability could not be
	// reached at all (network fault, timeout). Distinct from
	// KindUnresolvedSuggestion so callers can decide whether a retry is worth it.
	KindSuggestionUnavailable ErrorKind = "suggestion_unavailable"
	// KindUndoEmpty signals that there was nothing to undo. This is an
	// expected, benign condition, not a fault; handlers report it as a
	// status, never as an error banner.
	KindUndoEmpty ErrorKind = "undo_empty"
)

// Error is the tagged error carried across the core's boundaries.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds a tagged error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError tags an underlying fault with a kind while preserving the cause
// for errors.Is/As chains.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind from an error chain. The second return is false
// for unclassified errors, which handlers treat as internal faults.
func KindOf(err error) (ErrorKind, bool) {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind, true
	}
	return "", false
}

// HTTPStatus maps an error kind to the status code the gateway responds with.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindUnknownOperation:
		return http.StatusNotFound
	case KindInvalidOperand, KindDomainError:
		return http.StatusBadRequest
	case KindUnresolvedSuggestion:
		return http.StatusUnprocessableEntity
	case KindSuggestionUnavailable:
		return http.StatusServiceUnavailable
	case KindUndoEmpty:
		// Not a fault; handlers short-circuit before this mapping is consulted.
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
