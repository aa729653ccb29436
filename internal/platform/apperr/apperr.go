// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for mangaverse.

It provides a rich error type that carries a machine-readable kind tag next to a
human-readable message, so that callers of the sync engine can decide how far a
failure travels (one chapter, one work, one source) without string matching.

Kinds:

  - PARSE_FAILURE: an expected scraped field was absent or malformed.
  - STORAGE_FAILURE: any persistence-layer statement failure.
  - NETWORK_FAILURE: transport-level fetch failure.
  - NOT_FOUND: a lookup found nothing. Registries use it as a control-flow signal.
  - CONFLICT: a uniqueness constraint rejected a concurrent first insert.
  - UNKNOWN_SOURCE: a stored work references a source missing from the reference cache.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable classification of an [AppError].
type Kind string

const (
	KindParse         Kind = "PARSE_FAILURE"
	KindStorage       Kind = "STORAGE_FAILURE"
	KindNetwork       Kind = "NETWORK_FAILURE"
	KindNotFound      Kind = "NOT_FOUND"
	KindConflict      Kind = "CONFLICT"
	KindUnknownSource Kind = "UNKNOWN_SOURCE"
	KindInternal      Kind = "INTERNAL"
)

// AppError is the canonical error type for mangaverse.
//
// # Security
//
// The Cause field is for server-side logging only and is never rendered by the
// ops endpoints to avoid leaking SQL or upstream response bodies.
type AppError struct {
	// Kind is the machine-readable tag (e.g. "STORAGE_FAILURE").
	Kind Kind `json:"kind"`
	// Message is a human-readable description.
	Message string `json:"error"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
	// Details holds per-field failures for PARSE_FAILURE errors raised by validation.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the name of the record field that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// HTTPStatus maps the kind onto a status code for the ops endpoints.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindParse:
		return http.StatusUnprocessableEntity
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// # Constructors

// NotFound creates a NOT_FOUND [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("manga") // "manga not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// Conflict creates a CONFLICT [AppError] for unique-constraint violations.
func Conflict(msg string, cause error) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: msg,
		Cause:   cause,
	}
}

// Parse creates a PARSE_FAILURE [AppError] with optional per-field details.
func Parse(msg string, details ...FieldError) *AppError {
	return &AppError{
		Kind:    KindParse,
		Message: msg,
		Details: details,
	}
}

// Storage wraps a persistence failure for the named action.
func Storage(action string, cause error) *AppError {
	return &AppError{
		Kind:    KindStorage,
		Message: "storage failure during " + action,
		Cause:   cause,
	}
}

// Network wraps a transport failure while fetching url.
func Network(url string, cause error) *AppError {
	return &AppError{
		Kind:    KindNetwork,
		Message: "network failure fetching " + url,
		Cause:   cause,
	}
}

// UnknownSource reports a source name that the reference cache does not hold.
func UnknownSource(name string) *AppError {
	return &AppError{
		Kind:    KindUnknownSource,
		Message: fmt.Sprintf("source %q is not registered in the reference cache", name),
	}
}

// Internal wraps an unexpected error.
func Internal(cause error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Message: "an unexpected error occurred",
		Cause:   cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// KindOf returns the kind of the first [*AppError] in err's chain, or
// [KindInternal] for foreign errors.
func KindOf(err error) Kind {
	if ae := As(err); ae != nil {
		return ae.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err carries the NOT_FOUND kind.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
