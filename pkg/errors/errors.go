package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code partitions failures into the classes callers can act on: validation
// and resource errors are terminal, state conflicts require a re-fetch, and
// dependency errors are the only retryable class.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata is how a code maps onto the transport: HTTP status, whether the
// caller may retry, the generic public message, and whether structured
// details may be echoed back.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    meta(http.StatusBadRequest, "validation failed", true),
	CodeUnauthorized:  meta(http.StatusUnauthorized, "authentication required", false),
	CodeForbidden:     meta(http.StatusForbidden, "access denied", false),
	CodeNotFound:      meta(http.StatusNotFound, "resource not found", false),
	CodeConflict:      meta(http.StatusConflict, "conflict detected", false),
	CodeStateConflict: meta(http.StatusUnprocessableEntity, "state transition disallowed", true),
	CodeIdempotency:   meta(http.StatusConflict, "idempotency key reused", true),
	CodeInternal:      retryableMeta(http.StatusInternalServerError, "internal server error", false),
	CodeDependency:    retryableMeta(http.StatusServiceUnavailable, "dependency unavailable", true),
}

func meta(status int, publicMessage string, detailsAllowed bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: publicMessage, DetailsAllowed: detailsAllowed}
}

func retryableMeta(status int, publicMessage string, detailsAllowed bool) Metadata {
	m := meta(status, publicMessage, detailsAllowed)
	m.Retryable = true
	return m
}

// MetadataFor resolves the transport metadata for a code, falling back to
// the internal-error mapping for anything unknown.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error carried across service and handler boundaries.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts a typed *Error from anywhere in the chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
