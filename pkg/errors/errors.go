// Package errors defines the gateway's error taxonomy. Every failure
// that reaches a client is classified under one Code, and the per-code
// Metadata decides the HTTP status, whether the caller may retry, and
// how much detail leaves the process.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// Code is the stable machine-readable identifier clients switch on.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeFetchFailed   Code = "FETCH_FAILED"
	CodeOrderRejected Code = "ORDER_REJECTED"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a Code is rendered at the HTTP edge.
// PublicMessage is the fallback when the error carries no message of
// its own, and DetailsAllowed gates structured details in responses.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var codeTable = map[Code]Metadata{
	CodeValidation:    {http.StatusBadRequest, false, "validation failed", true},
	CodeUnauthorized:  {http.StatusUnauthorized, false, "authentication required", false},
	CodeForbidden:     {http.StatusForbidden, false, "access denied", false},
	CodeNotFound:      {http.StatusNotFound, false, "resource not found", false},
	CodeFetchFailed:   {http.StatusBadGateway, true, "upstream fetch failed", true},
	CodeOrderRejected: {http.StatusUnprocessableEntity, false, "order was not accepted", true},
	CodeIdempotency:   {http.StatusConflict, false, "idempotency key reused", true},
	CodeRateLimit:     {http.StatusTooManyRequests, false, "rate limit exceeded", false},
	CodeInternal:      {http.StatusInternalServerError, true, "internal server error", false},
	CodeDependency:    {http.StatusServiceUnavailable, true, "dependency unavailable", true},
}

// MetadataFor returns the rendering rules for a code. Unknown codes
// collapse to CodeInternal so nothing ever renders without a status.
func MetadataFor(code Code) Metadata {
	if meta, ok := codeTable[code]; ok {
		return meta
	}
	return codeTable[CodeInternal]
}

// Error is a classified error. The message is operator-facing; what a
// client sees is decided by Metadata at write time, not here.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap classifies an underlying error. A nil cause degrades to New so
// call sites do not need to branch.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

// WithDetails attaches structured context, typically field-level
// validation results. Details only reach clients when the code's
// metadata allows it.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

// Code is nil-safe and reports CodeInternal for a nil receiver.
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

// As walks the chain and returns the first *Error, or nil when the
// chain holds no classified error at all.
func As(err error) *Error {
	var typed *Error
	if err != nil && stderrs.As(err, &typed) {
		return typed
	}
	return nil
}
