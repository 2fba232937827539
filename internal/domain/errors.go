package domain

import (
	"errors"
	"net/http"
)

// ErrorKind is the failure category surfaced to callers.
type ErrorKind string

const (
	KindInvalidInput          ErrorKind = "invalid_input"
	KindAuth                  ErrorKind = "auth_error"
	KindModelNotFound         ErrorKind = "model_not_found"
	KindRateLimited           ErrorKind = "rate_limited"
	KindUpstreamShapeMismatch ErrorKind = "upstream_shape_mismatch"
	KindUpstream              ErrorKind = "upstream_error"
	KindClientIO              ErrorKind = "client_io_error"
)

// Message codes used to pick the user-facing text.
const (
	CodeImageRequired  = "image_required"
	CodeImageInvalid   = "image_invalid"
	CodeStyleInvalid   = "style_invalid"
	CodeBodyInvalid    = "body_invalid"
	CodeBodyTooLarge   = "body_too_large"
	CodeAuth           = "auth"
	CodeModelNotFound  = "model_not_found"
	CodeRateLimited    = "rate_limited"
	CodeShapeMismatch  = "shape_mismatch"
	CodeUpstream       = "upstream"
	CodeImageReadFail  = "image_read_failed"
	CodeMissingChoice  = "missing_selection"
	CodeGenerateFailed = "generate_failed"
)

var (
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrAuth                  = &Error{Kind: KindAuth}
	ErrModelNotFound         = &Error{Kind: KindModelNotFound}
	ErrRateLimited           = &Error{Kind: KindRateLimited}
	ErrUpstreamShapeMismatch = &Error{Kind: KindUpstreamShapeMismatch}
	ErrUpstream              = &Error{Kind: KindUpstream}
	ErrClientIO              = &Error{Kind: KindClientIO}
)

// Error is a classified failure. Message is safe to show to end users, Detail
// is operator-only diagnostic text and must never be written to a response.
// Args fill the format verbs of the localized text for Code.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Args    []any
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return string(e.Kind) + ": " + e.Message
	}
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// HTTPStatus maps the kind onto the relay's response status.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindModelNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds a classified error.
func NewError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// InvalidInput reports a rejected request field.
func InvalidInput(code, message string) *Error {
	return NewError(KindInvalidInput, code, message)
}

// Upstream wraps an unclassified provider failure, keeping its message.
func Upstream(err error) *Error {
	msg := "upstream request failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindUpstream, Code: CodeUpstream, Message: msg, Err: err}
}

// AsError classifies err, treating anything unclassified as an upstream failure.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Upstream(err)
}
