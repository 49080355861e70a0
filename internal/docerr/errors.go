// Package docerr defines the error taxonomy shared by the stores, the
// ingestion pipeline, and the HTTP layer. Every user-visible failure is a
// *Error with a machine-checkable Kind; the HTTP layer maps kinds to status
// codes without inspecting messages.
package docerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. The string value is what clients see in the
// error envelope, so values are stable.
type Kind string

const (
	KindUnknown              Kind = "internal"
	KindNotFound             Kind = "not_found"
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindMalformedDocument    Kind = "malformed_document"
	KindPageOutOfRange       Kind = "page_out_of_range"
	KindBlobMissing          Kind = "blob_missing"
	KindStorageUnavailable   Kind = "storage_unavailable"
)

// Error carries a Kind, the operation that failed and an optional cause.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "ingest"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a *Error without a cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf builds a *Error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a *Error that keeps err as the unwrappable cause.
func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf returns the Kind of err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err indicates an absent document or sentence
// record.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsBlobMissing reports whether err indicates metadata without a blob.
func IsBlobMissing(err error) bool { return KindOf(err) == KindBlobMissing }

// HTTPStatus maps an error to the response status the API contract
// promises for its kind.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound, KindPageOutOfRange, KindBlobMissing:
		return http.StatusNotFound
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindMalformedDocument:
		return http.StatusBadRequest
	case KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
