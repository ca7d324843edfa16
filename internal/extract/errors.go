package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"vidresolve/internal/fetch"
)

var (
	// ErrNoURLFound means the share text has no http(s) URL in it.
	ErrNoURLFound = errors.New("no URL found in share text")

	// ErrDataBlockNotFound means no script element carries the marker.
	ErrDataBlockNotFound = errors.New("router data block not found in page")

	// ErrEmptyItemList means the item list is absent, null or empty.
	ErrEmptyItemList = errors.New("item list is empty or missing")
)

// Causes carried by SchemaError.
var (
	ErrInvalidJSON     = errors.New("invalid JSON")
	ErrTypeMismatch    = errors.New("unexpected JSON type")
	ErrMissingKey      = errors.New("missing key")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// SchemaError reports that the data block no longer has the expected shape.
type SchemaError struct {
	Path    string // steps walked before the failing one
	Segment string // failing step
	Cause   error
	Detail  string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("schema navigation failed at %q", e.Segment)
	if e.Path != "" {
		msg += fmt.Sprintf(" (after %s)", e.Path)
	}
	msg += ": " + e.Cause.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Failure wraps any error returned by Extractor.Extract with the last stage
// the extraction reached.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("extraction failed after %s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Kind groups errors by what the caller can do about them.
type Kind string

const (
	KindBadInput      Kind = "bad_input"
	KindUnavailable   Kind = "unavailable"
	KindSchemaChanged Kind = "schema_changed"
	KindCanceled      Kind = "canceled"
	KindUnknown       Kind = "unknown"
)

// Classify maps an extraction error to its Kind.
func Classify(err error) Kind {
	var (
		fe *fetch.FetchError
		se *SchemaError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		if fe.Aborted() {
			return KindCanceled
		}
		return KindUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrNoURLFound):
		return KindBadInput
	case errors.Is(err, ErrDataBlockNotFound), errors.Is(err, ErrEmptyItemList), errors.As(err, &se):
		return KindSchemaChanged
	default:
		return KindUnknown
	}
}

// Retryable reports whether a later attempt could succeed: transport
// failures, timeouts and throttling or server-side statuses.
func Retryable(err error) bool {
	var fe *fetch.FetchError
	if !errors.As(err, &fe) {
		return false
	}
	if fe.Aborted() || errors.Is(err, fetch.ErrInvalidURL) {
		return false
	}
	switch {
	case fe.StatusCode == 0:
		return fe.Err != nil
	case fe.StatusCode == http.StatusRequestTimeout, fe.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return fe.StatusCode >= 500
	}
}
