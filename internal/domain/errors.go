package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds surfaced to the invoking collaborator alongside the failed stage.
const (
	KindUnsupportedURL     = "unsupported_url"
	KindExtraction         = "extraction"
	KindNoTranscript       = "no_transcript"
	KindBackendUnavailable = "backend_unavailable"
	KindBackendFatal       = "backend_fatal"
	KindTimeout            = "timeout"
	KindParse              = "parse"
	KindPersistence        = "persistence"
	KindInternal           = "internal"
)

// UnsupportedURLError means the URL matched no known pattern and no hint was given.
type UnsupportedURLError struct {
	URL string
}

func (e *UnsupportedURLError) Error() string {
	return fmt.Sprintf("unsupported url %q: not a youtube, arxiv, or http(s) article link", e.URL)
}

// ExtractionError wraps any failure to turn a URL into usable text.
type ExtractionError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.URL, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NoTranscriptError is the extraction subtype for videos without any
// transcript track. It is reported to the caller, never retried.
type NoTranscriptError struct {
	VideoID string
}

func (e *NoTranscriptError) Error() string {
	return fmt.Sprintf("no transcript available for video %s", e.VideoID)
}

// BackendStatusError is returned by model backends for non-2xx responses so
// the summarization client can decide between retry and fail-fast.
type BackendStatusError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *BackendStatusError) Error() string {
	return fmt.Sprintf("%s backend returned status %d: %s", e.Backend, e.StatusCode, e.Body)
}

// BackendUnavailableError means the configured backend could not be reached
// (or kept failing transiently) within the retry budget.
type BackendUnavailableError struct {
	Backend string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend %s unavailable: %v", e.Backend, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// FatalBackendError covers authentication failures and malformed requests.
// These are never retried.
type FatalBackendError struct {
	Backend string
	Err     error
}

func (e *FatalBackendError) Error() string {
	return fmt.Sprintf("backend %s rejected request: %v", e.Backend, e.Err)
}

func (e *FatalBackendError) Unwrap() error { return e.Err }

// TimeoutError means a single inference call exceeded its per-request budget.
type TimeoutError struct {
	Backend string
	After   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("backend %s timed out after %s", e.Backend, e.After)
}

// ParseError means the model output was empty or clearly not usable text.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response: %s", e.Reason)
}

// Kind reduces an arbitrary pipeline error to its taxonomy bucket.
func Kind(err error) string {
	var (
		unsupported  *UnsupportedURLError
		noTranscript *NoTranscriptError
		extraction   *ExtractionError
		unavailable  *BackendUnavailableError
		fatal        *FatalBackendError
		timeout      *TimeoutError
		parse        *ParseError
	)
	switch {
	case errors.As(err, &unsupported):
		return KindUnsupportedURL
	case errors.As(err, &noTranscript):
		return KindNoTranscript
	case errors.As(err, &extraction):
		return KindExtraction
	case errors.As(err, &fatal):
		return KindBackendFatal
	case errors.As(err, &timeout):
		return KindTimeout
	case errors.As(err, &unavailable):
		return KindBackendUnavailable
	case errors.As(err, &parse):
		return KindParse
	default:
		return KindInternal
	}
}
