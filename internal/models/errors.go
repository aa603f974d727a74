package models

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures so handlers can map them to HTTP statuses
// and user-visible reasons without string matching.
type ErrorKind string

const (
	// ErrKindAuth: bad credentials or expired session. Terminal; the user
	// must re-enter credentials.
	ErrKindAuth ErrorKind = "auth"

	// ErrKindUpstreamUnavailable: network or HTTP failure against the
	// broker, feed, article, or LLM endpoint.
	ErrKindUpstreamUnavailable ErrorKind = "upstream_unavailable"

	// ErrKindMalformedPayload: unparseable JSON/HTML/XML from an upstream.
	ErrKindMalformedPayload ErrorKind = "malformed_payload"

	// ErrKindInvalidAnalysisFormat: the generative endpoint's reply could
	// not be parsed into the analysis contract, or the verdict is outside
	// the permitted enum. Surfaced to the user, never coerced.
	ErrKindInvalidAnalysisFormat ErrorKind = "invalid_analysis_format"

	// ErrKindConfigurationMissing: required configuration (e.g. the
	// generative API key) is absent. Terminal, user-visible.
	ErrKindConfigurationMissing ErrorKind = "configuration_missing"
)

// AppError is a categorized error carrying a short machine-usable reason
// plus the raw underlying error for diagnostics.
type AppError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a kind and short reason. err may be nil.
func NewAppError(kind ErrorKind, reason string, err error) *AppError {
	return &AppError{Kind: kind, Reason: reason, Err: err}
}

// KindOf returns the ErrorKind of err, or ErrKindUpstreamUnavailable when
// err carries no AppError in its chain (unclassified failures are treated
// as upstream trouble).
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ErrKindUpstreamUnavailable
}

// Details returns the underlying error text of err for diagnostics, or the
// full message when err is not an AppError.
func Details(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Err != nil {
		return ae.Err.Error()
	}
	return err.Error()
}
