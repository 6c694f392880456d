// Package apperrors provides structured error types for the infographic pipeline.
//
// Every failure in the system falls into one of four categories that drive
// the orchestrator's recovery policy:
//   - transient: external service hiccups (throttling, timeouts) — retryable
//   - validation: malformed caller input — surfaced immediately, never retried
//   - degraded: a collaborator returned usable-but-low-quality output —
//     absorbed by a fallback substitution
//   - logic: an invariant violation inside a deterministic stage — always
//     fatal, never retried
//
// # Usage
//
//	err := apperrors.New(apperrors.Validation, apperrors.CodeUnknownPlatform,
//	    "unknown platform: %q", id)
//	if apperrors.IsValidation(err) {
//	    // Reject the request
//	}
//
//	// Wrap existing errors
//	err := apperrors.Wrap(apperrors.Transient, apperrors.CodeImageGeneration,
//	    cause, "nova canvas call failed")
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Category classifies an error for the orchestrator's recovery policy.
type Category string

// The closed set of error categories.
const (
	Transient  Category = "transient"
	Validation Category = "validation"
	Degraded   Category = "degraded"
	Logic      Category = "logic"
)

// Code is a machine-readable error code.
type Code string

// Error codes grouped by origin.
const (
	// Input validation
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeUnknownPlatform Code = "UNKNOWN_PLATFORM"

	// External collaborators
	CodeAnalysisFailed  Code = "ANALYSIS_FAILED"
	CodeEmptyAnalysis   Code = "EMPTY_ANALYSIS"
	CodeImageGeneration Code = "IMAGE_GENERATION_FAILED"
	CodeUploadFailed    Code = "UPLOAD_FAILED"
	CodeThrottled       Code = "THROTTLED"

	// Deterministic core
	CodeLayout     Code = "LAYOUT_ERROR"
	CodeFormatting Code = "FORMATTING_ERROR"
	CodeCompose    Code = "COMPOSE_ERROR"

	CodeInternal Code = "INTERNAL_ERROR"
)

// Error is a categorized error with a code and optional cause.
type Error struct {
	Category   Category
	Code       Code
	Message    string
	Cause      error
	RetryAfter time.Duration // optional hint for transient errors
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given category, code, and formatted message.
func New(cat Category, code Code, format string, args ...any) *Error {
	return &Error{
		Category: cat,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error wrapping an existing error.
func Wrap(cat Category, code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Category: cat,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Cause:    cause,
	}
}

// WithRetryAfter attaches a retry-after hint and returns the error.
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	e.RetryAfter = d
	return e
}

// CategoryOf extracts the category from an error chain.
// Unclassified errors default to Logic: an error that nobody categorized is
// a defect, and defects must not be retried.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return Logic
}

// CodeOf extracts the error code from an error chain, or empty if absent.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// RetryAfterOf returns the retry-after hint from an error chain, or zero.
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// IsTransient reports whether err is categorized as transient.
func IsTransient(err error) bool { return is(err, Transient) }

// IsValidation reports whether err is categorized as a validation failure.
func IsValidation(err error) bool { return is(err, Validation) }

// IsDegraded reports whether err signals degraded collaborator output.
func IsDegraded(err error) bool { return is(err, Degraded) }

// IsLogic reports whether err is categorized as a logic defect.
func IsLogic(err error) bool { return is(err, Logic) }

func is(err error, cat Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == cat
	}
	return false
}
