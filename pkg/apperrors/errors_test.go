package apperrors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"transient", New(Transient, CodeThrottled, "slow down"), Transient},
		{"validation", New(Validation, CodeInvalidInput, "bad"), Validation},
		{"degraded", New(Degraded, CodeEmptyAnalysis, "empty"), Degraded},
		{"logic", New(Logic, CodeLayout, "broken"), Logic},
		{"unclassified defaults to logic", errors.New("mystery"), Logic},
		{"wrapped in fmt chain", fmt.Errorf("outer: %w", New(Transient, CodeThrottled, "inner")), Transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.want {
				t.Errorf("CategoryOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	transient := New(Transient, CodeThrottled, "t")
	if !IsTransient(transient) || IsValidation(transient) || IsDegraded(transient) || IsLogic(transient) {
		t.Error("transient predicates wrong")
	}

	// Unlike CategoryOf, IsLogic is false for unclassified errors: the
	// predicate answers "was this declared a logic defect".
	plain := errors.New("plain")
	if IsLogic(plain) || IsTransient(plain) {
		t.Error("unclassified error matched a predicate")
	}
}

func TestWrapPreservesChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(Transient, CodeUploadFailed, cause, "put object %q", "k")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause lost from chain")
	}
	if CodeOf(err) != CodeUploadFailed {
		t.Errorf("CodeOf = %s", CodeOf(err))
	}
	msg := err.Error()
	if msg != `UPLOAD_FAILED: put object "k": connection reset` {
		t.Errorf("Error() = %q", msg)
	}
}

func TestRetryAfter(t *testing.T) {
	err := New(Transient, CodeThrottled, "throttled").WithRetryAfter(3 * time.Second)

	if got := RetryAfterOf(err); got != 3*time.Second {
		t.Errorf("RetryAfterOf = %s, want 3s", got)
	}
	if got := RetryAfterOf(fmt.Errorf("outer: %w", err)); got != 3*time.Second {
		t.Errorf("RetryAfterOf through chain = %s, want 3s", got)
	}
	if got := RetryAfterOf(errors.New("plain")); got != 0 {
		t.Errorf("RetryAfterOf(plain) = %s, want 0", got)
	}
}

func TestCodeOfUnclassified(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}
