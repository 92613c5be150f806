package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoChangeNeeded marks a target whose weight equals the subject's
	// current weight; the orchestrator handles it as a pass-through, the
	// prompt composer refuses it.
	ErrNoChangeNeeded = errors.New("target weight equals current weight, no change needed")
	// ErrAllGenerationsFailed is returned when every change target failed.
	ErrAllGenerationsFailed = errors.New("all generations failed")
	// ErrNoImageInResponse marks a backend response without any inline image.
	ErrNoImageInResponse = errors.New("no image in response")
)

// InputError reports an invalid caller-supplied field. It maps to a
// 4xx-equivalent at the boundary and is never retried.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fieldRangeReason(value, min, max float64) string {
	return fmt.Sprintf("value %g outside the accepted range %g-%g", value, min, max)
}

// ConversionError reports image bytes that could not be read or decoded.
type ConversionError struct {
	Reason string
	Cause  error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image conversion failed: %s: %v", e.Reason, e.Cause)
	}
	return "image conversion failed: " + e.Reason
}

func (e *ConversionError) Unwrap() error { return e.Cause }

// ConfigurationError reports invalid service configuration (unsupported
// region, missing credentials). Fatal at construction, never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Reason }

// RemoteError wraps a failure from the generative backend and records
// whether it is worth retrying.
type RemoteError struct {
	Message   string
	Retryable bool
	Cause     error
}

func (e *RemoteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error { return e.Cause }

// IsRetryable reports whether err should be retried. A RemoteError carries
// the answer directly; anything else is classified by message signature the
// way upstream providers phrase transient failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Retryable
	}
	var input *InputError
	if errors.As(err, &input) {
		return false
	}
	var config *ConfigurationError
	if errors.As(err, &config) {
		return false
	}
	return matchesTransientSignature(err.Error())
}

func matchesTransientSignature(msg string) bool {
	msg = strings.ToLower(strings.TrimSpace(msg))
	if msg == "" {
		return false
	}
	signatures := []string{
		"rate limit",
		"rate_limit",
		"resource_exhausted",
		"quota",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"overloaded",
		"too many requests",
		"status 429",
		"status 500",
		"status 502",
		"status 503",
		"status 504",
	}
	for _, signature := range signatures {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}
