// Package github is a small client for the GitHub REST endpoints used to
// search users and inspect their profiles.
package github

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure kinds surfaced to the user.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNoResults    Kind = "NO_RESULTS"
	KindUserNotFound Kind = "USER_NOT_FOUND"
	KindRateLimit    Kind = "RATE_LIMIT"
	KindAPI          Kind = "API_ERROR"
	KindNetwork      Kind = "NETWORK_ERROR"
)

// Failure is the typed error returned by every client operation.
type Failure struct {
	Kind    Kind
	Message string
	Status  int   // HTTP status, 0 when no response was received
	Err     error // underlying cause, if any
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", f.Kind, f.Status, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches another *Failure by kind, so errors.Is(err, &Failure{Kind: KindNoResults})
// works without comparing messages.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	return t.Kind == f.Kind
}

// Retryable reports whether re-sending the same request may succeed.
// Validation failures and empty results need different input instead.
func (f *Failure) Retryable() bool {
	switch f.Kind {
	case KindValidation, KindNoResults:
		return false
	}
	return true
}

// NewFailure returns a failure of the given kind.
func NewFailure(kind Kind, message string, status int) *Failure {
	return &Failure{Kind: kind, Message: message, Status: status}
}

func validationFailure(message string) *Failure {
	return NewFailure(KindValidation, message, 0)
}

func networkFailure(err error) *Failure {
	return &Failure{
		Kind:    KindNetwork,
		Message: "Network connection failed. Please check your internet connection.",
		Err:     err,
	}
}

// AsFailure returns err as a *Failure. Errors that are not already typed are
// wrapped as API_ERROR with the given message.
func AsFailure(err error, message string) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: KindAPI, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a *Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}
