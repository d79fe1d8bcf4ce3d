// Package validation implements the coordination subsystem that tracks
// pending validations, resolves validation packages from remote
// sources, serves DHT fetch requests, and dispatches entries to
// type-specific validators.
package validation

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/entryhold/node/address"
)

// FailError is a structural or application rejection: the entry is
// invalid and retrying will not change that.
type FailError struct {
	Reason string
}

func (e *FailError) Error() string {
	return fmt.Sprintf("validation: %s", e.Reason)
}

// Fail builds a FailError with the given reason.
func Fail(reason string) error {
	return &FailError{Reason: reason}
}

// UnresolvedDependenciesError reports that a validator needs data not
// yet held locally.
type UnresolvedDependenciesError struct {
	Dependencies []address.Address
}

func (e *UnresolvedDependenciesError) Error() string {
	return fmt.Sprintf("validation: unresolved dependencies: %v", e.Dependencies)
}

// UnresolvedDependencies builds an UnresolvedDependenciesError.
func UnresolvedDependencies(deps []address.Address) error {
	return &UnresolvedDependenciesError{Dependencies: deps}
}

// ErrNotImplemented reports that no validator exists for an entry's
// type.
var ErrNotImplemented = errors.New("validation: no validator implemented for this entry type")

// TimeoutError reports that a dependent fetch or package request did
// not complete before its deadline. It participates in the infra-error
// escalation path, not the structural one: timeouts are retryable.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("validation: timed out after %s", e.Elapsed)
}

// Timeout builds a TimeoutError, wrapped as an InfraError per the
// escalation policy in outcome.go.
func Timeout(elapsed time.Duration) error {
	return Infra(&TimeoutError{Elapsed: elapsed})
}

// IsTimeout reports whether err is, or wraps, a *TimeoutError.
func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

// InfraError wraps an infrastructural failure (channel closed, state
// absent, I/O) that is fatal to the current attempt but unrelated to
// the entry's validity.
type InfraError struct {
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("validation: infrastructure error: %s", e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// Infra wraps err as an InfraError.
func Infra(err error) error {
	return &InfraError{Err: err}
}
