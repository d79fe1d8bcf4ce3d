package validation

import (
	stderrors "errors"

	"github.com/sirupsen/logrus"

	"github.com/entryhold/node/address"
)

var log = logrus.WithField("prefix", "validation")

// Outcome is the user-visible result of a validation attempt.
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeInvalid
	OutcomePending
	OutcomeNotImplemented
	OutcomeSystemError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeInvalid:
		return "invalid"
	case OutcomePending:
		return "pending"
	case OutcomeNotImplemented:
		return "not_implemented"
	case OutcomeSystemError:
		return "system_error"
	default:
		return "unknown"
	}
}

// Result is the escalated, loggable result of a validation attempt.
type Result struct {
	Outcome Outcome
	Reason  string
	Err     error
}

func valid() Result {
	recordOutcome(OutcomeValid)
	return Result{Outcome: OutcomeValid}
}

// processValidationErr escalates a raw validator error into a Result,
// logging at the severity the error's layer calls for: structural
// failures warn and do not retry, unresolved dependencies log at debug
// and timeouts at warn, both becoming retryable Pending outcomes, and
// every other infrastructural error warns and surfaces unchanged.
func processValidationErr(entryAddr address.Address, source string, err error) Result {
	if err == nil {
		return valid()
	}

	fields := logrus.Fields{"entry_address": entryAddr.String(), "workflow_source": source}

	var unresolved *UnresolvedDependenciesError
	var fail *FailError

	switch {
	case stderrors.As(err, &unresolved):
		log.WithFields(fields).WithField("dependencies", unresolved.Dependencies).Debug("validation pending: unresolved dependencies")
		recordOutcome(OutcomePending)
		return Result{Outcome: OutcomePending, Err: err}

	case IsTimeout(err):
		log.WithFields(fields).WithError(err).Warn("validation pending: dependency fetch timed out")
		recordOutcome(OutcomePending)
		return Result{Outcome: OutcomePending, Err: err}

	case stderrors.As(err, &fail):
		log.WithFields(fields).WithField("reason", fail.Reason).Warn("validation failed")
		recordOutcome(OutcomeInvalid)
		return Result{Outcome: OutcomeInvalid, Reason: fail.Reason, Err: err}

	case stderrors.Is(err, ErrNotImplemented):
		log.WithFields(fields).Debug("no validator for entry type")
		recordOutcome(OutcomeNotImplemented)
		return Result{Outcome: OutcomeNotImplemented, Err: err}

	default:
		log.WithFields(fields).WithError(err).Warn("validation system error")
		recordOutcome(OutcomeSystemError)
		return Result{Outcome: OutcomeSystemError, Err: err}
	}
}
