package chain

import (
	"time"

	"github.com/entryhold/node/address"
)

// WorkflowKind distinguishes why an entry is being validated; it
// participates in the pending-registry's dedup key alongside the entry
// address.
type WorkflowKind string

const (
	WorkflowHolding  WorkflowKind = "holding"
	WorkflowAuthoring WorkflowKind = "authoring"
)

// PendingValidation is a validation attempt parked because one or more
// dependencies are not yet held locally.
type PendingValidation struct {
	Workflow        WorkflowKind
	EntryWithHeader EntryWithHeader
	Dependencies    []address.Address
	Attempt         int
}

// Key returns the dedup/ordering key used by the pending-validation
// registry: the entry address paired with the workflow kind.
func (p PendingValidation) Key() PendingKey {
	return PendingKey{
		EntryAddress: p.EntryWithHeader.Entry.Address(),
		Workflow:     p.Workflow,
	}
}

// PendingKey is the FIFO/dedup key for a queued or in-process pending
// validation.
type PendingKey struct {
	EntryAddress address.Address
	Workflow     WorkflowKind
}

// PendingValidationWithTimeout pairs a PendingValidation with its
// deadline. A nil Timeout means "retry indefinitely".
type PendingValidationWithTimeout struct {
	Pending PendingValidation
	Timeout *time.Time
}
