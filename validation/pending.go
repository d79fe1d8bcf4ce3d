package validation

import (
	"sync"
	"time"

	"github.com/entryhold/node/chain"
)

// Registry tracks validations parked on unresolved dependencies: a FIFO,
// deduplicating queue plus a separate in-process set, per entry address
// and workflow kind.
type Registry struct {
	mu sync.Mutex

	order  []chain.PendingKey
	queued map[chain.PendingKey]chain.PendingValidationWithTimeout

	inProcess map[chain.PendingKey]chain.PendingValidation
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		queued:    make(map[chain.PendingKey]chain.PendingValidationWithTimeout),
		inProcess: make(map[chain.PendingKey]chain.PendingValidation),
	}
}

// Enqueue inserts pending into the queued set. If an equivalent entry
// (same entry address and workflow) is already queued, the tightest
// deadline wins: a finite timeout always beats a nil ("retry
// indefinitely") one, since a caller that wants a bound should not have
// it silently dropped by a more patient concurrent caller.
func (r *Registry) Enqueue(pending chain.PendingValidation, timeout *time.Time) {
	key := pending.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.queued[key]
	if !ok {
		r.order = append(r.order, key)
		r.queued[key] = chain.PendingValidationWithTimeout{Pending: pending, Timeout: timeout}
		return
	}
	existing.Pending = pending
	existing.Timeout = earliestDeadline(existing.Timeout, timeout)
	r.queued[key] = existing
}

func earliestDeadline(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Before(*b) {
		return a
	}
	return b
}

// Promote moves key from the queued set to in-process, returning the
// pending validation and true if it was queued.
func (r *Registry) Promote(key chain.PendingKey) (chain.PendingValidation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.queued[key]
	if !ok {
		return chain.PendingValidation{}, false
	}
	delete(r.queued, key)
	r.order = removeKey(r.order, key)
	r.inProcess[key] = item.Pending
	return item.Pending, true
}

// Complete removes key from the in-process set.
func (r *Registry) Complete(key chain.PendingKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inProcess, key)
}

// Expire removes every queued item whose deadline has passed as of now
// and returns them for escalation by the caller.
func (r *Registry) Expire(now time.Time) []chain.PendingValidation {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []chain.PendingValidation
	kept := r.order[:0:0]
	for _, key := range r.order {
		item := r.queued[key]
		if item.Timeout != nil && !now.Before(*item.Timeout) {
			expired = append(expired, item.Pending)
			delete(r.queued, key)
			continue
		}
		kept = append(kept, key)
	}
	r.order = kept
	return expired
}

// Queued returns a snapshot of the queued keys in insertion order, for
// a scheduler tick to iterate and attempt promotion.
func (r *Registry) Queued() []chain.PendingKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]chain.PendingKey, len(r.order))
	copy(out, r.order)
	return out
}

// PeekTimeout returns the deadline currently associated with a queued
// key, without promoting it, so a retry tick that does promote the item
// can re-enqueue it under its original deadline if the retry itself
// doesn't resolve it.
func (r *Registry) PeekTimeout(key chain.PendingKey) (*time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.queued[key]
	if !ok {
		return nil, false
	}
	return item.Timeout, true
}

// QueuedWorkflows returns a snapshot of every queued pending validation
// with its deadline, in insertion order, for diagnostic dumps.
func (r *Registry) QueuedWorkflows() []chain.PendingValidationWithTimeout {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]chain.PendingValidationWithTimeout, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.queued[key])
	}
	return out
}

// InProcessWorkflows returns a snapshot of every pending validation
// currently promoted out of the queue, for diagnostic dumps.
func (r *Registry) InProcessWorkflows() []chain.PendingValidation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]chain.PendingValidation, 0, len(r.inProcess))
	for _, p := range r.inProcess {
		out = append(out, p)
	}
	return out
}

func removeKey(order []chain.PendingKey, key chain.PendingKey) []chain.PendingKey {
	for i, k := range order {
		if k == key {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
