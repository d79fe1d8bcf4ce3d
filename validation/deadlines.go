package validation

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/entryhold/node/chain"
)

// recentExpirationsCacheSize bounds the sweeper's recently-expired cache;
// a node with more in-flight pending validations than this within one
// sweep interval would need a larger node, not a larger cache.
const recentExpirationsCacheSize = 1024

// RetryFunc re-attempts a previously parked validation and reports its
// outcome. It is handed the promoted PendingValidation and returns the
// Result the dispatcher would have produced had dependencies resolved
// in time; a caller's implementation re-runs ValidateEntry (and, on a
// Valid outcome, holds the entry) against the node's current state.
type RetryFunc func(ctx context.Context, pending chain.PendingValidation) Result

// Sweeper runs at a fixed cadence. Each tick it first expires queued
// pending validations whose deadline has passed, per the design notes'
// "sweeper task", then — since a dependency may have arrived locally
// since the item was parked — promotes every still-queued item and
// re-attempts it via retry. The recent-expirations cache absorbs the
// case where escalation re-enqueues the same key before the next tick,
// so a slow onExpire callback never causes the same expiry to be
// reported twice.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	onExpire func(p PendingExpiry)
	retry    RetryFunc

	recent *lru.Cache
}

// PendingExpiry is handed to a Sweeper's onExpire callback for each
// queued item whose deadline passed.
type PendingExpiry struct {
	Key chain.PendingKey
}

// NewSweeper builds a Sweeper over registry, ticking every interval,
// invoking onExpire once per freshly expired key, and re-attempting
// every still-queued item via retry. A nil retry disables the
// re-attempt pass entirely (only expiry runs).
func NewSweeper(registry *Registry, interval time.Duration, onExpire func(PendingExpiry), retry RetryFunc) *Sweeper {
	recent, err := lru.New(recentExpirationsCacheSize)
	if err != nil {
		// lru.New only errors on a non-positive size, which never happens
		// for the constant above.
		panic("validation: building sweeper cache: " + err.Error())
	}
	return &Sweeper{registry: registry, interval: interval, onExpire: onExpire, retry: retry, recent: recent}
}

// Run blocks, ticking the sweeper until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context, now time.Time) {
	expired := s.registry.Expire(now)

	for _, p := range expired {
		key := p.Key()
		if _, seen := s.recent.Get(key); seen {
			continue
		}
		s.recent.Add(key, now)

		pendingExpiredCounter.Inc()
		log.WithFields(logrus.Fields{"entry_address": key.EntryAddress.String(), "workflow": key.Workflow}).Warn("pending validation expired")

		if s.onExpire != nil {
			s.onExpire(PendingExpiry{Key: key})
		}
	}

	s.retryQueued(ctx)
	pendingQueueDepth.Set(float64(len(s.registry.Queued())))
}

// retryQueued promotes every item still queued after expiry and hands
// it to retry. A Valid or terminal (Invalid/NotImplemented/SystemError)
// outcome completes the item; a Pending outcome re-enqueues it under
// its original deadline, with Attempt incremented, for the next tick to
// try again.
func (s *Sweeper) retryQueued(ctx context.Context) {
	if s.retry == nil {
		return
	}

	for _, key := range s.registry.Queued() {
		timeout, ok := s.registry.PeekTimeout(key)
		if !ok {
			continue // raced with expiry or a concurrent promotion
		}
		pending, ok := s.registry.Promote(key)
		if !ok {
			continue
		}

		result := s.retry(ctx, pending)
		s.registry.Complete(key)

		if result.Outcome == OutcomePending {
			pending.Attempt++
			s.registry.Enqueue(pending, timeout)
			continue
		}

		pendingRetryResolvedCounter.WithLabelValues(result.Outcome.String()).Inc()
		log.WithFields(logrus.Fields{
			"entry_address": key.EntryAddress.String(),
			"workflow":      key.Workflow,
			"outcome":       result.Outcome.String(),
		}).Debug("pending validation resolved on retry")
	}
}
