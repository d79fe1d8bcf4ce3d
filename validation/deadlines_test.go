package validation_test

import (
	"context"
	"testing"
	"time"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/validation"
)

func TestSweeper_ExpiresOverdueEntry(t *testing.T) {
	reg := validation.NewRegistry()
	deadline := time.Now().Add(-time.Hour)
	pending := chain.PendingValidation{
		Workflow:        chain.WorkflowHolding,
		EntryWithHeader: chain.EntryWithHeader{Entry: chain.Entry{Type: chain.EntryApp, Value: []byte("x")}},
		Dependencies:    []address.Address{address.Compute([]byte("dep"))},
	}
	reg.Enqueue(pending, &deadline)

	expiredCh := make(chan validation.PendingExpiry, 1)
	sweeper := validation.NewSweeper(reg, time.Millisecond, func(e validation.PendingExpiry) {
		expiredCh <- e
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go sweeper.Run(ctx)

	select {
	case e := <-expiredCh:
		if e.Key.EntryAddress != pending.Key().EntryAddress {
			t.Fatalf("expected expiry for %s, got %s", pending.Key().EntryAddress, e.Key.EntryAddress)
		}
	case <-time.After(time.Second):
		t.Fatal("expected the sweeper to expire the overdue entry")
	}

	if got := len(reg.Queued()); got != 0 {
		t.Fatalf("expected the expired entry to leave the queue, got %d remaining", got)
	}
}

func TestSweeper_LeavesFutureDeadlineQueued(t *testing.T) {
	reg := validation.NewRegistry()
	deadline := time.Now().Add(time.Hour)
	pending := chain.PendingValidation{
		Workflow:        chain.WorkflowHolding,
		EntryWithHeader: chain.EntryWithHeader{Entry: chain.Entry{Type: chain.EntryApp, Value: []byte("y")}},
	}
	reg.Enqueue(pending, &deadline)

	called := make(chan struct{}, 1)
	sweeper := validation.NewSweeper(reg, time.Millisecond, func(validation.PendingExpiry) {
		called <- struct{}{}
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	sweeper.Run(ctx)

	select {
	case <-called:
		t.Fatal("expected a future deadline to not be expired")
	default:
	}
	if got := len(reg.Queued()); got != 1 {
		t.Fatalf("expected the entry to remain queued, got %d", got)
	}
}

func TestSweeper_RetryCompletesAResolvedItem(t *testing.T) {
	reg := validation.NewRegistry()
	deadline := time.Now().Add(time.Hour)
	pending := chain.PendingValidation{
		Workflow:        chain.WorkflowHolding,
		EntryWithHeader: chain.EntryWithHeader{Entry: chain.Entry{Type: chain.EntryApp, Value: []byte("z")}},
	}
	reg.Enqueue(pending, &deadline)

	retried := make(chan struct{}, 1)
	sweeper := validation.NewSweeper(reg, time.Millisecond, nil, func(_ context.Context, p chain.PendingValidation) validation.Result {
		retried <- struct{}{}
		return validation.Result{Outcome: validation.OutcomeValid}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	sweeper.Run(ctx)

	select {
	case <-retried:
	default:
		t.Fatal("expected the sweeper to retry the queued item")
	}
	if got := len(reg.Queued()); got != 0 {
		t.Fatalf("expected a resolved item to leave the queue, got %d remaining", got)
	}
}

func TestSweeper_RetryReenqueuesAStillPendingItem(t *testing.T) {
	reg := validation.NewRegistry()
	deadline := time.Now().Add(time.Hour)
	pending := chain.PendingValidation{
		Workflow:        chain.WorkflowHolding,
		EntryWithHeader: chain.EntryWithHeader{Entry: chain.Entry{Type: chain.EntryApp, Value: []byte("w")}},
	}
	reg.Enqueue(pending, &deadline)

	sweeper := validation.NewSweeper(reg, time.Millisecond, nil, func(_ context.Context, p chain.PendingValidation) validation.Result {
		return validation.Result{Outcome: validation.OutcomePending}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	sweeper.Run(ctx)

	if got := len(reg.Queued()); got != 1 {
		t.Fatalf("expected the still-pending item to remain queued, got %d", got)
	}
}
