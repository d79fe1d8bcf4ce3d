package validation_test

import (
	"testing"
	"time"

	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/validation"
)

func samplePending(workflow chain.WorkflowKind) chain.PendingValidation {
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("x")}
	return chain.PendingValidation{
		Workflow:        workflow,
		EntryWithHeader: chain.EntryWithHeader{Entry: entry},
	}
}

func TestRegistry_EnqueuePromoteComplete(t *testing.T) {
	r := validation.NewRegistry()
	p := samplePending(chain.WorkflowHolding)
	r.Enqueue(p, nil)

	if len(r.Queued()) != 1 {
		t.Fatalf("expected 1 queued item")
	}

	got, ok := r.Promote(p.Key())
	if !ok {
		t.Fatal("expected promote to find the queued item")
	}
	if got.Key() != p.Key() {
		t.Fatalf("expected promoted item to match enqueued item")
	}
	if len(r.Queued()) != 0 {
		t.Fatal("expected the queue to be empty after promote")
	}

	r.Complete(p.Key())

	if _, ok := r.Promote(p.Key()); ok {
		t.Fatal("expected promote to fail for a completed, no-longer-queued item")
	}
}

func TestRegistry_Enqueue_Dedup_TightestDeadlineWins(t *testing.T) {
	r := validation.NewRegistry()
	p := samplePending(chain.WorkflowHolding)

	far := time.Now().Add(time.Hour)
	r.Enqueue(p, &far)
	r.Enqueue(p, nil) // nil ("retry indefinitely") must not override a finite deadline

	if deadline, ok := r.PeekTimeout(p.Key()); !ok || deadline == nil || !deadline.Equal(far) {
		t.Fatalf("expected the finite deadline to survive a nil re-enqueue, got %v (ok=%v)", deadline, ok)
	}

	got, ok := r.Promote(p.Key())
	_ = got
	if !ok {
		t.Fatal("expected the deduped item to still be queued")
	}
	if len(r.Queued()) != 0 {
		t.Fatal("expected only one entry after dedup")
	}
}

func TestRegistry_Expire(t *testing.T) {
	r := validation.NewRegistry()
	p := samplePending(chain.WorkflowHolding)

	past := time.Now().Add(-time.Minute)
	r.Enqueue(p, &past)

	expired := r.Expire(time.Now())
	if len(expired) != 1 {
		t.Fatalf("expected 1 expired item, got %d", len(expired))
	}
	if len(r.Queued()) != 0 {
		t.Fatal("expected the expired item removed from the queue")
	}
}

func TestRegistry_Expire_NilTimeoutNeverExpires(t *testing.T) {
	r := validation.NewRegistry()
	p := samplePending(chain.WorkflowHolding)
	r.Enqueue(p, nil)

	expired := r.Expire(time.Now().Add(24 * time.Hour))
	if len(expired) != 0 {
		t.Fatal("expected an indefinite-retry item to never expire")
	}
}

func TestRegistry_PeekTimeout(t *testing.T) {
	r := validation.NewRegistry()
	p := samplePending(chain.WorkflowHolding)

	if _, ok := r.PeekTimeout(p.Key()); ok {
		t.Fatal("expected no timeout for a key that was never enqueued")
	}

	far := time.Now().Add(time.Hour)
	r.Enqueue(p, &far)

	got, ok := r.PeekTimeout(p.Key())
	if !ok || got == nil || !got.Equal(far) {
		t.Fatalf("expected PeekTimeout to return the enqueued deadline, got %v (ok=%v)", got, ok)
	}
	if len(r.Queued()) != 1 {
		t.Fatal("expected PeekTimeout to not promote the item")
	}
}

func TestRegistry_DistinguishesWorkflow(t *testing.T) {
	r := validation.NewRegistry()
	holding := samplePending(chain.WorkflowHolding)
	authoring := samplePending(chain.WorkflowAuthoring)

	r.Enqueue(holding, nil)
	r.Enqueue(authoring, nil)

	if len(r.Queued()) != 2 {
		t.Fatalf("expected two distinct queued entries for different workflows, got %d", len(r.Queued()))
	}
}
