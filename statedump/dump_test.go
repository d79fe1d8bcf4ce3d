package statedump_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/netstate"
	"github.com/entryhold/node/statedump"
	"github.com/entryhold/node/store"
	"github.com/entryhold/node/validation"
)

func newTestCollector(t *testing.T) (*statedump.Collector, *store.Store) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return &statedump.Collector{
		Store:    s,
		Registry: validation.NewRegistry(),
		Network:  netstate.New(),
	}, s
}

func TestCollector_Collect_SourceChainDropsDNAAndReverses(t *testing.T) {
	collector, s := newTestCollector(t)

	dna := chain.EntryWithHeader{
		Entry:  chain.Entry{Type: chain.EntryDna},
		Header: chain.ChainHeader{EntryAddress: address.Compute([]byte("dna"))},
	}
	first := chain.EntryWithHeader{
		Entry:  chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("first")},
		Header: chain.ChainHeader{EntryAddress: address.Compute([]byte("first"))},
	}
	second := chain.EntryWithHeader{
		Entry:  chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("second")},
		Header: chain.ChainHeader{EntryAddress: address.Compute([]byte("second"))},
	}

	for _, ewh := range []chain.EntryWithHeader{dna, first, second} {
		if err := s.AppendToChain(ewh); err != nil {
			t.Fatalf("appending to chain: %v", err)
		}
	}

	dump, err := collector.Collect(statedump.DumpOptions{})
	if err != nil {
		t.Fatalf("collecting: %v", err)
	}

	if len(dump.SourceChain) != 2 {
		t.Fatalf("expected the DNA entry dropped, got %d entries", len(dump.SourceChain))
	}
	if dump.SourceChain[0].Header.EntryAddress != second.Header.EntryAddress {
		t.Fatalf("expected newest-first ordering, got %+v first", dump.SourceChain[0])
	}
	if dump.SourceChain[1].Header.EntryAddress != first.Header.EntryAddress {
		t.Fatalf("expected the older entry second, got %+v", dump.SourceChain[1])
	}
}

func TestCollector_Collect_ReportsQueuedAndInProcessWorkflows(t *testing.T) {
	collector, _ := newTestCollector(t)

	entryAddr := address.Compute([]byte("parked entry"))
	pending := chain.PendingValidation{
		Workflow:        chain.WorkflowHolding,
		EntryWithHeader: chain.EntryWithHeader{Entry: chain.Entry{Type: chain.EntryApp, Value: []byte("parked entry")}, Header: chain.ChainHeader{EntryAddress: entryAddr}},
		Dependencies:    []address.Address{address.Compute([]byte("missing dep"))},
	}
	collector.Registry.Enqueue(pending, nil)

	promoted := chain.PendingValidation{
		Workflow:        chain.WorkflowHolding,
		EntryWithHeader: chain.EntryWithHeader{Entry: chain.Entry{Type: chain.EntryApp, Value: []byte("in process entry")}, Header: chain.ChainHeader{EntryAddress: address.Compute([]byte("in process entry"))}},
	}
	collector.Registry.Enqueue(promoted, nil)
	if _, ok := collector.Registry.Promote(promoted.Key()); !ok {
		t.Fatal("expected the second entry to promote")
	}

	dump, err := collector.Collect(statedump.DumpOptions{})
	if err != nil {
		t.Fatalf("collecting: %v", err)
	}

	if len(dump.QueuedHoldingWorkflows) != 1 {
		t.Fatalf("expected one queued workflow, got %d", len(dump.QueuedHoldingWorkflows))
	}
	if len(dump.InProcessHoldingWorkflows) != 1 {
		t.Fatalf("expected one in-process workflow, got %d", len(dump.InProcessHoldingWorkflows))
	}
}

func TestCollector_Collect_IncludesEAVIndexOnlyWhenRequested(t *testing.T) {
	collector, s := newTestCollector(t)

	entity := address.Compute([]byte("entity"))
	if err := s.AddEAV(entity, store.ContentAttribute, address.Compute([]byte("value"))); err != nil {
		t.Fatalf("adding eav: %v", err)
	}

	withoutIndex, err := collector.Collect(statedump.DumpOptions{})
	if err != nil {
		t.Fatalf("collecting: %v", err)
	}
	if withoutIndex.EAVIndex != nil {
		t.Fatal("expected EAVIndex to be nil when not requested")
	}

	withIndex, err := collector.Collect(statedump.DumpOptions{IncludeEAVIndex: true})
	if err != nil {
		t.Fatalf("collecting: %v", err)
	}
	if len(withIndex.EAVIndex) != 1 {
		t.Fatalf("expected one eav record, got %d", len(withIndex.EAVIndex))
	}
}

func TestStateDump_Render_IncludesSections(t *testing.T) {
	collector, _ := newTestCollector(t)
	dump, err := collector.Collect(statedump.DumpOptions{})
	if err != nil {
		t.Fatalf("collecting: %v", err)
	}

	rendered := dump.Render()
	for _, want := range []string{"STATE DUMP", "Source chain", "Network:", "DHT:"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected rendered dump to contain %q, got:\n%s", want, rendered)
		}
	}
}

func TestScheduler_DisabledNeverTicks(t *testing.T) {
	collector, _ := newTestCollector(t)
	scheduler := statedump.NewScheduler(collector, 10*time.Millisecond, statedump.DumpOptions{}, false)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	// Run should return promptly for a disabled scheduler rather than
	// blocking until the context deadline.
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a disabled scheduler's Run to return promptly")
	}
}
