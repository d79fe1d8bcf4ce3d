package store_test

import (
	"testing"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

type testEntry struct {
	Value string
}

func TestStore_PutGet_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	addr := address.Compute([]byte("entry-1"))

	if err := s.Put(addr, testEntry{Value: "hello"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got testEntry
	found, err := s.Get(addr, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected entry to be found")
	}
	if got.Value != "hello" {
		t.Fatalf("expected round-tripped value %q, got %q", "hello", got.Value)
	}
}

func TestStore_Get_Missing(t *testing.T) {
	s := openTestStore(t)
	var dst testEntry
	found, err := s.Get(address.Compute([]byte("missing")), &dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected missing entry to report not found")
	}
}

func TestStore_Has(t *testing.T) {
	s := openTestStore(t)
	addr := address.Compute([]byte("entry-2"))

	has, err := s.Has(addr)
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Fatal("expected Has to report false before Put")
	}

	if err := s.Put(addr, testEntry{Value: "x"}); err != nil {
		t.Fatal(err)
	}
	has, err = s.Has(addr)
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Fatal("expected Has to report true after Put")
	}
}

func TestStore_PutGet_CacheServesAfterWrite(t *testing.T) {
	s := openTestStore(t)
	addr := address.Compute([]byte("entry-3"))
	if err := s.Put(addr, testEntry{Value: "cached"}); err != nil {
		t.Fatal(err)
	}
	var got testEntry
	// Exercised twice: once potentially from cache, once guaranteed
	// from disk after a fresh process would evict the cache. Here we
	// simply confirm repeated reads remain consistent.
	for i := 0; i < 2; i++ {
		found, err := s.Get(addr, &got)
		if err != nil || !found {
			t.Fatalf("iteration %d: found=%v err=%v", i, found, err)
		}
		if got.Value != "cached" {
			t.Fatalf("iteration %d: expected %q, got %q", i, "cached", got.Value)
		}
	}
}
