package store_test

import (
	"testing"
	"time"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/store"
)

func TestStore_AppendIterChain_PreservesOrder(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		ewh := chain.EntryWithHeader{
			Entry: chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte{byte(i)}},
			Header: chain.ChainHeader{
				EntryType: chain.EntryApp,
				Timestamp: time.Unix(int64(1000+i), 0).UTC(),
			},
		}
		if err := s.AppendToChain(ewh); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.IterChain()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Entry.Value[0] != byte(i) {
			t.Fatalf("expected append order preserved, entry %d had value %v", i, e.Entry.Value)
		}
	}
}

func TestStore_HoldEntryWithHeader_FindableByEntryAddress(t *testing.T) {
	s := openTestStore(t)
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("hi")}
	ewh := chain.EntryWithHeader{
		Entry:  entry,
		Header: chain.ChainHeader{EntryType: chain.EntryApp, EntryAddress: entry.Address(), Timestamp: time.Unix(1, 0).UTC()},
	}
	if err := s.HoldEntryWithHeader(ewh); err != nil {
		t.Fatal(err)
	}

	headers, err := s.QueryEAV(entry.Address(), "content")
	if err != nil {
		t.Fatal(err)
	}
	if len(headers) != 1 {
		t.Fatalf("expected one header indexed for the entry, got %d", len(headers))
	}

	var got chain.EntryWithHeader
	found, err := s.Get(headers[0], &got)
	if err != nil {
		t.Fatal(err)
	}
	if !found || got.Entry.Address() != entry.Address() {
		t.Fatalf("expected to load back the held entry, found=%v", found)
	}
}

func TestStore_HoldEntryWithHeader_MultipleAuthorings(t *testing.T) {
	s := openTestStore(t)
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("hi")}

	agentA := address.Compute([]byte("agent-a"))
	agentB := address.Compute([]byte("agent-b"))
	ewhA := chain.EntryWithHeader{Entry: entry, Header: chain.ChainHeader{EntryAddress: entry.Address(), Timestamp: time.Unix(1, 0).UTC(), Provenances: []chain.Provenance{{Agent: agentA}}}}
	ewhB := chain.EntryWithHeader{Entry: entry, Header: chain.ChainHeader{EntryAddress: entry.Address(), Timestamp: time.Unix(2, 0).UTC(), Provenances: []chain.Provenance{{Agent: agentB}}}}

	if err := s.HoldEntryWithHeader(ewhA); err != nil {
		t.Fatal(err)
	}
	if err := s.HoldEntryWithHeader(ewhB); err != nil {
		t.Fatal(err)
	}

	headers, err := s.QueryEAV(entry.Address(), "content")
	if err != nil {
		t.Fatal(err)
	}
	if len(headers) != 2 {
		t.Fatalf("expected two distinct content aspects for two authorings, got %d", len(headers))
	}
}
