package validation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/validation"
)

type alwaysVerifySigner struct{ verifies bool }

func (s alwaysVerifySigner) Verify(address.Address, []byte, []byte) bool { return s.verifies }
func (s alwaysVerifySigner) Sign(payload []byte) ([]byte, error)         { return payload, nil }
func (s alwaysVerifySigner) LocalAddress() address.Address              { return address.Address{} }

type recordingSandbox struct {
	called  bool
	lastEvd chain.EntryValidationData
	err     error
}

func (s *recordingSandbox) CallValidationCallback(data chain.EntryValidationData) error {
	s.called = true
	s.lastEvd = data
	return s.err
}

type stubDependencyFetcher struct {
	entry chain.EntryWithHeader
	err   error
	sleep time.Duration
}

func (f stubDependencyFetcher) GetEntryWithHeader(ctx context.Context, _ address.Address) (chain.EntryWithHeader, error) {
	if f.sleep > 0 {
		select {
		case <-ctx.Done():
			return chain.EntryWithHeader{}, ctx.Err()
		case <-time.After(f.sleep):
		}
	}
	if f.err != nil {
		return chain.EntryWithHeader{}, f.err
	}
	return f.entry, nil
}

func TestValidateEntry_S1_HappyPath(t *testing.T) {
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("hi")}
	header := chain.ChainHeader{EntryType: chain.EntryApp, EntryAddress: entry.Address(), Timestamp: time.Unix(1, 0).UTC(),
		Provenances: []chain.Provenance{{Agent: address.Compute([]byte("agent")), Signature: []byte("sig")}}}
	data := chain.NewValidationData(chain.ValidationPackage{ChainHeader: header})

	sb := &recordingSandbox{}
	vctx := &validation.Context{
		Sandbox: sb,
		Signer:  alwaysVerifySigner{verifies: true},
		Source:  "test",
	}

	result := validation.ValidateEntry(context.Background(), vctx, entry, nil, &data)
	if result.Outcome != validation.OutcomeValid {
		t.Fatalf("expected Valid, got %v (err=%v)", result.Outcome, result.Err)
	}
	if !sb.called {
		t.Fatal("expected the sandbox callback to be invoked")
	}
	if sb.lastEvd.NewEntry.Address() != entry.Address() {
		t.Fatal("expected the sandbox to receive the entry under validation")
	}
}

func TestValidateEntry_S2_WrongAddress(t *testing.T) {
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("hi")}
	wrongAddr := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("bye")}.Address()
	header := chain.ChainHeader{EntryType: chain.EntryApp, EntryAddress: wrongAddr, Timestamp: time.Unix(1, 0).UTC()}
	data := chain.NewValidationData(chain.ValidationPackage{ChainHeader: header})

	sb := &recordingSandbox{}
	vctx := &validation.Context{Sandbox: sb, Signer: alwaysVerifySigner{verifies: true}, Source: "test"}

	result := validation.ValidateEntry(context.Background(), vctx, entry, nil, &data)
	if result.Outcome != validation.OutcomeInvalid {
		t.Fatalf("expected Invalid, got %v", result.Outcome)
	}
	if sb.called {
		t.Fatal("expected the sandbox to never be called on a header/entry mismatch")
	}
}

func TestValidateEntry_InvalidProvenance(t *testing.T) {
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("hi")}
	header := chain.ChainHeader{EntryType: chain.EntryApp, EntryAddress: entry.Address(), Timestamp: time.Unix(1, 0).UTC(),
		Provenances: []chain.Provenance{{Agent: address.Compute([]byte("agent")), Signature: []byte("bad-sig")}}}
	data := chain.NewValidationData(chain.ValidationPackage{ChainHeader: header})

	sb := &recordingSandbox{}
	vctx := &validation.Context{Sandbox: sb, Signer: alwaysVerifySigner{verifies: false}, Source: "test"}

	result := validation.ValidateEntry(context.Background(), vctx, entry, nil, &data)
	if result.Outcome != validation.OutcomeInvalid {
		t.Fatalf("expected Invalid for a bad provenance, got %v", result.Outcome)
	}
}

func TestValidateEntry_S3_ModifyMissingOldEntry_NonTimeoutFailure(t *testing.T) {
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("hi")}
	header := chain.ChainHeader{EntryType: chain.EntryApp, EntryAddress: entry.Address(), Timestamp: time.Unix(1, 0).UTC()}
	data := chain.NewValidationData(chain.ValidationPackage{ChainHeader: header})

	link := address.Compute([]byte("old-entry"))
	sb := &recordingSandbox{}
	vctx := &validation.Context{
		Sandbox: sb,
		Signer:  alwaysVerifySigner{verifies: true},
		Deps:    stubDependencyFetcher{err: errors.New("not found")},
		Source:  "test",
	}

	result := validation.ValidateEntry(context.Background(), vctx, entry, &link, &data)
	if result.Outcome != validation.OutcomeInvalid {
		t.Fatalf("expected Invalid(Fail) for a non-timeout lookup failure, got %v (%v)", result.Outcome, result.Err)
	}
	if sb.called {
		t.Fatal("expected the sandbox to never be called when the predecessor can't be found")
	}
}

func TestValidateEntry_S4_ModifyTimeout_BecomesPending(t *testing.T) {
	entry := chain.Entry{Type: chain.EntryApp, AppType: "post", Value: []byte("hi")}
	header := chain.ChainHeader{EntryType: chain.EntryApp, EntryAddress: entry.Address(), Timestamp: time.Unix(1, 0).UTC()}
	data := chain.NewValidationData(chain.ValidationPackage{ChainHeader: header})

	link := address.Compute([]byte("old-entry"))
	sb := &recordingSandbox{}
	vctx := &validation.Context{
		Sandbox: sb,
		Signer:  alwaysVerifySigner{verifies: true},
		Deps:    stubDependencyFetcher{sleep: 50 * time.Millisecond},
		Source:  "test",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result := validation.ValidateEntry(ctx, vctx, entry, &link, &data)
	if result.Outcome != validation.OutcomePending {
		t.Fatalf("expected Pending on a dependent-fetch timeout, got %v (%v)", result.Outcome, result.Err)
	}
}

func TestValidateEntry_TemporalPruning(t *testing.T) {
	headerTime := time.Unix(1000, 0).UTC()
	entry := chain.Entry{Type: chain.EntryDna}
	header := chain.ChainHeader{EntryType: chain.EntryDna, EntryAddress: entry.Address(), Timestamp: headerTime}

	older := chain.ChainHeader{Timestamp: headerTime.Add(-time.Hour)}
	newer := chain.ChainHeader{Timestamp: headerTime.Add(time.Hour)}
	data := chain.NewValidationData(chain.ValidationPackage{
		ChainHeader:        header,
		SourceChainHeaders: []chain.ChainHeader{older, newer},
	})

	vctx := &validation.Context{Sandbox: &recordingSandbox{}, Signer: alwaysVerifySigner{verifies: true}, Source: "test"}
	result := validation.ValidateEntry(context.Background(), vctx, entry, nil, &data)
	if result.Outcome != validation.OutcomeValid {
		t.Fatalf("expected Valid for a Dna entry, got %v", result.Outcome)
	}
	if len(data.Package.SourceChainHeaders) != 1 {
		t.Fatalf("expected pruning to drop the non-older header, got %d remaining", len(data.Package.SourceChainHeaders))
	}
}

func TestValidateEntry_UnimplementedType(t *testing.T) {
	entry := chain.Entry{Type: chain.EntryUnknown}
	header := chain.ChainHeader{EntryAddress: entry.Address(), Timestamp: time.Unix(1, 0).UTC()}
	data := chain.NewValidationData(chain.ValidationPackage{ChainHeader: header})

	vctx := &validation.Context{Sandbox: &recordingSandbox{}, Signer: alwaysVerifySigner{verifies: true}, Source: "test"}
	result := validation.ValidateEntry(context.Background(), vctx, entry, nil, &data)
	if result.Outcome != validation.OutcomeNotImplemented {
		t.Fatalf("expected NotImplemented, got %v", result.Outcome)
	}
}
