package validation

import (
	"context"

	"go.opencensus.io/trace"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/sandbox"
	"github.com/entryhold/node/signer"
)

// Context bundles the collaborators a validation attempt needs: the
// content store, the dependency fetcher for modify/delete predecessors,
// the signing service, and the application sandbox. Built once and
// injected, per the design notes' preference for explicit collaborator
// handles over a shared mutable context threaded everywhere.
type Context struct {
	Store    ContentStore
	Deps     DependencyFetcher
	Signer   signer.Signer
	Sandbox  sandbox.Sandbox
	Source   string // workflow-source label for log correlation
}

// ValidateEntry is the validation dispatcher: it normalizes the
// package, checks header/entry binding and provenances, and routes to a
// type-specific validator. The returned Result already carries the
// user-visible, escalated outcome — callers never need to inspect the
// raw error themselves.
func ValidateEntry(ctx context.Context, vctx *Context, entry chain.Entry, link *address.Address, data *chain.ValidationData) Result {
	ctx, span := trace.StartSpan(ctx, "validation.ValidateEntry")
	defer span.End()

	data.PruneSourceChainHeaders()

	if entry.Address() != data.Package.ChainHeader.EntryAddress {
		return processValidationErr(entry.Address(), vctx.Source, Fail("header/entry mismatch"))
	}

	if err := checkProvenances(vctx.Signer, data.Package.ChainHeader); err != nil {
		return processValidationErr(entry.Address(), vctx.Source, err)
	}

	err := dispatchByType(ctx, vctx, entry, link, data)
	return processValidationErr(entry.Address(), vctx.Source, err)
}

func checkProvenances(s signer.Signer, header chain.ChainHeader) error {
	payload := header.SigningPayload()
	for _, p := range header.Provenances {
		if !s.Verify(p.Agent, payload, p.Signature) {
			return Fail("invalid provenance")
		}
	}
	return nil
}

func dispatchByType(ctx context.Context, vctx *Context, entry chain.Entry, link *address.Address, data *chain.ValidationData) error {
	switch entry.Type {
	case chain.EntryDna:
		return nil // TODO: unconditional pass, per upstream's own pending future work

	case chain.EntryApp:
		evd, err := entryToValidationData(ctx, vctx.Deps, entry, link, data)
		if err != nil {
			return err
		}
		return validateAppEntry(vctx.Sandbox, evd)

	case chain.EntryLinkAdd, chain.EntryLinkRemove:
		return validateLinkEntry(vctx.Store, vctx.Sandbox, entry, data)

	case chain.EntryDeletion:
		evd, err := entryToValidationData(ctx, vctx.Deps, entry, link, data)
		if err != nil {
			return err
		}
		return validateRemoveEntry(vctx.Sandbox, evd)

	case chain.EntryCapTokenGrant:
		return nil // grants are node-private; nothing to check against the DHT

	case chain.EntryAgentID:
		return validateAgentEntry(vctx.Sandbox, entry, data)

	case chain.EntryChainHeader:
		return nil // placeholder, mirrors EntryDna

	default:
		return ErrNotImplemented
	}
}
